package upload

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	largeFileBytes     = 100 * 1024 * 1024
	veryLargeFileBytes = 500 * 1024 * 1024
)

// SizeWarnings returns advisory notices for large files. They never block an upload.
func SizeWarnings(files []File) []string {
	var large, veryLarge []string
	for _, f := range files {
		label := fmt.Sprintf("%s (%s)", f.Name, FormatFileSize(f.Size))
		switch {
		case f.Size > veryLargeFileBytes:
			veryLarge = append(veryLarge, label)
		case f.Size > largeFileBytes:
			large = append(large, label)
		}
	}

	var out []string
	if len(veryLarge) > 0 {
		out = append(out, fmt.Sprintf("Very large files detected: %s. Upload may take 10-20 minutes per file.", strings.Join(veryLarge, ", ")))
	}
	if len(large) > 0 {
		out = append(out, fmt.Sprintf("Large files detected: %s. Upload may take 3-8 minutes per file.", strings.Join(large, ", ")))
	}
	return out
}

// FormatFileSize renders a byte count with binary units and up to two decimals.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64) + " " + units[i]
}
