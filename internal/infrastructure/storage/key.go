package storage

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/framevault/framevault-server/internal/domain/asset"
)

const (
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	keyRandomLen   = 13
	// largest multiple of 36 that fits in a byte, to keep the draw unbiased
	base36Cutoff = 252
)

// GenerateKey builds assets/<unixMillis>-<random>[.<ext>] for an uploaded file.
func GenerateKey(originalFilename string, now time.Time) string {
	var b strings.Builder
	b.WriteString(asset.KeyPrefix)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('-')
	b.WriteString(randomBase36(keyRandomLen))
	if ext := asset.Extension(originalFilename); ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

func randomBase36(n int) string {
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic("storage: crypto/rand unavailable: " + err.Error())
		}
		for _, v := range buf {
			if v >= base36Cutoff {
				continue
			}
			out = append(out, base36Alphabet[v%36])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}

func joinPublicURL(base, key string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	key = strings.TrimPrefix(key, "/")
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}
