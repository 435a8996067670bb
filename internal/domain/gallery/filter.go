package gallery

import (
	"slices"
	"strings"

	"github.com/framevault/framevault-server/internal/domain/asset"
)

// AllValues is the selector value meaning "no restriction".
const AllValues = "all"

// FilterState is the gallery's free-text query plus structured filters.
// Empty fields do not filter.
type FilterState struct {
	Query        string
	Event        string
	Photographer string
	FileType     asset.FileType
	Tags         []string
	DateFrom     string
	DateTo       string
}

// IsEmpty reports whether no filter is active.
func (f FilterState) IsEmpty() bool {
	return strings.TrimSpace(f.Query) == "" &&
		!selects(f.Event) && !selects(f.Photographer) && !selects(string(f.FileType)) &&
		len(f.Tags) == 0 && f.DateFrom == "" && f.DateTo == ""
}

// Apply returns the assets matching every active filter, newest event date
// first. The input slice is left untouched.
func Apply(assets []asset.Asset, f FilterState) []asset.Asset {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]asset.Asset, 0, len(assets))
	for _, a := range assets {
		if query != "" && !matchesQuery(a, query) {
			continue
		}
		if selects(f.Event) && a.Event != f.Event {
			continue
		}
		if selects(f.Photographer) && a.Photographer != f.Photographer {
			continue
		}
		if selects(string(f.FileType)) && a.FileType != f.FileType {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(a.Tags, f.Tags) {
			continue
		}
		if f.DateFrom != "" && a.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && a.Date > f.DateTo {
			continue
		}
		out = append(out, a)
	}

	slices.SortStableFunc(out, func(a, b asset.Asset) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}

func selects(value string) bool {
	return value != "" && value != AllValues
}

func matchesQuery(a asset.Asset, query string) bool {
	if strings.Contains(strings.ToLower(a.OriginalFilename), query) ||
		strings.Contains(strings.ToLower(a.Event), query) ||
		strings.Contains(strings.ToLower(a.Photographer), query) ||
		strings.Contains(strings.ToLower(a.Description), query) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func hasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		if slices.Contains(tags, w) {
			return true
		}
	}
	return false
}
