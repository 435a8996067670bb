package gallery

import (
	"slices"

	"github.com/framevault/framevault-server/internal/domain/asset"
)

// Facets lists the distinct values available to the gallery selectors.
type Facets struct {
	Events        []string `json:"events"`
	Photographers []string `json:"photographers"`
	Tags          []string `json:"tags"`
}

// BuildFacets collects sorted distinct events, photographers and tags.
func BuildFacets(assets []asset.Asset) Facets {
	events := map[string]struct{}{}
	photographers := map[string]struct{}{}
	tags := map[string]struct{}{}
	for _, a := range assets {
		add(events, a.Event)
		add(photographers, a.Photographer)
		for _, t := range a.Tags {
			add(tags, t)
		}
	}
	return Facets{
		Events:        sortedKeys(events),
		Photographers: sortedKeys(photographers),
		Tags:          sortedKeys(tags),
	}
}

func add(set map[string]struct{}, value string) {
	if value != "" {
		set[value] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
