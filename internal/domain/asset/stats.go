package asset

import (
	"sort"
	"strings"
)

const (
	topPhotographerLimit = 5
	recentUploadLimit    = 5
)

// ComputeStats summarises records given in scan order.
// Photographer ties keep the order in which names were first seen.
func ComputeStats(records []Asset) *Stats {
	stats := &Stats{
		TotalAssets:      len(records),
		TopPhotographers: []PhotographerCount{},
		RecentUploads:    []Asset{},
	}

	events := make(map[string]struct{})
	counts := make(map[string]int)
	var order []string
	for _, record := range records {
		events[record.Event] = struct{}{}

		name := strings.TrimSpace(record.Photographer)
		if name == "" {
			continue
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}
	stats.TotalEvents = len(events)

	ranking := make([]PhotographerCount, 0, len(order))
	for _, name := range order {
		ranking = append(ranking, PhotographerCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	if len(ranking) > topPhotographerLimit {
		ranking = ranking[:topPhotographerLimit]
	}
	stats.TopPhotographers = ranking

	recent := make([]Asset, len(records))
	copy(recent, records)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UploadedAt.After(recent[j].UploadedAt)
	})
	if len(recent) > recentUploadLimit {
		recent = recent[:recentUploadLimit]
	}
	stats.RecentUploads = recent

	return stats
}
