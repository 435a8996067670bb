package gallery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/domain/gallery"
	"github.com/framevault/framevault-server/pkg/testhelpers"
)

func fixtures() []asset.Asset {
	return []asset.Asset{
		testhelpers.NewAsset("ast_1", testhelpers.WithEvent("TechConf"), testhelpers.WithDate("2024-05-01"),
			testhelpers.WithPhotographer("Alice"), testhelpers.WithTags("Keynote", "Stage"), testhelpers.WithOriginalFilename("opening.jpg")),
		testhelpers.NewAsset("ast_2", testhelpers.WithEvent("TechConf"), testhelpers.WithDate("2024-05-02"),
			testhelpers.WithPhotographer("Bob"), testhelpers.WithTags("keynote"), testhelpers.WithVideo()),
		testhelpers.NewAsset("ast_3", testhelpers.WithEvent("Gala"), testhelpers.WithDate("2024-04-20"),
			testhelpers.WithPhotographer("Alice"), testhelpers.WithDescription("Award ceremony on the rooftop")),
		testhelpers.NewAsset("ast_4", testhelpers.WithEvent("Gala"), testhelpers.WithDate("2024-05-01"),
			testhelpers.WithPhotographer("Carol"), testhelpers.WithTags("Portrait")),
	}
}

func ids(assets []asset.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func TestApplyNoFiltersSortsByDateDesc(t *testing.T) {
	all := fixtures()
	got := gallery.Apply(all, gallery.FilterState{})
	assert.Equal(t, []string{"ast_2", "ast_1", "ast_4", "ast_3"}, ids(got))
	assert.Equal(t, []string{"ast_1", "ast_2", "ast_3", "ast_4"}, ids(all), "input must not be reordered")
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter gallery.FilterState
		want   []string
	}{
		{name: "query matches filename case-insensitively", filter: gallery.FilterState{Query: "OPENING"}, want: []string{"ast_1"}},
		{name: "query matches tags", filter: gallery.FilterState{Query: "keynote"}, want: []string{"ast_2", "ast_1"}},
		{name: "query matches description", filter: gallery.FilterState{Query: "rooftop"}, want: []string{"ast_3"}},
		{name: "event equality", filter: gallery.FilterState{Event: "Gala"}, want: []string{"ast_4", "ast_3"}},
		{name: "all sentinel", filter: gallery.FilterState{Event: gallery.AllValues, Photographer: gallery.AllValues}, want: []string{"ast_2", "ast_1", "ast_4", "ast_3"}},
		{name: "photographer", filter: gallery.FilterState{Photographer: "Alice"}, want: []string{"ast_1", "ast_3"}},
		{name: "file type", filter: gallery.FilterState{FileType: asset.FileTypeVideo}, want: []string{"ast_2"}},
		{name: "tags are case-sensitive", filter: gallery.FilterState{Tags: []string{"Keynote"}}, want: []string{"ast_1"}},
		{name: "any tag", filter: gallery.FilterState{Tags: []string{"Keynote", "Portrait"}}, want: []string{"ast_1", "ast_4"}},
		{name: "date from inclusive", filter: gallery.FilterState{DateFrom: "2024-05-01"}, want: []string{"ast_2", "ast_1", "ast_4"}},
		{name: "date to inclusive", filter: gallery.FilterState{DateTo: "2024-05-01"}, want: []string{"ast_1", "ast_4", "ast_3"}},
		{name: "combined", filter: gallery.FilterState{Event: "TechConf", DateTo: "2024-05-01"}, want: []string{"ast_1"}},
		{name: "no match", filter: gallery.FilterState{Query: "nothing"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(gallery.Apply(fixtures(), tt.filter)))
		})
	}
}

func TestApplyProperties(t *testing.T) {
	all := testhelpers.Collection(30, "TechConf", "Gala", "Expo")
	for i := range all {
		if i%3 == 0 {
			all[i].Tags = []string{"Keynote"}
		}
	}
	states := []gallery.FilterState{
		{},
		{Event: "Gala"},
		{Tags: []string{"Keynote"}},
		{Query: "fixture", DateFrom: "2024-05-01"},
	}

	byID := map[string]asset.Asset{}
	for _, a := range all {
		byID[a.ID] = a
	}

	for _, state := range states {
		once := gallery.Apply(all, state)
		twice := gallery.Apply(once, state)
		assert.Equal(t, ids(once), ids(twice), "idempotent")

		for _, a := range once {
			_, ok := byID[a.ID]
			require.True(t, ok, "result must be a subset")
		}
		for i := 1; i < len(once); i++ {
			assert.GreaterOrEqual(t, once[i-1].Date, once[i].Date)
		}
	}

	tagged := gallery.Apply(all, gallery.FilterState{Tags: []string{"Keynote"}})
	expected := 0
	for _, a := range all {
		if len(a.Tags) > 0 && a.Tags[0] == "Keynote" {
			expected++
		}
	}
	assert.Len(t, tagged, expected)
	for _, a := range tagged {
		assert.Contains(t, a.Tags, "Keynote")
	}
}

func TestApplyNewUploadFirst(t *testing.T) {
	all := fixtures()
	uploaded := testhelpers.NewAsset("ast_new", testhelpers.WithEvent("TechConf"), testhelpers.WithDate("2024-06-01"))
	got := gallery.Apply(append(all, uploaded), gallery.FilterState{})
	require.NotEmpty(t, got)
	assert.Equal(t, "ast_new", got[0].ID)
	assert.Equal(t, asset.FileTypeImage, got[0].FileType)
}

func TestFilterStateIsEmpty(t *testing.T) {
	assert.True(t, gallery.FilterState{}.IsEmpty())
	assert.True(t, gallery.FilterState{Event: gallery.AllValues}.IsEmpty())
	assert.False(t, gallery.FilterState{DateFrom: "2024-01-01"}.IsEmpty())
}

func TestBuildFacets(t *testing.T) {
	f := gallery.BuildFacets(fixtures())
	assert.Equal(t, []string{"Gala", "TechConf"}, f.Events)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, f.Photographers)
	assert.Equal(t, []string{"Keynote", "Portrait", "Stage", "keynote"}, f.Tags)
}
