package asset_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framevault/framevault-server/internal/domain/asset"
)

func TestCursorEncodeDecode(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 15, 123456789, time.UTC)
	token := asset.Cursor{UploadedAt: at, ID: "ast_01hx"}.Encode()

	decoded, err := asset.DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, at.Equal(decoded.UploadedAt))
	assert.Equal(t, "ast_01hx", decoded.ID)
}

func TestDecodeCursorRejects(t *testing.T) {
	for _, token := range []string{"", "!!", "bm9waXBl", "MTIzfA"} {
		_, err := asset.DecodeCursor(token)
		assert.Error(t, err, token)
	}
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, asset.DefaultPageSize, asset.NormalizePageSize(0))
	assert.Equal(t, asset.DefaultPageSize, asset.NormalizePageSize(-4))
	assert.Equal(t, 25, asset.NormalizePageSize(25))
	assert.Equal(t, asset.MaxPageSize, asset.NormalizePageSize(5000))
}

func TestSearchCriteriaNormalize(t *testing.T) {
	c := asset.SearchCriteria{Tags: []string{"Keynote", " ", ""}, DateFrom: " 2024-05-01 "}.Normalize()
	assert.Equal(t, []string{"Keynote"}, c.Tags)
	assert.Equal(t, "2024-05-01", c.DateFrom)
	assert.False(t, c.IsEmpty())
	assert.True(t, asset.SearchCriteria{}.IsEmpty())
}

func TestValidDate(t *testing.T) {
	assert.True(t, asset.ValidDate("2024-02-29"))
	assert.False(t, asset.ValidDate("2023-02-29"))
	assert.False(t, asset.ValidDate("2024-5-1"))
	assert.False(t, asset.ValidDate(""))
}
