package asset

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000

	dateLayout = "2006-01-02"
)

// SearchCriteria is a conjunctive backend filter. Event and Photographer match by
// case-sensitive substring, Tags match when any stored tag contains any given
// value, and the date bounds are inclusive.
type SearchCriteria struct {
	Event        string
	Photographer string
	Tags         []string
	DateFrom     string
	DateTo       string
}

// IsEmpty reports whether no criterion is set.
func (c SearchCriteria) IsEmpty() bool {
	return c.Event == "" && c.Photographer == "" && len(c.Tags) == 0 && c.DateFrom == "" && c.DateTo == ""
}

// Normalize drops blank tags and trims the date bounds.
func (c SearchCriteria) Normalize() SearchCriteria {
	out := SearchCriteria{
		Event:        c.Event,
		Photographer: c.Photographer,
		DateFrom:     strings.TrimSpace(c.DateFrom),
		DateTo:       strings.TrimSpace(c.DateTo),
	}
	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}

// ValidDate reports whether value is a YYYY-MM-DD calendar date.
func ValidDate(value string) bool {
	if len(value) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, value)
	return err == nil
}

// Cursor is the keyset position of the last record of a page.
type Cursor struct {
	UploadedAt time.Time
	ID         string
}

var errInvalidCursor = errors.New("invalid cursor")

// Encode renders the cursor as an opaque token.
func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.UploadedAt.UTC().UnixNano(), 10) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Cursor.Encode.
func DecodeCursor(token string) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, errInvalidCursor
	}
	nanos, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return nil, errInvalidCursor
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, errInvalidCursor
	}
	return &Cursor{UploadedAt: time.Unix(0, n).UTC(), ID: id}, nil
}

// NormalizePageSize clamps a requested page size to [1, MaxPageSize].
func NormalizePageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}
