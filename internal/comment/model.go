// Package comment provides the civic comment domain model and data access.
package comment

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Theme is one of the fixed categories a comment is classified into.
type Theme string

// The closed set of themes. ThemeOther doubles as the fallback when
// classification does not produce a recognizable label.
const (
	ThemeInfrastructure Theme = "Infrastructure"
	ThemeSafety         Theme = "Safety"
	ThemeTransportation Theme = "Transportation"
	ThemeEnvironment    Theme = "Environment"
	ThemeSanitation     Theme = "Sanitation"
	ThemeHousing        Theme = "Housing"
	ThemeNoise          Theme = "Noise"
	ThemeOther          Theme = "Other"
)

// Themes lists every valid theme in display order.
var Themes = []Theme{
	ThemeInfrastructure,
	ThemeSafety,
	ThemeTransportation,
	ThemeEnvironment,
	ThemeSanitation,
	ThemeHousing,
	ThemeNoise,
	ThemeOther,
}

// ParseTheme matches a string against the canonical labels,
// case-insensitively and ignoring surrounding whitespace. On no match it
// returns ThemeOther and false.
func ParseTheme(s string) (Theme, bool) {
	s = strings.TrimSpace(s)
	for _, t := range Themes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return ThemeOther, false
}

// MaxTextLen is the maximum comment length in characters after trimming.
const MaxTextLen = 2000

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// ValidZip reports whether s is a 5-digit ZIP code.
func ValidZip(s string) bool {
	return zipPattern.MatchString(s)
}

// Comment is a resident-submitted report pinned to a map location.
type Comment struct {
	ID          int64     `json:"id"`
	CommentText string    `json:"comment_text"`
	Theme       Theme     `json:"theme"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ZipCode     string    `json:"zip_code"`
	Upvotes     int64     `json:"upvotes"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewComment describes a comment to be inserted. The server assigns
// id and created_at; upvotes always start at zero.
type NewComment struct {
	CommentText string  `json:"comment_text"`
	Theme       Theme   `json:"theme"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ZipCode     string  `json:"zip_code"`
}

// Validate checks a new comment against the model invariants.
// The text is trimmed in place.
func (n *NewComment) Validate() error {
	n.CommentText = strings.TrimSpace(n.CommentText)
	if n.CommentText == "" {
		return fmt.Errorf("comment_text is required")
	}
	if utf8.RuneCountInString(n.CommentText) > MaxTextLen {
		return fmt.Errorf("comment_text must be %d characters or fewer", MaxTextLen)
	}
	theme, ok := ParseTheme(string(n.Theme))
	if !ok {
		return fmt.Errorf("theme %q is not a valid theme", n.Theme)
	}
	n.Theme = theme
	if !ValidZip(n.ZipCode) {
		return fmt.Errorf("zip_code must be exactly 5 digits")
	}
	if n.Latitude < -90 || n.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", n.Latitude)
	}
	if n.Longitude < -180 || n.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", n.Longitude)
	}
	return nil
}
