package comment

import (
	"strings"
	"testing"
)

func TestParseTheme(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Theme
		wantOK bool
	}{
		{"exact match", "Infrastructure", ThemeInfrastructure, true},
		{"lowercase", "safety", ThemeSafety, true},
		{"uppercase", "NOISE", ThemeNoise, true},
		{"surrounding whitespace", "  Housing  ", ThemeHousing, true},
		{"other", "Other", ThemeOther, true},
		{"unknown label", "Potholes", ThemeOther, false},
		{"empty", "", ThemeOther, false},
		{"partial", "Infra", ThemeOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTheme(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseTheme(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestThemesCount(t *testing.T) {
	if len(Themes) != 8 {
		t.Errorf("got %d themes, want 8", len(Themes))
	}
}

func TestValidZip(t *testing.T) {
	tests := []struct {
		zip  string
		want bool
	}{
		{"94110", true},
		{"00000", true},
		{"abcde", false},
		{"9411", false},
		{"941100", false},
		{"94 10", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidZip(tt.zip); got != tt.want {
			t.Errorf("ValidZip(%q) = %v, want %v", tt.zip, got, tt.want)
		}
	}
}

func TestNewCommentValidate(t *testing.T) {
	valid := NewComment{
		CommentText: "Pothole on Elm St",
		Theme:       ThemeInfrastructure,
		Latitude:    37.75,
		Longitude:   -122.41,
		ZipCode:     "94110",
	}

	tests := []struct {
		name    string
		mutate  func(*NewComment)
		wantErr bool
	}{
		{"valid", func(n *NewComment) {}, false},
		{"empty text", func(n *NewComment) { n.CommentText = "" }, true},
		{"whitespace only text", func(n *NewComment) { n.CommentText = "   " }, true},
		{"too long text", func(n *NewComment) { n.CommentText = strings.Repeat("x", MaxTextLen+1) }, true},
		{"max length text", func(n *NewComment) { n.CommentText = strings.Repeat("x", MaxTextLen) }, false},
		{"max length multibyte text", func(n *NewComment) { n.CommentText = strings.Repeat("道", MaxTextLen) }, false},
		{"too long multibyte text", func(n *NewComment) { n.CommentText = strings.Repeat("道", MaxTextLen+1) }, true},
		{"bad theme", func(n *NewComment) { n.Theme = "Potholes" }, true},
		{"bad zip", func(n *NewComment) { n.ZipCode = "abcde" }, true},
		{"latitude out of range", func(n *NewComment) { n.Latitude = 91 }, true},
		{"longitude out of range", func(n *NewComment) { n.Longitude = -181 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			tt.mutate(&n)
			err := n.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateTrimsText(t *testing.T) {
	n := NewComment{
		CommentText: "  Pothole on Elm St  ",
		Theme:       ThemeInfrastructure,
		Latitude:    37.75,
		Longitude:   -122.41,
		ZipCode:     "94110",
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if n.CommentText != "Pothole on Elm St" {
		t.Errorf("text = %q, want trimmed", n.CommentText)
	}
}

func TestValidateNormalizesTheme(t *testing.T) {
	n := NewComment{
		CommentText: "Loud construction at night",
		Theme:       "noise",
		Latitude:    37.75,
		Longitude:   -122.41,
		ZipCode:     "94110",
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if n.Theme != ThemeNoise {
		t.Errorf("theme = %q, want %q", n.Theme, ThemeNoise)
	}
}
