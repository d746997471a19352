package suggestion

import (
	"errors"
)

var (
	ErrEmptyLine        = errors.New("empty line")
	ErrNoDelimiter      = errors.New("no title/artist delimiter")
	ErrUnclosedEmphasis = errors.New("emphasis marker has no closing pair")
	ErrEmptyField       = errors.New("title or artist is empty")
)

// Suggestion is a song suggestion after it has been split into title and artist.
// Both fields are non-empty and trimmed.
type Suggestion struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// String renders the suggestion in the canonical "Title by Artist" candidate form.
func (s Suggestion) String() string {
	return s.Title + " by " + s.Artist
}

// Mode selects which line shapes the parser accepts.
type Mode int

const (
	// ModeAuto accepts both markdown-bold and plain lines.
	ModeAuto Mode = iota
	// ModeMarkdown accepts only "**Title** - Artist".
	ModeMarkdown
	// ModePlain accepts only "Title - Artist" and "Title by Artist".
	ModePlain
)

// ParseMode maps a config value to a Mode. Unknown values fall back to ModeAuto.
func ParseMode(s string) Mode {
	switch s {
	case "markdown":
		return ModeMarkdown
	case "plain":
		return ModePlain
	default:
		return ModeAuto
	}
}
