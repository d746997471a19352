package suggestion

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const emphasis = "**"

// enumerator matches list prefixes such as "1. ", "2) ", "- ", "* " and "• ".
var enumerator = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s+`)

var dashes = []string{" - ", " – ", " — "}

type Parser struct {
	log  *zap.Logger
	mode Mode
}

func NewParser(log *zap.Logger, mode Mode) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log, mode: mode}
}

// Parse splits raw model output on line boundaries and returns the lines that
// qualify as suggestions, in input order. Malformed lines are dropped and logged.
func (p *Parser) Parse(raw string) []Suggestion {
	return p.ParseLines(strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n"))
}

// ParseLines is Parse for input that has already been split into lines.
func (p *Parser) ParseLines(lines []string) []Suggestion {
	out := make([]Suggestion, 0, len(lines))
	for _, line := range lines {
		s, err := p.ParseLine(line)
		if err != nil {
			if !errors.Is(err, ErrEmptyLine) {
				p.log.Warn("dropping malformed suggestion", zap.String("line", line), zap.Error(err))
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// ParseLine extracts a single suggestion, honouring the parser's mode.
func (p *Parser) ParseLine(line string) (Suggestion, error) {
	line = clean(line)
	if line == "" {
		return Suggestion{}, ErrEmptyLine
	}
	hasEmphasis := strings.Contains(line, emphasis)
	switch {
	case p.mode == ModeMarkdown && !hasEmphasis:
		return Suggestion{}, ErrNoDelimiter
	case p.mode == ModePlain && hasEmphasis:
		line = strings.ReplaceAll(line, emphasis, "")
		hasEmphasis = false
	}
	if hasEmphasis {
		return parseEmphasis(line)
	}
	return parsePlain(line)
}

// ParseLine parses a line in ModeAuto without logging.
func ParseLine(line string) (Suggestion, error) {
	return (&Parser{mode: ModeAuto}).ParseLine(line)
}

func clean(line string) string {
	line = strings.TrimSpace(line)
	return strings.TrimSpace(enumerator.ReplaceAllString(line, ""))
}

func parseEmphasis(line string) (Suggestion, error) {
	start := strings.Index(line, emphasis) + len(emphasis)
	end := strings.Index(line[start:], emphasis)
	if end < 0 {
		return Suggestion{}, ErrUnclosedEmphasis
	}
	title := line[start : start+end]
	rest := strings.TrimSpace(line[start+end+len(emphasis):])

	var artist string
	if i := strings.IndexAny(rest, "-–—"); i >= 0 {
		_, size := utf8.DecodeRuneInString(rest[i:])
		artist = rest[i+size:]
	} else if after, ok := strings.CutPrefix(rest, "by "); ok {
		artist = after
	} else {
		return Suggestion{}, ErrNoDelimiter
	}
	return build(title, artist)
}

func parsePlain(line string) (Suggestion, error) {
	if strings.HasSuffix(line, ":") {
		return Suggestion{}, ErrNoDelimiter
	}
	best := -1
	var sep string
	for _, d := range dashes {
		if i := strings.Index(line, d); i >= 0 && (best < 0 || i < best) {
			best, sep = i, d
		}
	}
	if best >= 0 {
		return build(line[:best], line[best+len(sep):])
	}
	if i := strings.LastIndex(line, " by "); i >= 0 {
		return build(line[:i], line[i+len(" by "):])
	}
	if title, artist, ok := strings.Cut(line, "-"); ok {
		return build(title, artist)
	}
	return Suggestion{}, ErrNoDelimiter
}

func build(title, artist string) (Suggestion, error) {
	s := Suggestion{Title: trimField(title), Artist: trimField(artist)}
	if s.Title == "" || s.Artist == "" {
		return Suggestion{}, ErrEmptyField
	}
	return s, nil
}

func trimField(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `*"“”`))
}
