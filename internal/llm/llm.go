// Package llm asks a generative language model for song suggestions and
// playlist descriptions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultMaxSongs    = 5
	noDescriptionText  = "No description generated."
	suggestionTemplate = "Suggest %d songs that match the mood or keyword %q. " +
		"Reply with one song per line in the format **Title** - Artist and nothing else."
	descriptionTemplate = "Generate a playlist description for the vibe: %s"
)

var ErrEmptyResponse = errors.New("llm: empty response")

// Completer sends a single-turn prompt and returns the model's text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

type Service struct {
	completer Completer
	log       *zap.Logger
}

func NewService(completer Completer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		completer: completer,
		log:       log.With(zap.String("provider", completer.Name())),
	}
}

// GetSuggestions returns the non-blank lines of the model's answer in order.
// The lines are raw candidates; callers decide which of them qualify.
func (s *Service) GetSuggestions(ctx context.Context, keyword string, maxSongs int) ([]string, error) {
	if maxSongs <= 0 {
		maxSongs = DefaultMaxSongs
	}
	text, err := s.completer.Complete(ctx, fmt.Sprintf(suggestionTemplate, maxSongs, keyword))
	if err != nil {
		return nil, fmt.Errorf("get suggestions: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	s.log.Debug("model suggestions", zap.String("keyword", keyword), zap.Int("lines", len(lines)))
	return lines, nil
}

func (s *Service) Describe(ctx context.Context, vibe string) (string, error) {
	text, err := s.completer.Complete(ctx, fmt.Sprintf(descriptionTemplate, vibe))
	if errors.Is(err, ErrEmptyResponse) {
		return noDescriptionText, nil
	}
	if err != nil {
		return "", fmt.Errorf("describe playlist: %w", err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return noDescriptionText, nil
	}
	return text, nil
}
