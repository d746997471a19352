package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultGeminiModel   = "gemini-1.5-pro"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
)

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	http  *resty.Client
	model string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Gemini{http: rc, model: cfg.Model}
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	var out geminiResponse
	var apiErr geminiError
	resp, err := g.http.R().
		SetContext(ctx).
		SetPathParam("model", g.model).
		SetBody(geminiRequest{Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}}}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("gemini generate content: status %d %s: %s",
			resp.StatusCode(), apiErr.Error.Status, apiErr.Error.Message)
	}

	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
