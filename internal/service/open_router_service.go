package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fadilmartias/interview-engine/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const interviewerSystemPrompt = "You are a professional interviewer running a spoken mock interview. Follow the task in the user message exactly."

type OpenRouterServiceInterface interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type OpenRouterService struct {
	APIKey      string
	Model       string
	Temperature float32
	client      *resty.Client
}

func NewOpenRouterService(cfg *config.InterviewConfig) *OpenRouterService {
	orConfig := config.LoadOpenRouterConfig()
	return &OpenRouterService{
		APIKey:      orConfig.APIKey,
		Model:       orConfig.Model,
		Temperature: cfg.Temperature,
		client: resty.New().
			SetBaseURL(strings.TrimRight(orConfig.BaseURL, "/")).
			SetTimeout(60 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
			}),
	}
}

// Generate sends the prompt as a single chat completion.
func (s *OpenRouterService) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model":       s.Model,
			"temperature": s.Temperature,
			"messages": []map[string]string{
				{"role": "system", "content": interviewerSystemPrompt},
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	if resp.IsError() {
		msg := gjson.Get(resp.String(), "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		slog.Error("openrouter error", "status", resp.StatusCode(), "message", msg)
		return "", fmt.Errorf("openrouter returned %d: %s", resp.StatusCode(), msg)
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	return text, nil
}
