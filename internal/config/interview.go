package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultInterviewConfigPath = "config/interview.yaml"

type InterviewConfig struct {
	MaxFollowUps         int           `yaml:"max_follow_ups"`
	SessionTTL           time.Duration `yaml:"session_ttl"`
	InterviewerName      string        `yaml:"interviewer_name"`
	CompanyName          string        `yaml:"company_name"`
	GenerationModel      string        `yaml:"generation_model"`
	EmbeddingModel       string        `yaml:"embedding_model"`
	Temperature          float32       `yaml:"temperature"`
	DefaultQuestionCount int           `yaml:"default_question_count"`
	MaxQuestionCount     int           `yaml:"max_question_count"`
}

var (
	interviewConfig    *InterviewConfig
	interviewConfigErr error
	interviewOnce      sync.Once
)

func DefaultInterviewConfig() *InterviewConfig {
	return &InterviewConfig{
		MaxFollowUps:         2,
		SessionTTL:           2 * time.Hour,
		InterviewerName:      "Alex",
		CompanyName:          "Koluvu",
		GenerationModel:      "gemini-2.5-flash",
		EmbeddingModel:       "gemini-embedding-001",
		Temperature:          0.7,
		DefaultQuestionCount: 5,
		MaxQuestionCount:     15,
	}
}

// LoadInterviewConfig reads the YAML file named by INTERVIEW_CONFIG.
// A missing file is not an error: the defaults are used.
func LoadInterviewConfig() (*InterviewConfig, error) {
	interviewOnce.Do(func() {
		path := getEnv("INTERVIEW_CONFIG", defaultInterviewConfigPath)
		interviewConfig, interviewConfigErr = LoadInterviewConfigFile(path)
	})
	return interviewConfig, interviewConfigErr
}

func LoadInterviewConfigFile(path string) (*InterviewConfig, error) {
	cfg := DefaultInterviewConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: interview config %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read interview config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse interview config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid interview config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *InterviewConfig) Validate() error {
	if c.MaxFollowUps < 0 {
		return fmt.Errorf("max_follow_ups cannot be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.GenerationModel == "" {
		return fmt.Errorf("generation_model is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.DefaultQuestionCount <= 0 {
		return fmt.Errorf("default_question_count must be positive")
	}
	if c.MaxQuestionCount < c.DefaultQuestionCount {
		return fmt.Errorf("max_question_count (%d) is lower than default_question_count (%d)",
			c.MaxQuestionCount, c.DefaultQuestionCount)
	}
	return nil
}
