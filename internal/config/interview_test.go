package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadInterviewConfigFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadInterviewConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultInterviewConfig(), cfg)
}

func TestLoadInterviewConfigFileOverrides(t *testing.T) {
	path := writeConfig(t, `
max_follow_ups: 3
session_ttl: 45m
interviewer_name: Priya
temperature: 0.4
`)
	cfg, err := LoadInterviewConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxFollowUps)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "Priya", cfg.InterviewerName)
	assert.InDelta(t, 0.4, cfg.Temperature, 0.0001)
	// untouched keys keep their defaults
	assert.Equal(t, "gemini-2.5-flash", cfg.GenerationModel)
	assert.Equal(t, 5, cfg.DefaultQuestionCount)
}

func TestLoadInterviewConfigFileRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"negative follow-ups": "max_follow_ups: -1\n",
		"zero ttl":            "session_ttl: 0s\n",
		"hot temperature":     "temperature: 3\n",
		"max below default":   "default_question_count: 8\nmax_question_count: 4\n",
		"broken yaml":         "max_follow_ups: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadInterviewConfigFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
