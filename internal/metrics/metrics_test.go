package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncrementSessionsStarted()
	m.IncrementLLMCall(false)
	assert.Zero(t, m.GetSnapshot().LLMCallsTotal)
}

func TestHandlerRendersCounters(t *testing.T) {
	m := NewMetrics()
	m.IncrementSessionsStarted()
	m.IncrementChatTurns(true)
	m.IncrementChatTurns(false)
	m.IncrementLLMCall(true)
	m.IncrementLLMCall(false)
	m.IncrementDroppedWrites()

	app := fiber.New()
	app.Get("/metrics", Handler(m))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, text, "interview_sessions_started_total 1\n")
	assert.Contains(t, text, "interview_chat_turns_total 2\n")
	assert.Contains(t, text, "interview_follow_ups_total 1\n")
	assert.Contains(t, text, "interview_llm_calls_total 2\n")
	assert.Contains(t, text, "interview_llm_failures_total 1\n")
	assert.Contains(t, text, "interview_dropped_writes_total 1\n")
	assert.Contains(t, text, "# TYPE interview_sessions_ended_total counter\n")
}
