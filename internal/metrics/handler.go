package metrics

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler renders the counters in the Prometheus text exposition format.
func Handler(m *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := m.GetSnapshot()
		var b strings.Builder
		counter(&b, "interview_sessions_started_total", "Interview sessions started.", s.SessionsStarted)
		counter(&b, "interview_sessions_ended_total", "Interview sessions ended and persisted.", s.SessionsEnded)
		counter(&b, "interview_chat_turns_total", "Candidate messages answered.", s.ChatTurns)
		counter(&b, "interview_follow_ups_total", "Follow-up questions asked.", s.FollowUpsAsked)
		counter(&b, "interview_llm_calls_total", "Calls made to the language model.", s.LLMCallsTotal)
		counter(&b, "interview_llm_failures_total", "Language model calls that failed.", s.LLMCallsFailed)
		counter(&b, "interview_dropped_writes_total", "Best-effort turn log writes that failed.", s.DroppedWrites)
		c.Set(fiber.HeaderContentType, "text/plain; version=0.0.4")
		return c.SendString(b.String())
	}
}

func counter(b *strings.Builder, name, help string, value int64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s counter\n", name)
	fmt.Fprintf(b, "%s %d\n", name, value)
}
