package interview

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const historyWindow = 8

// Persona is how the interviewer introduces itself.
type Persona struct {
	InterviewerName string
	CompanyName     string
}

func writeCandidate(b *strings.Builder, c CandidateInfo) {
	b.WriteString("CANDIDATE:\n")
	fmt.Fprintf(b, "- Name: %s\n", fallback(c.Name, "the candidate"))
	fmt.Fprintf(b, "- Target role: %s\n", fallback(c.Role, "not specified"))
	fmt.Fprintf(b, "- Experience: %s\n", fallback(c.Experience, "not specified"))
	if len(c.InterviewTypes) > 0 {
		fmt.Fprintf(b, "- Interview types: %s\n", strings.Join(c.InterviewTypes, ", "))
	}
	if len(c.Skills) > 0 {
		fmt.Fprintf(b, "- Skills: %s\n", strings.Join(c.Skills, ", "))
	}
	b.WriteString("\n")
}

func writeHistory(b *strings.Builder, s *Session) {
	history := s.ConversationHistory
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) == 0 {
		return
	}
	b.WriteString("RECENT CONVERSATION:\n")
	for _, turn := range history {
		fmt.Fprintf(b, "%s: %s\n", turn.Speaker, turn.Message)
	}
	b.WriteString("\n")
}

func writeRole(b *strings.Builder, p Persona) {
	fmt.Fprintf(b, "You are %s, a friendly and professional interviewer at %s running a spoken mock interview.\n",
		fallback(p.InterviewerName, "the interviewer"), fallback(p.CompanyName, "the company"))
	b.WriteString("Keep every reply short and conversational (at most 3 sentences). Never use markdown or lists.\n\n")
}

func greetingPrompt(p Persona, s *Session) string {
	var b strings.Builder
	writeRole(&b, p)
	writeCandidate(&b, s.CandidateInfo)
	fmt.Fprintf(&b, "The interview has %d questions.\n", s.TotalQuestions())
	b.WriteString("TASK: Greet the candidate by name, introduce yourself, briefly explain the format, and ask whether they are ready to begin. Do not ask any interview question yet.")
	return b.String()
}

func questionPrompt(p Persona, s *Session, q Question) string {
	var b strings.Builder
	writeRole(&b, p)
	writeCandidate(&b, s.CandidateInfo)
	writeHistory(&b, s)
	fmt.Fprintf(&b, "NEXT SCRIPTED QUESTION (%d of %d", s.CurrentQuestionIndex+1, s.TotalQuestions())
	if q.Type != "" {
		fmt.Fprintf(&b, ", %s", q.Type)
	}
	fmt.Fprintf(&b, "): %s\n\n", q.Question)
	if s.CurrentQuestionIndex == 0 {
		b.WriteString("TASK: Acknowledge that the candidate is ready and ask the scripted question in your own words, keeping its meaning.")
	} else {
		b.WriteString("TASK: Briefly acknowledge the previous answer without evaluating it, then ask the scripted question in your own words, keeping its meaning.")
	}
	return b.String()
}

const decisionInstructions = `Decide whether the candidate's last answer needs a follow-up question.
Choose "follow_up" when the answer is vague, incomplete, or mentions something worth probing.
Choose "next" when the answer is complete enough to move on.
Respond ONLY with JSON: {"decision": "follow_up" | "next", "reason": "<one sentence>"}`

func decisionPrompt(s *Session) string {
	var b strings.Builder
	b.WriteString("You are assisting an interviewer during a mock interview.\n\n")
	if q := s.CurrentQuestion(); q != nil {
		fmt.Fprintf(&b, "QUESTION: %s\n", q.Question)
	}
	fmt.Fprintf(&b, "CANDIDATE ANSWER: %s\n", s.LastCandidateAnswer())
	fmt.Fprintf(&b, "FOLLOW-UPS ALREADY ASKED FOR THIS QUESTION: %d of %d\n\n", s.AskedFollowUps, s.MaxFollowUps)
	b.WriteString(decisionInstructions)
	return b.String()
}

func followUpPrompt(p Persona, s *Session) string {
	var b strings.Builder
	writeRole(&b, p)
	writeCandidate(&b, s.CandidateInfo)
	writeHistory(&b, s)
	if q := s.CurrentQuestion(); q != nil {
		fmt.Fprintf(&b, "CURRENT QUESTION: %s\n\n", q.Question)
	}
	b.WriteString("TASK: Ask exactly one follow-up question that digs deeper into the candidate's last answer (ask for specifics, trade-offs, or outcomes). Do not move to a new topic.")
	return b.String()
}

func closingPrompt(p Persona, s *Session) string {
	var b strings.Builder
	writeRole(&b, p)
	writeCandidate(&b, s.CandidateInfo)
	writeHistory(&b, s)
	b.WriteString("TASK: All questions have been covered. Thank the candidate by name, tell them the interview is complete and that they can end the session to see their summary. Do not ask further questions.")
	return b.String()
}

// QuestionGenerationPrompt asks for a fresh interview script for the candidate.
func QuestionGenerationPrompt(c CandidateInfo, count int) string {
	var b strings.Builder
	b.WriteString("You are an experienced technical recruiter preparing a mock interview script.\n\n")
	writeCandidate(&b, c)
	fmt.Fprintf(&b, "Write exactly %d interview questions tailored to this candidate, ordered from warm-up to hardest.\n", count)
	if len(c.InterviewTypes) > 0 {
		fmt.Fprintf(&b, "Cover these interview types: %s.\n", strings.Join(c.InterviewTypes, ", "))
	}
	b.WriteString(`
Return your answer STRICTLY in JSON format with this schema:
{
  "questions": [
    {"question": "<the question>", "type": "<behavioral|technical|situational|hr>"}
  ]
}`)
	return b.String()
}

// ParseGeneratedQuestions reads the output of a QuestionGenerationPrompt call.
func ParseGeneratedQuestions(raw string) ([]Question, error) {
	text := CleanJSON(raw)
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("question generation returned invalid JSON")
	}
	var questions []Question
	gjson.Get(text, "questions").ForEach(func(_, item gjson.Result) bool {
		q := strings.TrimSpace(item.Get("question").String())
		if q != "" {
			questions = append(questions, Question{
				Question: q,
				Type:     strings.TrimSpace(item.Get("type").String()),
			})
		}
		return true
	})
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// parseDecision reports whether the model asked for a follow-up. Output that is
// not JSON falls back to keyword matching.
func parseDecision(raw string) bool {
	text := CleanJSON(raw)
	if gjson.Valid(text) {
		decision := strings.ToLower(strings.TrimSpace(gjson.Get(text, "decision").String()))
		return decision == "follow_up" || decision == "follow-up" || decision == "followup"
	}
	upper := strings.ToUpper(text)
	return strings.Contains(upper, "FOLLOW_UP") || strings.Contains(upper, "FOLLOW-UP")
}

// CleanJSON strips the markdown fences models like to wrap JSON in.
func CleanJSON(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
