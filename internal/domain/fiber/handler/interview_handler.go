package handler

import (
	"context"
	"strings"
	"time"

	"github.com/fadilmartias/interview-engine/internal/dto"
	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/fadilmartias/interview-engine/internal/middleware"
	"github.com/fadilmartias/interview-engine/internal/model"
	"github.com/fadilmartias/interview-engine/internal/util"
	"github.com/gofiber/fiber/v2"
)

type InterviewService interface {
	Start(ctx context.Context, scriptID, sessionID string) (*interview.Session, interview.Reply, error)
	Chat(ctx context.Context, sessionID, userMessage string) (*interview.Session, interview.Reply, error)
	End(ctx context.Context, sessionID string) (*model.InterviewSessionRecord, error)
	GetSession(ctx context.Context, sessionID string) (*interview.Session, error)
	GetSessionRecord(ctx context.Context, sessionID string) (*model.InterviewSessionRecord, error)
	GetTurns(ctx context.Context, sessionID string) ([]model.ConversationTurn, error)
}

type InterviewHandler struct {
	uc InterviewService
}

func NewInterviewHandler(uc InterviewService) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/conversational-interview", middleware.RateLimiter(30, time.Minute), h.Converse)
	router.Get("/conversational-interview/:sessionId", h.State)
	router.Get("/interview-sessions/:sessionId", h.Record)
	router.Get("/interview-sessions/:sessionId/turns", h.Turns)
}

// Converse dispatches on the action field: start, chat or end.
func (h *InterviewHandler) Converse(c *fiber.Ctx) error {
	var req dto.InterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.ScriptID = strings.TrimSpace(req.ScriptID)
	req.SessionID = strings.TrimSpace(req.SessionID)

	switch req.Action {
	case dto.ActionStart:
		return h.start(c, req)
	case dto.ActionChat:
		return h.chat(c, req)
	case dto.ActionEnd:
		return h.end(c, req)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Invalid action")
	}
}

func (h *InterviewHandler) start(c *fiber.Ctx, req dto.InterviewRequest) error {
	if req.ScriptID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "scriptId is required")
	}
	s, reply, err := h.uc.Start(c.UserContext(), req.ScriptID, req.SessionID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(dto.NewInterviewResponse(s, reply))
}

func (h *InterviewHandler) chat(c *fiber.Ctx, req dto.InterviewRequest) error {
	if req.SessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "sessionId is required")
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "userMessage is required")
	}
	s, reply, err := h.uc.Chat(c.UserContext(), req.SessionID, req.UserMessage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(dto.NewInterviewResponse(s, reply))
}

func (h *InterviewHandler) end(c *fiber.Ctx, req dto.InterviewRequest) error {
	if req.SessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "sessionId is required")
	}
	rec, err := h.uc.End(c.UserContext(), req.SessionID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(dto.EndResponse{
		Success:   true,
		SessionID: rec.SessionID,
		Message:   "Interview session ended",
		Summary: dto.EndSummary{
			DurationSeconds:   rec.DurationSeconds,
			TotalExchanges:    rec.TotalExchanges,
			QuestionsAnswered: rec.QuestionsAnswered,
			TotalQuestions:    rec.TotalQuestions,
			FollowUpsAsked:    rec.FollowUpsAsked,
			Phase:             interview.Phase(rec.Phase),
		},
	})
}

func (h *InterviewHandler) State(c *fiber.Ctx) error {
	s, err := h.uc.GetSession(c.UserContext(), c.Params("sessionId"))
	if err != nil {
		return httpError(err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get interview session",
		Data:    dto.NewSessionStateDTO(s),
	})
}

func (h *InterviewHandler) Record(c *fiber.Ctx) error {
	rec, err := h.uc.GetSessionRecord(c.UserContext(), c.Params("sessionId"))
	if err != nil {
		return httpError(err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get interview record",
		Data:    dto.NewSessionRecordDTO(rec),
	})
}

func (h *InterviewHandler) Turns(c *fiber.Ctx) error {
	turns, err := h.uc.GetTurns(c.UserContext(), c.Params("sessionId"))
	if err != nil {
		return httpError(err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get conversation turns",
		Data:    dto.NewTurnDTOs(turns),
	})
}
