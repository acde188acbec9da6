package handler

import (
	"context"
	"strings"
	"time"

	"github.com/fadilmartias/interview-engine/internal/dto"
	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/fadilmartias/interview-engine/internal/middleware"
	"github.com/fadilmartias/interview-engine/internal/model"
	"github.com/fadilmartias/interview-engine/internal/response"
	"github.com/fadilmartias/interview-engine/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ScriptService interface {
	Create(ctx context.Context, candidate interview.CandidateInfo, questions []interview.Question, count int) (*model.InterviewScript, error)
	Get(ctx context.Context, id string) (*model.InterviewScript, error)
	List(ctx context.Context, page, pageSize int) ([]model.InterviewScript, *response.Pagination, error)
	Recommend(ctx context.Context, query string, limit int) ([]model.InterviewScript, error)
}

type ScriptHandler struct {
	uc ScriptService
}

func NewScriptHandler(uc ScriptService) *ScriptHandler {
	return &ScriptHandler{uc: uc}
}

func (h *ScriptHandler) RegisterRoutes(router fiber.Router) {
	scripts := router.Group("/interview-scripts")
	scripts.Post("/", middleware.RateLimiter(10, time.Minute), h.Create)
	scripts.Get("/", h.List)
	scripts.Get("/recommend", h.Recommend)
	scripts.Get("/:id", h.Get)
}

func (h *ScriptHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateScriptRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request body",
		}, err)
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.CandidateInfo.Name) == "" {
		fields["candidateInfo.name"] = "required"
	}
	if strings.TrimSpace(req.CandidateInfo.Role) == "" {
		fields["candidateInfo.role"] = "required"
	}
	if req.QuestionCount < 0 {
		fields["questionCount"] = "must not be negative"
	}
	if len(fields) > 0 {
		formErr := util.NewFormError("validation failed", fields)
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: formErr.Message,
			Details: formErr.Errors,
		})
	}

	script, err := h.uc.Create(c.UserContext(), req.CandidateInfo, req.Questions, req.QuestionCount)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "Failed to create interview script",
		}, err)
	}
	data, err := dto.NewScriptDTO(script)
	if err != nil {
		return err
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create interview script",
		Data:    data,
	})
}

func (h *ScriptHandler) Get(c *fiber.Ctx) error {
	script, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	data, err := dto.NewScriptDTO(script)
	if err != nil {
		return err
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get interview script",
		Data:    data,
	})
}

func (h *ScriptHandler) List(c *fiber.Ctx) error {
	scripts, page, err := h.uc.List(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("page_size", 10))
	if err != nil {
		return err
	}
	data, err := scriptDTOs(scripts)
	if err != nil {
		return err
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get interview scripts",
		Data:       data,
		Pagination: page,
	})
}

func (h *ScriptHandler) Recommend(c *fiber.Ctx) error {
	scripts, err := h.uc.Recommend(c.UserContext(), c.Query("q"), c.QueryInt("limit", 5))
	if err != nil {
		return httpError(err)
	}
	data, err := scriptDTOs(scripts)
	if err != nil {
		return err
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success recommend interview scripts",
		Data:    data,
	})
}

func scriptDTOs(scripts []model.InterviewScript) ([]dto.ScriptDTO, error) {
	out := make([]dto.ScriptDTO, 0, len(scripts))
	for i := range scripts {
		d, err := dto.NewScriptDTO(&scripts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
