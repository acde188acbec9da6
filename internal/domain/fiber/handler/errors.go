package handler

import (
	"errors"
	"log/slog"

	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/fadilmartias/interview-engine/internal/usecase"
	"github.com/gofiber/fiber/v2"
)

// httpError maps domain errors to status codes. Anything unknown is returned
// as is and rendered as a 500 by the app's error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, interview.ErrScriptNotFound),
		errors.Is(err, interview.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, interview.ErrSessionExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, interview.ErrNoQuestions),
		errors.Is(err, interview.ErrEmptyMessage),
		errors.Is(err, usecase.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if message == "" {
		message = "Internal Server Error"
	}
	if code >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request error", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
