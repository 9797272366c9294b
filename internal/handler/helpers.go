package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/zukunftsstadt/contest-api/internal/middleware"
	"github.com/zukunftsstadt/contest-api/internal/models"
)

// sessionHeader carries the participant's session identifier. The contest has
// no accounts; the header is the only session handle.
const sessionHeader = "X-Session-ID"

func sessionIDFromRequest(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Get(sessionHeader))
}

func setSessionHeader(c *fiber.Ctx, sessionID string) {
	if sessionID != "" {
		c.Set(sessionHeader, sessionID)
	}
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid request"
	}

	field := validationErrors[0]
	switch {
	case field.Field() == "Name" && field.Tag() == "required":
		return "name is required"
	case field.Field() == "Name" && field.Tag() == "max":
		return fmt.Sprintf("name must be at most %d characters", models.MaxNameLength)
	default:
		return "invalid request"
	}
}
