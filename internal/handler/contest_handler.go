package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/zukunftsstadt/contest-api/internal/dto"
	"github.com/zukunftsstadt/contest-api/internal/fetcher"
	"github.com/zukunftsstadt/contest-api/internal/repository"
	"github.com/zukunftsstadt/contest-api/internal/service"
	"github.com/zukunftsstadt/contest-api/internal/utils"
	"github.com/zukunftsstadt/contest-api/pkg/ai"
)

// ContestHandler exposes the submission workflow endpoints.
type ContestHandler struct {
	service service.ContestService
	logger  zerolog.Logger
}

// NewContestHandler constructs a contest handler.
func NewContestHandler(service service.ContestService, logger zerolog.Logger) *ContestHandler {
	return &ContestHandler{
		service: service,
		logger:  logger.With().Str("component", "contest_handler").Logger(),
	}
}

// Register wires the contest routes.
func (h *ContestHandler) Register(router fiber.Router) {
	router.Get("/session", h.session)
	router.Post("/generate", h.generate)
	router.Post("/submit", h.submit)
	router.Post("/reset", h.reset)
}

func (h *ContestHandler) session(c *fiber.Ctx) error {
	snapshot, err := h.service.Open(c.Context(), sessionIDFromRequest(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to open session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to open session")
	}

	setSessionHeader(c, snapshot.SessionID)
	return utils.SendSuccess(c, "session ready", snapshot)
}

func (h *ContestHandler) generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sessionID := sessionIDFromRequest(c)
	if sessionID == "" {
		// First contact without a session: open one implicitly.
		snapshot, err := h.service.Open(c.Context(), "")
		if err != nil {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to open session")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to open session")
		}
		sessionID = snapshot.SessionID
	}
	setSessionHeader(c, sessionID)

	snapshot, err := h.service.Generate(c.Context(), sessionID, req)
	if err != nil {
		return h.sendWorkflowError(c, err)
	}

	return utils.SendSuccess(c, "image generated", snapshot)
}

func (h *ContestHandler) submit(c *fiber.Ctx) error {
	sessionID := sessionIDFromRequest(c)
	setSessionHeader(c, sessionID)

	result, err := h.service.Submit(c.Context(), sessionID)
	if err != nil {
		return h.sendWorkflowError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission received", result)
}

func (h *ContestHandler) reset(c *fiber.Ctx) error {
	sessionID := sessionIDFromRequest(c)
	setSessionHeader(c, sessionID)

	snapshot, err := h.service.Reset(c.Context(), sessionID)
	if err != nil {
		return h.sendWorkflowError(c, err)
	}

	return utils.SendSuccess(c, "session reset", snapshot)
}

// sendWorkflowError maps workflow failures onto status codes. Remote AI
// failures carry the provider message through to the participant so they can
// see why the call was rejected.
func (h *ContestHandler) sendWorkflowError(c *fiber.Ctx, err error) error {
	logger := requestLogger(h.logger, c)

	var genErr *ai.GenerationError
	var judgeErr *ai.JudgeError
	var fetchErr *fetcher.FetchError
	var persistErr *repository.PersistenceError

	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, validationMessage(err))
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrNoImagePending):
		return utils.SendError(c, fiber.StatusConflict, "no generated image pending submission")
	case errors.Is(err, service.ErrAlreadySubmitted):
		return utils.SendError(c, fiber.StatusConflict, "entry already submitted, reset to start over")
	case errors.As(err, &genErr), errors.As(err, &fetchErr), errors.As(err, &judgeErr):
		logger.Warn().Err(err).Msg("remote call failed")
		return utils.SendError(c, fiber.StatusBadGateway, err.Error())
	case errors.As(err, &persistErr):
		logger.Error().Err(err).Msg("failed to persist submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save submission, please retry")
	default:
		logger.Error().Err(err).Msg("workflow request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal error")
	}
}
