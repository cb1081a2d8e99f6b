package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/repository"
	domainservice "habithero-service/internal/domain/service"
	"habithero-service/internal/service"
)

// Handler wires the habit services into Fiber routes
type Handler struct {
	habitService    domainservice.HabitService
	insightsService domainservice.InsightsService
	quoteService    domainservice.QuoteService
	resetService    domainservice.ResetService
	recapService    domainservice.RecapService // optional
}

// NewHandler creates the HTTP handler. recapService may be nil.
func NewHandler(
	habitService domainservice.HabitService,
	insightsService domainservice.InsightsService,
	quoteService domainservice.QuoteService,
	resetService domainservice.ResetService,
	recapService domainservice.RecapService,
) *Handler {
	return &Handler{
		habitService:    habitService,
		insightsService: insightsService,
		quoteService:    quoteService,
		resetService:    resetService,
		recapService:    recapService,
	}
}

type habitResponse struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Frequency         int32      `json:"frequency"`
	Progress          int32      `json:"progress"`
	Completed         bool       `json:"completed"`
	Streak            int32      `json:"streak"`
	LastCompletedDate *time.Time `json:"last_completed_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toHabitResponse(h *entity.Habit) habitResponse {
	return habitResponse{
		ID:                h.ID.String(),
		Title:             h.Title,
		Description:       h.Description,
		Frequency:         h.Frequency,
		Progress:          h.Progress,
		Completed:         h.Completed,
		Streak:            h.Streak,
		LastCompletedDate: h.LastCompletedDate,
		CreatedAt:         h.CreatedAt,
		UpdatedAt:         h.UpdatedAt,
	}
}

type entryResponse struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Date      time.Time `json:"date"`
	Progress  int32     `json:"progress"`
	Completed bool      `json:"completed"`
}

type createHabitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   int32  `json:"frequency"`
}

type updateHabitRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Frequency   *int32  `json:"frequency"`
}

func userID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(userIDKey).(uuid.UUID)
	return id
}

func habitID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// writeError maps domain errors to HTTP status codes
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "habit not found"})
	case errors.Is(err, service.ErrDuplicateTitle):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrInvalidFrequency),
		errors.Is(err, service.ErrInvalidWeekOffset):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		slog.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func (h *Handler) createHabit(c *fiber.Ctx) error {
	var req createHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	habit, err := h.habitService.CreateHabit(c.Context(), userID(c), req.Title, req.Description, req.Frequency)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toHabitResponse(habit))
}

func (h *Handler) listHabits(c *fiber.Ctx) error {
	habits, err := h.habitService.ListHabits(c.Context(), userID(c), c.QueryBool("include_deleted"))
	if err != nil {
		return writeError(c, err)
	}

	out := make([]habitResponse, 0, len(habits))
	for _, habit := range habits {
		out = append(out, toHabitResponse(habit))
	}
	return c.JSON(fiber.Map{"habits": out})
}

func (h *Handler) getHabit(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	habit, err := h.habitService.GetHabit(c.Context(), id, userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHabitResponse(habit))
}

func (h *Handler) updateHabit(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	var req updateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	habit, err := h.habitService.UpdateHabit(c.Context(), id, userID(c), req.Title, req.Description, req.Frequency)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHabitResponse(habit))
}

func (h *Handler) deleteHabit(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	if c.QueryBool("purge") {
		err = h.habitService.PurgeHabit(c.Context(), id, userID(c))
	} else {
		err = h.habitService.DeleteHabit(c.Context(), id, userID(c))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) incrementProgress(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	habit, err := h.habitService.IncrementProgress(c.Context(), id, userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHabitResponse(habit))
}

func (h *Handler) toggleCompletion(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	habit, err := h.habitService.ToggleCompletion(c.Context(), id, userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHabitResponse(habit))
}

func (h *Handler) resetProgress(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	habit, err := h.habitService.ResetProgress(c.Context(), id, userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHabitResponse(habit))
}

func (h *Handler) listEntries(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start parameter"})
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid end parameter"})
	}

	entries, err := h.habitService.EntriesInRange(c.Context(), id, userID(c), start, end)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:        e.ID.String(),
			HabitID:   e.HabitID.String(),
			Date:      e.Date,
			Progress:  e.Progress,
			Completed: e.Completed,
		})
	}
	return c.JSON(fiber.Map{"entries": out})
}

func (h *Handler) weeklyData(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	report, err := h.insightsService.WeeklyData(c.Context(), id, userID(c), c.QueryInt("week_offset"))
	if err != nil {
		return writeError(c, err)
	}

	days := make([]fiber.Map, 0, len(report.Days))
	for _, d := range report.Days {
		days = append(days, fiber.Map{
			"label":    d.Label,
			"date":     d.Date,
			"progress": d.Progress,
		})
	}
	return c.JSON(fiber.Map{
		"habit_id":   report.HabitID.String(),
		"week_start": report.WeekStart,
		"week_end":   report.WeekEnd,
		"days":       days,
	})
}

func (h *Handler) completionRate(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	rate, err := h.insightsService.CompletionRate(c.Context(), id, userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"completion_rate": rate})
}

func (h *Handler) analyzeHabit(c *fiber.Ctx) error {
	id, err := habitID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid habit id"})
	}

	analysis, err := h.insightsService.AnalyzeHabit(c.Context(), id, userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(analysis)
}

func (h *Handler) dailyQuote(c *fiber.Ctx) error {
	quote, err := h.quoteService.DailyQuote(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(quote)
}

func (h *Handler) triggerReset(c *fiber.Ctx) error {
	outcome, err := h.resetService.Run(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"reset":   outcome.Reset,
		"skipped": outcome.Skipped,
		"failed":  outcome.Failed,
	})
}

func (h *Handler) triggerRecap(c *fiber.Ctx) error {
	if h.recapService == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "recap is disabled"})
	}

	recap, err := h.recapService.Run(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"completed": len(recap.Completed),
		"pending":   len(recap.Pending),
	})
}
