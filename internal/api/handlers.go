package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/logger"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/profile"
	"meal-planner/internal/quiz"
	"meal-planner/internal/scoring"
	"meal-planner/internal/shopping"
)

const maxBodyBytes = 1 << 20

// Service is the part of the application the API serves.
type Service interface {
	Normalize(raw quiz.RawAnswers) quiz.NormalizedAnswers
	SubmitQuiz(ctx context.Context, userID string, raw quiz.RawAnswers) (*app.QuizOutcome, error)
	LatestQuizResult(ctx context.Context, userID string) (*scoring.QuizResult, error)
	Profile(ctx context.Context, userID string) (*profile.Profile, error)
	CurrentPlan(ctx context.Context, userID string) (*planner.WeeklyMealPlan, error)
	GenerateWeeklyPlan(ctx context.Context, userID string, start time.Time) (*planner.WeeklyMealPlan, error)
	ShoppingList(ctx context.Context, userID string) (*shopping.ShoppingList, error)
}

type Handler struct {
	svc     Service
	log     *logger.Logger
	dataDir string
}

func NewHandler(cfg *config.Config, svc Service, log *logger.Logger) *Handler {
	return &Handler{
		svc:     svc,
		log:     log,
		dataDir: filepath.Dir(cfg.DatabasePath),
	}
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	respondOK(c, metrics.GetSysHealth(h.dataDir))
}

// POST /api/quiz/normalize
func (h *Handler) NormalizeQuiz(c *gin.Context) {
	raw, err := readAnswers(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, h.svc.Normalize(raw))
}

// POST /api/users/:userID/quiz
func (h *Handler) SubmitQuiz(c *gin.Context) {
	raw, err := readAnswers(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	out, err := h.svc.SubmitQuiz(c.Request.Context(), c.Param("userID"), raw)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// GET /api/users/:userID/quiz
func (h *Handler) LatestQuizResult(c *gin.Context) {
	res, err := h.svc.LatestQuizResult(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, res)
}

// GET /api/users/:userID/profile
func (h *Handler) Profile(c *gin.Context) {
	p, err := h.svc.Profile(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, p)
}

// GET /api/users/:userID/meal-plan[?start=YYYY-MM-DD]
// Without start the current plan is served; with it a new week is generated.
func (h *Handler) MealPlan(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	var (
		plan *planner.WeeklyMealPlan
		err  error
	)
	if s := strings.TrimSpace(c.Query("start")); s != "" {
		start, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			h.respondError(c, badRequest(fmt.Errorf("start must be a date like 2006-01-02, got %q", s)))
			return
		}
		plan, err = h.svc.GenerateWeeklyPlan(ctx, userID, start)
	} else {
		plan, err = h.svc.CurrentPlan(ctx, userID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, plan)
}

// GET /api/users/:userID/meal-plan/shopping-list
func (h *Handler) ShoppingList(c *gin.Context) {
	list, err := h.svc.ShoppingList(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, list)
}

func readAnswers(c *gin.Context) (quiz.RawAnswers, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, badRequest(fmt.Errorf("failed to read body: %w", err))
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, badRequest(errors.New("request body is empty"))
	}
	raw, err := quiz.ParseRawAnswers(body)
	if err != nil {
		return nil, badRequest(err)
	}
	return raw, nil
}
