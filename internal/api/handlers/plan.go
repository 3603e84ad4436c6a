package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bionicbutterfly13/praxis/internal/domain"
	"github.com/bionicbutterfly13/praxis/internal/service"
	"go.uber.org/zap"
)

// PlanHandler serves the deliberative planning endpoints.
type PlanHandler struct {
	planner *service.LookaheadPlanner
	journal *service.JournalService
	logger  *zap.Logger
}

func NewPlanHandler(planner *service.LookaheadPlanner, journal *service.JournalService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{planner: planner, journal: journal, logger: logger}
}

// Create handles POST /v1/plans. It runs the full propose-evaluate-select
// cycle and returns the winning policy alongside every scored candidate.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Task) == "" {
		writeError(w, http.StatusBadRequest, "task is required")
		return
	}

	result, err := h.planner.Plan(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrNoViableCandidates) {
			writeError(w, http.StatusBadGateway, "no viable policy candidates")
			return
		}
		logHandlerError(h.logger, "plan", err)
		writeError(w, http.StatusInternalServerError, "planning failed")
		return
	}

	h.journal.RecordPlan(r.Context(), req, result)

	writeJSON(w, http.StatusOK, result)
}

// Recent handles GET /v1/plans/recent.
func (h *PlanHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	plans, err := h.journal.RecentPlans(r.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrJournalDisabled) {
			writeError(w, http.StatusServiceUnavailable, "journal is not configured")
			return
		}
		logHandlerError(h.logger, "recent plans", err)
		writeError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}
	if plans == nil {
		plans = []domain.PlanRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"plans": plans, "count": len(plans)})
}

// Similar handles GET /v1/plans/similar?query=... It embeds the query and
// recalls journaled plans by vector similarity.
func (h *PlanHandler) Similar(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}
	limit := queryInt(r, "limit", 5)

	plans, err := h.journal.SimilarPlans(r.Context(), query, limit)
	if err != nil {
		if errors.Is(err, service.ErrJournalDisabled) {
			writeError(w, http.StatusServiceUnavailable, "journal is not configured")
			return
		}
		logHandlerError(h.logger, "similar plans", err)
		writeError(w, http.StatusInternalServerError, "failed to search plans")
		return
	}
	if plans == nil {
		plans = []domain.PlanRecordWithScore{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"plans": plans, "count": len(plans)})
}

// queryInt reads an integer query parameter, falling back on def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
