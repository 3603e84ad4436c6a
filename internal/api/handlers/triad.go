package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bionicbutterfly13/praxis/internal/domain"
	"github.com/bionicbutterfly13/praxis/internal/service"
	"go.uber.org/zap"
)

// TriadHandler serves the synchronized triad tick endpoint.
type TriadHandler struct {
	coordinator *service.TriadicCoordinator
	journal     *service.JournalService
	logger      *zap.Logger
}

func NewTriadHandler(coordinator *service.TriadicCoordinator, journal *service.JournalService, logger *zap.Logger) *TriadHandler {
	return &TriadHandler{coordinator: coordinator, journal: journal, logger: logger}
}

type triadStepRequest struct {
	DesignerObs []int `json:"designer_obs"`
	ArtifactObs []int `json:"artifact_obs"`
	UserObs     []int `json:"user_obs"`
}

// Step handles POST /v1/triad/step. It advances all three roles one tick and
// returns their actions, beliefs and the derived presentation metrics.
func (h *TriadHandler) Step(w http.ResponseWriter, r *http.Request) {
	var req triadStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.coordinator.Step(r.Context(), req.DesignerObs, req.ArtifactObs, req.UserObs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidObservation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logHandlerError(h.logger, "triad step", err)
		writeError(w, http.StatusInternalServerError, "triad step failed")
		return
	}

	// Journaling is best-effort and never blocks the response semantics.
	h.journal.RecordTick(r.Context(), result)

	writeJSON(w, http.StatusOK, result)
}

// Ticks handles GET /v1/triad/ticks. It returns the most recent journaled
// tick metrics, newest first.
func (h *TriadHandler) Ticks(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	ticks, err := h.journal.RecentTicks(r.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrJournalDisabled) {
			writeError(w, http.StatusServiceUnavailable, "journal is not configured")
			return
		}
		logHandlerError(h.logger, "recent ticks", err)
		writeError(w, http.StatusInternalServerError, "failed to list ticks")
		return
	}
	if ticks == nil {
		ticks = []domain.TickRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ticks": ticks, "count": len(ticks)})
}
