package workout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/telemetry/tracing"
	"github.com/jbrinkw/luna-ext-coachbyte/pkg"

	log "github.com/sirupsen/logrus"
)

type completer interface {
	CompleteNextSet(ctx context.Context, exercise string, repsOverride *int, loadOverride *float64) (*CompleteResult, error)
}

// Handler is the REST face of the workout service: a health probe, a
// service info root, and the complete-set shortcut used by hardware
// buttons and quick integrations.
type Handler struct {
	service completer
}

func NewHandler(service completer) *Handler {
	return &Handler{
		service: service,
	}
}

type completeSetRequest struct {
	Exercise string   `json:"exercise"`
	Reps     *int     `json:"reps"`
	Load     *float64 `json:"load"`
}

type completeSetResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *CompleteResult `json:"data,omitempty"`
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, `{"status":"healthy","service":"coachbyte-api"}`)
}

func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	info := map[string]any{
		"service": "coachbyte-api",
		"endpoints": map[string]string{
			"GET /health":        "health check",
			"POST /complete-set": "complete the next planned set",
		},
	}
	infoJson, err := json.Marshal(info)
	if err != nil {
		log.Errorf("marshal service info: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(infoJson))
}

func (h *Handler) HandleCompleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.completeset")
	defer span.End()

	var req completeSetRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := h.service.CompleteNextSet(ctx, req.Exercise, req.Reps, req.Load)
	if err != nil {
		log.Errorf("complete set: %s", err)
		h.writeResult(w, http.StatusInternalServerError, completeSetResponse{
			Success: false,
			Message: "failed to complete set",
		})
		return
	}

	h.writeResult(w, http.StatusOK, completeSetResponse{
		Success: result.Completed,
		Message: result.Message,
		Data:    result,
	})
}

func (h *Handler) writeResult(w http.ResponseWriter, statusCode int, resp completeSetResponse) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal complete set response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, statusCode)
}
