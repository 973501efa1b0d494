package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/thisisgagangupta/dev-kiosk/internal/queue/service"
	httputil "github.com/thisisgagangupta/dev-kiosk/pkg/http"
	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

type QueueHandler struct {
	tokens    service.TokenService
	wallboard service.WallboardService
	log       *logger.Logger
}

func NewQueueHandler(tokens service.TokenService, wallboard service.WallboardService, log *logger.Logger) *QueueHandler {
	return &QueueHandler{
		tokens:    tokens,
		wallboard: wallboard,
		log:       log,
	}
}

// IssueTokenResponse bundles the issued token with its live queue
// position so the kiosk renders both from a single call.
type IssueTokenResponse struct {
	Token    *model.Token         `json:"token"`
	Position *model.QueuePosition `json:"position"`
}

func (h *QueueHandler) Issue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Issue", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	token, position, err := h.tokens.IssueOrGet(r.Context(), req.PatientID, req.AppointmentID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Issue", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, IssueTokenResponse{Token: token, Position: position}); err != nil {
		h.log.Error("failed to write success response", "handler", "Issue", "operation", "WriteSuccess", "error", err)
	}
}

func (h *QueueHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tokenNo := r.URL.Query().Get("tokenNo")

	status, err := h.tokens.Status(r.Context(), tokenNo)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Status", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, status); err != nil {
		h.log.Error("failed to write success response", "handler", "Status", "operation", "WriteSuccess", "error", err)
	}
}

func (h *QueueHandler) SetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.TokenStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	token, err := h.tokens.SetStatus(r.Context(), ps.ByName("id"), update.Status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, token); err != nil {
		h.log.Error("failed to write success response", "handler", "SetStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *QueueHandler) Wallboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	boards, err := h.wallboard.NowNext(r.Context(), query.Get("date"), query.Get("lane"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Wallboard", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, boards); err != nil {
		h.log.Error("failed to write success response", "handler", "Wallboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *QueueHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/kiosk/checkin/issue", h.Issue)
	router.GET("/api/v1/queue/status", h.Status)
	router.POST("/api/v1/queue/tokens/:id/status", h.SetStatus)
	router.GET("/api/v1/wallboard/now-next", h.Wallboard)
}
