package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/thisisgagangupta/dev-kiosk/internal/slots/service"
	httputil "github.com/thisisgagangupta/dev-kiosk/pkg/http"
	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
)

type SlotHandler struct {
	service service.SlotLockService
	log     *logger.Logger
}

func NewSlotHandler(service service.SlotLockService, log *logger.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		log:     log,
	}
}

// Release frees the lock on a slot. Appointment cancellation calls
// this so availability queries can offer the slot again. Releasing a
// slot that was never locked still returns no content.
func (h *SlotHandler) Release(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.service.Release(r.Context(), ps.ByName("doctorId"), ps.ByName("date"), ps.ByName("time"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Release", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.DELETE("/api/v1/slots/:doctorId/:date/:time", h.Release)
}
