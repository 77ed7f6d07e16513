package handler

import (
	"net/http"
	"strconv"

	"github.com/templui/datanexus/internal/service"
)

type auditHandler struct {
	auditService *service.AuditService
}

func NewAuditHandler(auditService *service.AuditService) *auditHandler {
	return &auditHandler{
		auditService: auditService,
	}
}

// List returns recent audit entries, newest first. ?limit= defaults to 50
// and is capped at 500.
func (h *auditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = service.DefaultAuditLimit
	}

	entries, err := h.auditService.Recent(limit)
	if err != nil {
		handleError(w, r, err, "Failed to load audit log.")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
