package handler

import (
	"net/http"

	"github.com/templui/datanexus/internal/service"
)

type assistantHandler struct {
	assistantService *service.AssistantService
}

func NewAssistantHandler(assistantService *service.AssistantService) *assistantHandler {
	return &assistantHandler{
		assistantService: assistantService,
	}
}

func (h *assistantHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req service.AssistantRequest
	err := decodeJSON(r, &req)
	if err != nil {
		handleError(w, r, err, "Assistant query failed.")
		return
	}

	message, err := h.assistantService.Query(&req)
	if err != nil {
		handleError(w, r, err, "Assistant query failed.")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}
