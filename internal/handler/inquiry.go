package handler

import (
	"net/http"

	"github.com/templui/datanexus/internal/service"
)

type inquiryHandler struct {
	inquiryService *service.InquiryService
}

func NewInquiryHandler(inquiryService *service.InquiryService) *inquiryHandler {
	return &inquiryHandler{
		inquiryService: inquiryService,
	}
}

func (h *inquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.InquiryRequest
	err := decodeJSON(r, &req)
	if err != nil {
		handleError(w, r, err, "Failed to store inquiry.")
		return
	}

	_, err = h.inquiryService.Submit(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "Failed to store inquiry.")
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Inquiry stored successfully."})
}
