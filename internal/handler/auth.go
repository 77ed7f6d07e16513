package handler

import (
	"net/http"

	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{
		authService: authService,
	}
}

type loginResponse struct {
	Token string            `json:"token"`
	User  *model.PublicUser `json:"user"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	err := decodeJSON(r, &req)
	if err != nil {
		handleError(w, r, err, "Authentication failed.")
		return
	}

	token, user, err := h.authService.Login(&req)
	if err != nil {
		handleError(w, r, err, "Authentication failed.")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
