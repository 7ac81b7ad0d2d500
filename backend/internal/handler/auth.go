package handler

import (
	"net/http"

	"github.com/itchan-dev/authcore/shared/api"
	"github.com/itchan-dev/authcore/shared/domain"
	mw "github.com/itchan-dev/authcore/shared/middleware"
	"github.com/itchan-dev/authcore/shared/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := utils.Decode(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	_, err := h.auth.Register(r.Context(), domain.Registration{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, api.RegisterResponse{Status: true, Message: "Registration successful."})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := utils.Decode(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	token, err := h.auth.Login(r.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.LoginResponse{
		Success: true,
		Message: "Logged in successfully.",
		Data:    api.TokenData{Token: token},
	})
}

// Logout must sit behind the auth gate, which supplies the current user.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteJSON(w, http.StatusUnauthorized, api.Failure("Unauthenticated."))
		return
	}

	if err := h.auth.Logout(r.Context(), *user); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.LogoutResponse{Success: true, Message: "Logged out successfully."})
}
