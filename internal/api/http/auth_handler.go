package http

import (
	"net/http"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/service"
)

// AuthHandler serves signup, login, token refresh and PIN setup.
type AuthHandler struct {
	authSvc service.AuthService
	userSvc service.UserService
}

func NewAuthHandler(authSvc service.AuthService, userSvc service.UserService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userSvc: userSvc}
}

type signupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	ReferrerID string `json:"referrer_id"`
}

type tokenResponse struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email, password and name are required"})
		return
	}

	user, access, refresh, err := h.authSvc.Signup(r.Context(), req.Email, req.Password, req.Name, req.Mobile, req.ReferrerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{User: user, AccessToken: access, RefreshToken: refresh})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, access, refresh, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{User: user, AccessToken: access, RefreshToken: refresh})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	access, refresh, err := h.authSvc.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *AuthHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authSvc.SetPIN(r.Context(), userIDFrom(r), req.PIN); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AuthHandler) RegisterFCMToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authSvc.RegisterFCMToken(r.Context(), userIDFrom(r), req.Token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, wallet, err := h.userSvc.GetProfile(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "wallet": wallet})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		PhotoURL string `json:"photo_url"`
		Mobile   string `json:"mobile"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.userSvc.UpdateProfile(r.Context(), userIDFrom(r), req.Name, req.PhotoURL, req.Mobile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ResolveMobile looks up (or mints) the recipient behind a mobile
// number ahead of a transfer.
func (h *AuthHandler) ResolveMobile(w http.ResponseWriter, r *http.Request) {
	mobile := r.URL.Query().Get("mobile")
	if mobile == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mobile is required"})
		return
	}

	user, err := h.userSvc.ResolveMobileRecipient(r.Context(), mobile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ReferralDetails(w http.ResponseWriter, r *http.Request) {
	invited, err := h.userSvc.ReferralDetails(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invited": invited})
}
