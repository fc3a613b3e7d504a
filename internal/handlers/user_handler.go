package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

type UserServicer interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResponse, error)
	SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (models.AuthResponse, error)
	LogOut(ctx context.Context, userID string) error
	GetUserByID(ctx context.Context, id string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (models.User, error)
}

type UserHandler struct {
	Service  UserServicer
	Sessions *Sessions
	Log      *zap.SugaredLogger
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.startSession(w, r, res.User)
	writeJSON(w, http.StatusCreated, res)
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.startSession(w, r, res.User)
	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.LogOut(r.Context(), userID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := h.Sessions.Clear(w, r); err != nil && h.Log != nil {
		h.Log.Warnw("clear session cookie", "error", err)
	}
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.Service.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) startSession(w http.ResponseWriter, r *http.Request, u models.User) {
	if err := h.Sessions.Start(w, r, u.ID, u.Role); err != nil && h.Log != nil {
		h.Log.Warnw("save session cookie", "user_id", u.ID, "error", err)
	}
}
