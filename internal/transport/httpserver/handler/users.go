package handler

import (
	"net/http"
	"strings"
	"time"

	userdomain "familycart-go/internal/domain/user"
	"familycart-go/internal/transport/httpserver/middleware"
)

type signUpRequest struct {
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type userPayload struct {
	UUID          string    `json:"uuid"`
	Username      string    `json:"username"`
	Email         *string   `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type sessionPayload struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func toUserPayload(account *userdomain.User) userPayload {
	return userPayload{
		UUID:          account.UUID,
		Username:      account.Username,
		Email:         account.Email,
		FirstName:     account.FirstName,
		LastName:      account.LastName,
		EmailVerified: account.EmailVerified,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondRequestError(w, err)
		return
	}

	err := h.Users.SignUp(r.Context(), userdomain.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "verification mail sent", nil)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondRequestError(w, err)
		return
	}

	if err := h.Users.RequestLoginOTP(r.Context(), req.Email); err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "login mail sent", nil)
}

func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	otp := strings.TrimSpace(r.URL.Query().Get("otp"))
	if email == "" || otp == "" {
		writeClientError(w, http.StatusUnprocessableEntity, "email and otp are required", nil)
		return
	}

	session, err := h.Users.VerifyOTP(r.Context(), email, otp)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "email verified", sessionPayload{
		Token: session.Token,
		User:  toUserPayload(session.User),
	})
}

func (h *Handlers) ResendMail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeClientError(w, http.StatusUnprocessableEntity, "email is required", nil)
		return
	}

	if err := h.Users.ResendVerification(r.Context(), email); err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "verification mail sent", nil)
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	account, err := h.Users.GetByID(r.Context(), caller.ID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "profile", toUserPayload(account))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondRequestError(w, err)
		return
	}

	account, err := h.Users.UpdateProfile(r.Context(), caller.ID, userdomain.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "profile updated", toUserPayload(account))
}
