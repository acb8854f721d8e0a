package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/go-product-api/internal/httputil"
	"github.com/redmonkez12/go-product-api/internal/logging"
	"github.com/redmonkez12/go-product-api/internal/user"
)

const msgUserCreated = "User created successfully"

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"a@b.com"`
	Password string `json:"password" validate:"required,min=6" example:"secret1"`
	FullName string `json:"full_name" validate:"required,min=2,max=255" example:"A B"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" example:"a@b.com"`
	Password string `json:"password" example:"secret1"`
}

// UserEnvelope wraps a user in the data field of a response.
type UserEnvelope struct {
	User user.PublicView `json:"user"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new user account with email, password and full name.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      200 {object} httputil.Response{data=UserEnvelope}
// @Failure      400 {object} httputil.Response "Invalid request or validation error"
// @Failure      409 {object} httputil.Response "Email already exists"
// @Failure      500 {object} httputil.Response "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInvalidBody, http.StatusBadRequest)
		return
	}

	if msg := httputil.Validate(&req); msg != "" {
		logger.Warn("registration failed: validation error", "details", msg)
		httputil.RespondError(w, msg, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, err := h.service.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logger.Warn("registration failed: email already exists")
			httputil.RespondError(w, httputil.MsgDuplicateEmail, http.StatusConflict)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondJSON(w, httputil.Response{
		Status:  httputil.StatusSuccess,
		Message: msgUserCreated,
		Data:    UserEnvelope{User: newUser.Public()},
	}, http.StatusOK)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive a bearer token valid for 24 hours.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} httputil.Response "token field holds the bearer token"
// @Failure      400 {object} httputil.Response "Invalid email or password"
// @Failure      500 {object} httputil.Response "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInvalidBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondError(w, httputil.MsgInvalidCredentials, http.StatusBadRequest)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in")

	httputil.RespondJSON(w, httputil.Response{
		Status: httputil.StatusSuccess,
		Token:  token,
	}, http.StatusOK)
}

// Me returns the authenticated user
// @Summary      Current user
// @Description  Return the user the bearer token was issued to.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Response{data=UserEnvelope}
// @Failure      401 {object} httputil.Response "Not authenticated"
// @Failure      500 {object} httputil.Response "Internal server error"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, httputil.MsgUnauthenticated, http.StatusUnauthorized)
		return
	}

	u, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			logger.Warn("token refers to a missing user", "user_id", userID)
			httputil.RespondError(w, httputil.MsgUnauthenticated, http.StatusUnauthorized)
			return
		}
		logger.Error("failed to load current user", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondData(w, UserEnvelope{User: u.Public()}, http.StatusOK)
}
