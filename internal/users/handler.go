package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthtrack-backend/internal/shared/server/middleware"
	"healthtrack-backend/internal/shared/server/respond"
	"healthtrack-backend/internal/shared/session"
)

type Handler struct {
	Svc        *Service
	Production bool
}

func NewHandler(svc *Service, production bool) *Handler {
	return &Handler{Svc: svc, Production: production}
}

// RegisterAuthRoutes mounts the public auth endpoints.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.POST("/forgot-password", h.forgotPassword)
	rg.POST("/reset-password", h.resetPassword)
}

// RegisterRoutes mounts endpoints that require a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PATCH("/me", h.updateName)
	rg.DELETE("/me", h.deleteAccount)
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "email, name and password are required", nil)
		return
	}
	user, token, err := h.Svc.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "email_taken", "an account with this email already exists", nil)
		case errors.Is(err, ErrWeakPassword):
			respond.Error(c, http.StatusBadRequest, "weak_password", ErrWeakPassword.Error(), nil)
		default:
			respond.Error(c, http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		return
	}
	session.SetCookie(c, token, h.Production)
	respond.Created(c, toUserResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "email and password are required", nil)
		return
	}
	user, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log in", nil)
		return
	}
	session.SetCookie(c, token, h.Production)
	respond.JSON(c, http.StatusOK, toUserResponse(user))
}

func (h *Handler) logout(c *gin.Context) {
	session.ClearCookie(c)
	respond.JSON(c, http.StatusOK, gin.H{"success": true})
}

// forgotPassword always responds with success so the endpoint cannot be used
// to probe which emails are registered.
func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "email is required", nil)
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process request", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "token and password are required", nil)
		return
	}
	err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidToken):
			respond.Error(c, http.StatusBadRequest, "invalid_token", "reset link is invalid or expired", nil)
		case errors.Is(err, ErrWeakPassword):
			respond.Error(c, http.StatusBadRequest, "weak_password", ErrWeakPassword.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusBadRequest, "invalid_token", "reset link is invalid or expired", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset password", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true})
}

func (h *Handler) updateName(c *gin.Context) {
	var req updateNameRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "name cannot be empty", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.UpdateName(c.Request.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusOK, toUserResponse(user))
}

// deleteAccount removes the user and everything they own, then ends the
// session.
func (h *Handler) deleteAccount(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.DeleteAccount(c.Request.Context(), userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete account", nil)
		return
	}
	session.ClearCookie(c)
	respond.JSON(c, http.StatusOK, gin.H{"success": true})
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toUserResponse(user))
}
