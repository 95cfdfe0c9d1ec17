package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DivaAnanda/accenprove-sub001/internal/api/middleware"
	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// cookieMaxAge matches the token TTL so cookie and token expire together.
const cookieMaxAge = int(services.TokenTTL / time.Second)

type AuthHandler struct {
	authService *services.AuthService
	production  bool
}

func NewAuthHandler(authService *services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{authService: authService, production: production}
}

// setAuthCookie stores the session token in an http-only, same-site-lax
// cookie on the root path. Secure is only set in production so local
// development over plain HTTP keeps working.
func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, maxAge, "/", "", h.production, true)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, middleware.ClientContext(c.Request))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
			return
		}
		respondInternal(c, err)
		return
	}

	h.setAuthCookie(c, token, cookieMaxAge)
	respondOK(c, http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		h.authService.Logout(c.Request.Context(), user, middleware.ClientContext(c.Request))
	}
	h.setAuthCookie(c, "", -1)
	respondMessage(c, http.StatusOK, "Logged out")
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(userID.(uint))
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	respondOK(c, http.StatusOK, user)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), userID.(uint), req.OldPassword, req.NewPassword, middleware.ClientContext(c.Request))
	if err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Password updated successfully")
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword always answers with the same message, whether or not the
// email exists, so the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email, middleware.ClientContext(c.Request)); err != nil {
		respondInternal(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "If the email is registered, a reset link has been sent")
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword, middleware.ClientContext(c.Request))
	if err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Password has been reset")
}
