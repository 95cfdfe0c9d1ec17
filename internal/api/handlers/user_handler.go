package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DivaAnanda/accenprove-sub001/internal/api/middleware"
	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// UserHandler exposes admin account management. All routes are registered
// behind RequireRole(admin).
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, pagination, err := h.userService.List(c.Query("search"), page, limit)
	if err != nil {
		respondInternal(c, err)
		return
	}

	respondPage(c, users, pagination)
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.userService.Create(c.Request.Context(), actor, services.CreateInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}, middleware.ClientContext(c.Request))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrInvalidRole):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}

	respondOK(c, http.StatusCreated, user)
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.userService.Update(c.Request.Context(), actor, uint(id), services.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}, middleware.ClientContext(c.Request))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidRole):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}

	respondOK(c, http.StatusOK, user)
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive toggles an account's activity flag. The self-deactivation and
// peer-admin guards answer with their own messages so the admin sees why the
// action was refused, distinct from the generic Forbidden.
func (h *UserHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.userService.SetActive(c.Request.Context(), actor, uint(id), *req.IsActive, middleware.ClientContext(c.Request))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrSelfDeactivation), errors.Is(err, services.ErrPeerAdminDeactivation):
			respondError(c, http.StatusForbidden, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}

	respondOK(c, http.StatusOK, user)
}
