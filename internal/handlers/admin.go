package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/middleware"
	"cscportal/api/internal/models"
	"cscportal/api/internal/service"
)

const setupTokenHeader = "X-Setup-Token"

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	SetupToken string `json:"setupToken"`
}

func (h HandlerSet) RegisterAdmin(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	token := c.GetHeader(setupTokenHeader)
	if token == "" {
		token = req.SetupToken
	}

	result, err := h.svc.Auth.Register(c.Request.Context(), middleware.CurrentAdmin(c), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       models.AdminRole(req.Role),
		SetupToken: token,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Admin registered successfully", result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.svc.Auth.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Login successful", result)
}

func (h HandlerSet) Profile(c *gin.Context) {
	admin, err := h.svc.Auth.Profile(c.Request.Context(), middleware.CurrentAdmin(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", admin)
}

type profileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	admin, err := h.svc.Auth.UpdateProfile(c.Request.Context(), middleware.CurrentAdmin(c).ID, service.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated successfully", admin)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.svc.Auth.ChangePassword(c.Request.Context(), middleware.CurrentAdmin(c).ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Password changed successfully", nil)
}

func (h HandlerSet) DashboardStats(c *gin.Context) {
	stats, err := h.svc.Dashboard.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}
