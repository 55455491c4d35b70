package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"localchat/internal/app"
	"localchat/internal/pkg/jwtutil"
	"localchat/internal/transport/http/response"
)

type AdminHandler struct {
	adminService  *app.AdminService
	jwtSecret     string
	jwtExpiration time.Duration
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	AdminKey string `json:"admin_key" binding:"required"`
}

func NewAdminHandler(adminService *app.AdminService, jwtSecret string, jwtExpiration time.Duration) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.adminService.Login(req.Username, req.Password, req.AdminKey)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidAdminKey):
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidAdminKey, err.Error())
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "admin login failed")
		}
		return
	}

	token, err := jwtutil.GenerateToken(h.jwtSecret, h.jwtExpiration, user.ID, user.Username)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "admin login failed")
		return
	}

	response.OK(c, gin.H{
		"token": token,
		"user":  userView(user),
	})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load dashboard failed")
		return
	}

	response.OK(c, stats)
}
