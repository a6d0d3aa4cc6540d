package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/internal/interfaces/http/middleware"
	"assembly-directory.backend/internal/interfaces/http/response"
	"assembly-directory.backend/internal/usecases"
)

// AuthHandler handles admin authentication endpoints
type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Login handles admin login
// POST /api/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Email and password are required"))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			response.Error(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredentials, "Invalid email or password", err))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse)
}

// Me returns the identity carried by the bearer token
// GET /api/admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetAdminIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Invalid token"))
		return
	}
	response.Success(c, http.StatusOK, identity)
}
