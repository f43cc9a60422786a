package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(as service.AuthService) *AuthController {
	return &AuthController{authService: as}
}

// Register godoc
// @Summary Create a student account
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Account data"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Register: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.authService.Register(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Register", err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Email and password"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Login", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := controller.CurrentUserID(ctx)
	if !ok {
		return
	}
	me, err := c.authService.Me(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, "Me", err)
		return
	}
	ctx.JSON(http.StatusOK, me)
}
