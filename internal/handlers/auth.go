package handlers

import (
	"time"

	"github.com/assetindex/asset-index/internal/config"
	"github.com/assetindex/asset-index/internal/services"
	"github.com/assetindex/asset-index/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register handles POST /api/auth/register
// @Summary Register a new account
// @Description Create a user account and return a signed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Registration"
// @Success 201 {object} authResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.register")
	}

	user, err := services.Register(h.DB, req.Name, req.Email, req.Password)
	if err != nil {
		return serviceError(c, err, "auth.register")
	}

	return h.respondWithToken(c, fiber.StatusCreated, user.UserID, user.Name, user.Email)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials and return a signed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} authResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.login")
	}

	user, err := services.Login(h.DB, req.Email, req.Password)
	if err != nil {
		return serviceError(c, err, "auth.login")
	}

	return h.respondWithToken(c, fiber.StatusOK, user.UserID, user.Name, user.Email)
}

// respondWithToken issues a token as both a cookie and a response field
func (h *AuthHandler) respondWithToken(c *fiber.Ctx, status int, userID, name, email string) error {
	token, err := services.IssueToken(h.Cfg.JWTSecret, userID, h.Cfg.TokenTTL)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "auth.token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.Cfg.TokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Status(status).JSON(authResponse{
		ID:    userID,
		Name:  name,
		Email: email,
		Token: token,
	})
}
