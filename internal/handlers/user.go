package handlers

import (
	"time"

	"github.com/assetindex/asset-index/internal/services"
	"github.com/assetindex/asset-index/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles profile settings and check-ins
type UserHandler struct {
	DB *gorm.DB
}

// GetSettings handles GET /api/user/settings
// @Summary Get account settings
// @Description Return the authenticated user's profile and schedule settings
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /user/settings [get]
func (h *UserHandler) GetSettings(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "users.settings")
	}

	user, err := services.GetProfile(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "users.settings")
	}

	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// UpdateSettings handles PUT /api/user/settings
// @Summary Update account settings
// @Description Update profile fields, the check-in frequency and the grace period
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.UpdateProfileInput true "Settings"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /user/settings [put]
func (h *UserHandler) UpdateSettings(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "users.settings")
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "users.settings")
	}

	user, err := services.UpdateProfile(h.DB, userID, input)
	if err != nil {
		return serviceError(c, err, "users.settings")
	}

	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// CheckIn handles POST /api/user/checkin
// @Summary Record a check-in
// @Description Reset the user's inactivity clock and clear any pending warning or release
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /user/checkin [post]
func (h *UserHandler) CheckIn(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "users.checkin")
	}

	user, err := services.CheckIn(h.DB, userID, time.Now().UTC())
	if err != nil {
		return serviceError(c, err, "users.checkin")
	}

	return utils.SuccessResponse(c, user, fiber.StatusOK)
}
