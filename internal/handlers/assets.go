package handlers

import (
	"github.com/assetindex/asset-index/internal/services"
	"github.com/assetindex/asset-index/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssetHandler handles asset CRUD
type AssetHandler struct {
	DB *gorm.DB
}

// List handles GET /api/assets
// @Summary List assets
// @Description Return all assets owned by the authenticated user
// @Tags Assets
// @Produce json
// @Success 200 {array} models.Asset
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assets.list")
	}

	assets, err := services.ListAssets(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "assets.list")
	}

	return utils.SuccessResponse(c, assets, fiber.StatusOK)
}

// Create handles POST /api/assets
// @Summary Create an asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param body body services.AssetInput true "Asset"
// @Success 201 {object} models.Asset
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /assets [post]
func (h *AssetHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assets.create")
	}

	var input services.AssetInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "assets.create")
	}

	asset, err := services.CreateAsset(h.DB, userID, input)
	if err != nil {
		return serviceError(c, err, "assets.create")
	}

	return utils.SuccessResponse(c, asset, fiber.StatusCreated)
}

// Update handles PUT /api/assets/:id
// @Summary Update an asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param body body services.AssetInput true "Asset"
// @Success 200 {object} models.Asset
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assets/{id} [put]
func (h *AssetHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assets.update")
	}

	var input services.AssetInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "assets.update")
	}

	asset, err := services.UpdateAsset(h.DB, userID, c.Params("id"), input)
	if err != nil {
		return serviceError(c, err, "assets.update")
	}

	return utils.SuccessResponse(c, asset, fiber.StatusOK)
}

// Delete handles DELETE /api/assets/:id
// @Summary Delete an asset
// @Description Delete an asset and all assignments that reference it
// @Tags Assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assets.delete")
	}

	if err := services.DeleteAsset(h.DB, userID, c.Params("id")); err != nil {
		return serviceError(c, err, "assets.delete")
	}

	return utils.MessageResponse(c, "Asset deleted")
}
