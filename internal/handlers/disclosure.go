package handlers

import (
	"errors"
	"log"

	"github.com/assetindex/asset-index/internal/services"
	"github.com/assetindex/asset-index/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DisclosureHandler serves the unauthenticated disclosure page backing the
// links sent in release emails. Possession of the contact ID and the owner's
// access key stands in for authentication.
type DisclosureHandler struct {
	DB *gorm.DB
}

// Get handles GET /api/disclosure/:contactId
// @Summary Read a disclosure
// @Description Return the released owner's assets to a contact holding a valid access key
// @Tags Disclosure
// @Produce json
// @Param contactId path string true "Contact ID"
// @Param key query string true "Access key from the disclosure email"
// @Success 200 {object} services.DisclosurePayload
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /disclosure/{contactId} [get]
func (h *DisclosureHandler) Get(c *fiber.Ctx) error {
	contactID := c.Params("contactId")
	key := c.Query("key")
	if key == "" {
		return utils.ErrorResponse(c, "Missing access key", fiber.StatusUnauthorized, "disclosure.get")
	}

	payload, err := services.GetDisclosure(h.DB, contactID, key)
	switch {
	case err == nil:
		return utils.SuccessResponse(c, payload, fiber.StatusOK)
	case errors.Is(err, services.ErrAccessDenied):
		return utils.ErrorResponse(c, "Access Denied", fiber.StatusForbidden, "disclosure.get")
	case errors.Is(err, services.ErrNotAuthorized):
		return utils.ErrorResponse(c, "Disclosure Not Authorized", fiber.StatusForbidden, "disclosure.get")
	default:
		log.Printf("disclosure lookup failed for contact %s: %v", contactID, err)
		return utils.ErrorResponse(c, "Server Error", fiber.StatusInternalServerError, "disclosure.get")
	}
}
