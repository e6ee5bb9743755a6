package handlers

import (
	"github.com/assetindex/asset-index/internal/services"
	"github.com/assetindex/asset-index/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ContactHandler handles trusted-contact CRUD
type ContactHandler struct {
	DB *gorm.DB
}

// List handles GET /api/contacts
// @Summary List contacts
// @Description Return all trusted contacts owned by the authenticated user
// @Tags Contacts
// @Produce json
// @Success 200 {array} models.Contact
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /contacts [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "contacts.list")
	}

	contacts, err := services.ListContacts(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "contacts.list")
	}

	return utils.SuccessResponse(c, contacts, fiber.StatusOK)
}

// Get handles GET /api/contacts/:id
// @Summary Get a contact
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} models.Contact
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /contacts/{id} [get]
func (h *ContactHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "contacts.get")
	}

	contact, err := services.GetContact(h.DB, userID, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "contacts.get")
	}

	return utils.SuccessResponse(c, contact, fiber.StatusOK)
}

// Create handles POST /api/contacts
// @Summary Create a contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param body body services.ContactInput true "Contact"
// @Success 201 {object} models.Contact
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /contacts [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "contacts.create")
	}

	var input services.ContactInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "contacts.create")
	}

	contact, err := services.CreateContact(h.DB, userID, input)
	if err != nil {
		return serviceError(c, err, "contacts.create")
	}

	return utils.SuccessResponse(c, contact, fiber.StatusCreated)
}

// Update handles PUT /api/contacts/:id
// @Summary Update a contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param body body services.ContactInput true "Contact"
// @Success 200 {object} models.Contact
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /contacts/{id} [put]
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "contacts.update")
	}

	var input services.ContactInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "contacts.update")
	}

	contact, err := services.UpdateContact(h.DB, userID, c.Params("id"), input)
	if err != nil {
		return serviceError(c, err, "contacts.update")
	}

	return utils.SuccessResponse(c, contact, fiber.StatusOK)
}

// Delete handles DELETE /api/contacts/:id
// @Summary Delete a contact
// @Description Delete a contact and all assignments that reference it
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "contacts.delete")
	}

	if err := services.DeleteContact(h.DB, userID, c.Params("id")); err != nil {
		return serviceError(c, err, "contacts.delete")
	}

	return utils.MessageResponse(c, "Contact deleted")
}
