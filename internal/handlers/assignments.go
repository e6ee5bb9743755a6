package handlers

import (
	"github.com/assetindex/asset-index/internal/services"
	"github.com/assetindex/asset-index/internal/types"
	"github.com/assetindex/asset-index/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssignmentHandler handles asset-to-contact grants
type AssignmentHandler struct {
	DB *gorm.DB
}

// assignRequest accepts a single assignment object or a batch for one contact.
type assignRequest struct {
	ContactID   string                              `json:"contactId"`
	Assignments types.FlexList[services.AssignmentInput] `json:"assignments"`
}

type updateAssignmentRequest struct {
	PermissionLevel string `json:"permissionLevel"`
}

// Assign handles POST /api/assignments
// @Summary Grant asset access to a contact
// @Description Upsert one or more (contact, asset) grants; repeated grants update the permission level
// @Tags Assignments
// @Accept json
// @Produce json
// @Param body body assignRequest true "Grants"
// @Success 201 {array} models.AssetAssignment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assignments [post]
func (h *AssignmentHandler) Assign(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assignments.assign")
	}

	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "assignments.assign")
	}

	rows, err := services.AssignAssets(h.DB, userID, req.ContactID, req.Assignments)
	if err != nil {
		return serviceError(c, err, "assignments.assign")
	}

	return utils.SuccessResponse(c, rows, fiber.StatusCreated)
}

// List handles GET /api/assignments
// @Summary List all assignments
// @Description Return every grant of the authenticated user with contact and asset preloaded
// @Tags Assignments
// @Produce json
// @Success 200 {array} models.AssetAssignment
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assignments.list")
	}

	rows, err := services.ListAssignments(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "assignments.list")
	}

	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// ListForContact handles GET /api/assignments/contact/:contactId
// @Summary List assignments for one contact
// @Tags Assignments
// @Produce json
// @Param contactId path string true "Contact ID"
// @Success 200 {array} models.AssetAssignment
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assignments/contact/{contactId} [get]
func (h *AssignmentHandler) ListForContact(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assignments.contact")
	}

	rows, err := services.ListContactAssignments(h.DB, userID, c.Params("contactId"))
	if err != nil {
		return serviceError(c, err, "assignments.contact")
	}

	return utils.SuccessResponse(c, rows, fiber.StatusOK)
}

// Update handles PUT /api/assignments/:id
// @Summary Update an assignment's permission level
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param body body updateAssignmentRequest true "Permission"
// @Success 200 {object} models.AssetAssignment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assignments.update")
	}

	var req updateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "assignments.update")
	}

	row, err := services.UpdateAssignment(h.DB, userID, c.Params("id"), req.PermissionLevel)
	if err != nil {
		return serviceError(c, err, "assignments.update")
	}

	return utils.SuccessResponse(c, row, fiber.StatusOK)
}

// Remove handles DELETE /api/assignments/:id
// @Summary Revoke an assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Remove(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "assignments.remove")
	}

	if err := services.RemoveAssignment(h.DB, userID, c.Params("id")); err != nil {
		return serviceError(c, err, "assignments.remove")
	}

	return utils.MessageResponse(c, "Assignment removed")
}
