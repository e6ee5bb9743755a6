// common.go
//
// Digital dead-man's-switch backend for the Asset Index service
// Copyright (c) 2026 Asset Index
//
// This file is part of asset-index.
// asset-index is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// asset-index is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with asset-index.
// If not, see <https://www.gnu.org/licenses/>.

package handlers

import (
	"errors"
	"fmt"

	"github.com/assetindex/asset-index/internal/services"
	"github.com/assetindex/asset-index/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// getUserID extracts the authenticated user ID from context (set by auth middleware)
func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user not found in context")
	}
	return userID, nil
}

// serviceError maps a service error onto the standard response envelope
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "Resource not found")
	case errors.Is(err, services.ErrInvalidInput):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrEmailTaken):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, errorType)
	case errors.Is(err, services.ErrBadCredentials):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, errorType)
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}
}
