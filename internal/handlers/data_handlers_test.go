package handlers_test

import (
	"testing"

	"github.com/assetindex/asset-index/internal/models"
	"github.com/gofiber/fiber/v2"
)

func TestAssetCRUD(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := setupApp(db, cfg)
	_, token := registerTestUser(t, db, cfg, "owner@example.com")

	status, created := doRequest(t, app, "POST", "/api/assets", token, map[string]interface{}{
		"name":               "Safe deposit box",
		"type":               "Physical",
		"accessInstructions": "Branch on 5th street, box 112",
		"accessKey":          "spare key in the desk drawer",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}
	assetID, _ := created["id"].(string)
	if assetID == "" {
		t.Fatal("Expected a generated asset id")
	}

	status, list := doRequestList(t, app, "GET", "/api/assets", token)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 asset, got %d", len(list))
	}

	status, updated := doRequest(t, app, "PUT", "/api/assets/"+assetID, token, map[string]interface{}{
		"name":               "Safe deposit box",
		"accessInstructions": "Branch moved to 7th street, box 112",
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if updated["accessInstructions"] != "Branch moved to 7th street, box 112" {
		t.Errorf("Expected updated instructions, got %v", updated["accessInstructions"])
	}

	status, _ = doRequest(t, app, "DELETE", "/api/assets/"+assetID, token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}

	status, _ = doRequest(t, app, "PUT", "/api/assets/"+assetID, token, map[string]interface{}{"name": "ghost"})
	if status != fiber.StatusNotFound {
		t.Errorf("Expected status 404 for a deleted asset, got %d", status)
	}
}

func TestAssetOwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := setupApp(db, cfg)
	_, ownerToken := registerTestUser(t, db, cfg, "owner@example.com")
	_, otherToken := registerTestUser(t, db, cfg, "other@example.com")

	status, created := doRequest(t, app, "POST", "/api/assets", ownerToken, map[string]interface{}{
		"name":               "Password vault",
		"accessInstructions": "Master password in the red notebook",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}
	assetID := created["id"].(string)

	// Another user cannot see, update or delete it
	status, list := doRequestList(t, app, "GET", "/api/assets", otherToken)
	if status != fiber.StatusOK || len(list) != 0 {
		t.Errorf("Expected an empty list for the other user, got status %d and %d assets", status, len(list))
	}

	status, _ = doRequest(t, app, "PUT", "/api/assets/"+assetID, otherToken, map[string]interface{}{"name": "stolen"})
	if status != fiber.StatusNotFound {
		t.Errorf("Expected status 404 for a foreign asset update, got %d", status)
	}

	status, _ = doRequest(t, app, "DELETE", "/api/assets/"+assetID, otherToken, nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected status 404 for a foreign asset delete, got %d", status)
	}
}

func TestContactCRUD(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := setupApp(db, cfg)
	_, token := registerTestUser(t, db, cfg, "owner@example.com")

	status, created := doRequest(t, app, "POST", "/api/contacts", token, map[string]interface{}{
		"name":         "June Doe",
		"email":        "june@example.com",
		"relationship": "Family",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}
	contactID := created["id"].(string)
	if created["status"] != models.ContactStatusPending {
		t.Errorf("Expected new contact to be Pending, got %v", created["status"])
	}

	status, fetched := doRequest(t, app, "GET", "/api/contacts/"+contactID, token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if fetched["email"] != "june@example.com" {
		t.Errorf("Expected contact email, got %v", fetched["email"])
	}

	status, updated := doRequest(t, app, "PUT", "/api/contacts/"+contactID, token, map[string]interface{}{
		"name":   "June Doe",
		"email":  "june@example.com",
		"status": models.ContactStatusActive,
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if updated["status"] != models.ContactStatusActive {
		t.Errorf("Expected contact to become Active, got %v", updated["status"])
	}

	status, _ = doRequest(t, app, "DELETE", "/api/contacts/"+contactID, token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
}

func TestAssignmentLifecycle(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := setupApp(db, cfg)
	_, token := registerTestUser(t, db, cfg, "owner@example.com")

	_, contact := doRequest(t, app, "POST", "/api/contacts", token, map[string]interface{}{
		"name": "June Doe", "email": "june@example.com",
	})
	contactID := contact["id"].(string)

	_, assetA := doRequest(t, app, "POST", "/api/assets", token, map[string]interface{}{
		"name": "Bank account", "accessInstructions": "Login details in the vault",
	})
	_, assetB := doRequest(t, app, "POST", "/api/assets", token, map[string]interface{}{
		"name": "Domain names", "accessInstructions": "Registrar account, 2FA on the old phone",
	})

	// Batch grant as an array
	status, _ := doRequest(t, app, "POST", "/api/assignments", token, map[string]interface{}{
		"contactId": contactID,
		"assignments": []map[string]string{
			{"assetId": assetA["id"].(string), "permissionLevel": models.PermissionView},
			{"assetId": assetB["id"].(string), "permissionLevel": models.PermissionEdit},
		},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}

	status, rows := doRequestList(t, app, "GET", "/api/assignments/contact/"+contactID, token)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(rows))
	}

	// A single object body is accepted too, and a repeated grant upserts
	status, _ = doRequest(t, app, "POST", "/api/assignments", token, map[string]interface{}{
		"contactId": contactID,
		"assignments": map[string]string{
			"assetId":         assetA["id"].(string),
			"permissionLevel": models.PermissionFullAccess,
		},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Expected status 201 on repeated grant, got %d", status)
	}

	status, rows = doRequestList(t, app, "GET", "/api/assignments/contact/"+contactID, token)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected the repeated grant to upsert, got %d assignments", len(rows))
	}
	var assignmentID string
	for _, row := range rows {
		if row["assetId"] == assetA["id"] {
			if row["permissionLevel"] != models.PermissionFullAccess {
				t.Errorf("Expected upserted permission full_access, got %v", row["permissionLevel"])
			}
			assignmentID = row["id"].(string)
		}
	}

	status, updated := doRequest(t, app, "PUT", "/api/assignments/"+assignmentID, token, map[string]string{
		"permissionLevel": models.PermissionView,
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if updated["permissionLevel"] != models.PermissionView {
		t.Errorf("Expected permission view after update, got %v", updated["permissionLevel"])
	}

	status, _ = doRequest(t, app, "DELETE", "/api/assignments/"+assignmentID, token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}

	status, rows = doRequestList(t, app, "GET", "/api/assignments/contact/"+contactID, token)
	if status != fiber.StatusOK || len(rows) != 1 {
		t.Errorf("Expected 1 assignment after revoke, got status %d and %d rows", status, len(rows))
	}
}

func TestDeleteContactCascadesAssignments(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := setupApp(db, cfg)
	_, token := registerTestUser(t, db, cfg, "owner@example.com")

	_, contact := doRequest(t, app, "POST", "/api/contacts", token, map[string]interface{}{
		"name": "June Doe", "email": "june@example.com",
	})
	contactID := contact["id"].(string)
	_, asset := doRequest(t, app, "POST", "/api/assets", token, map[string]interface{}{
		"name": "Bank account", "accessInstructions": "Login details in the vault",
	})

	doRequest(t, app, "POST", "/api/assignments", token, map[string]interface{}{
		"contactId": contactID,
		"assignments": map[string]string{
			"assetId": asset["id"].(string), "permissionLevel": models.PermissionView,
		},
	})

	status, _ := doRequest(t, app, "DELETE", "/api/contacts/"+contactID, token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}

	var count int64
	if err := db.Model(&models.AssetAssignment{}).Where("contact_id = ?", contactID).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count assignments: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected assignments to cascade with the contact, found %d", count)
	}
}
