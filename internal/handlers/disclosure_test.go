package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/assetindex/asset-index/internal/handlers"
	"github.com/assetindex/asset-index/internal/models"
	"github.com/assetindex/asset-index/internal/monitor"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// seedReleaseScenario creates an owner with one active contact holding an
// assignment, overdue far enough that a monitor pass would release.
func seedReleaseScenario(t *testing.T, db *gorm.DB, released bool) (*models.User, *models.Contact) {
	t.Helper()

	user := models.User{
		Name:             "Test Owner",
		Email:            "owner@example.com",
		PasswordHash:     "x",
		CheckInFrequency: models.FrequencyFiveMinutes,
		GracePeriod:      5,
		LastCheckIn:      time.Now().UTC().Add(-30 * time.Minute),
		AssetsReleased:   released,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	contact := models.Contact{
		UserID: user.UserID,
		Name:   "June Doe",
		Email:  "june@example.com",
		Status: models.ContactStatusActive,
	}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}

	asset := models.Asset{
		UserID:             user.UserID,
		Name:               "Bank account",
		AccessInstructions: "Login details in the vault",
	}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}
	assignment := models.AssetAssignment{
		UserID:          user.UserID,
		ContactID:       contact.ContactID,
		AssetID:         asset.AssetID,
		PermissionLevel: models.PermissionView,
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("Failed to create assignment: %v", err)
	}

	return &user, &contact
}

func TestDisclosureAccess(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := setupApp(db, cfg)
	user, contact := seedReleaseScenario(t, db, true)

	// Missing key
	status, _ := doRequest(t, app, "GET", "/api/disclosure/"+contact.ContactID, "", nil)
	if status != fiber.StatusUnauthorized {
		t.Errorf("Expected status 401 without a key, got %d", status)
	}

	// Key that is no user's ID
	status, result := doRequest(t, app, "GET", "/api/disclosure/"+contact.ContactID+"?key=bogus", "", nil)
	if status != fiber.StatusForbidden {
		t.Errorf("Expected status 403 for a bogus key, got %d", status)
	}
	if result["message"] != "Access Denied" {
		t.Errorf("Expected Access Denied, got %v", result["message"])
	}

	// Unknown contact
	status, result = doRequest(t, app, "GET", "/api/disclosure/missing?key="+user.UserID, "", nil)
	if status != fiber.StatusForbidden || result["message"] != "Access Denied" {
		t.Errorf("Expected 403 Access Denied for an unknown contact, got %d %v", status, result["message"])
	}

	// Valid pairing on a released owner
	status, result = doRequest(t, app, "GET", "/api/disclosure/"+contact.ContactID+"?key="+user.UserID, "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	assets, ok := result["assets"].([]interface{})
	if !ok || len(assets) != 1 {
		t.Fatalf("Expected 1 disclosed asset, got %v", result["assets"])
	}
	first := assets[0].(map[string]interface{})
	if first["accessInstructions"] != "Login details in the vault" {
		t.Errorf("Expected access instructions in the payload, got %v", first["accessInstructions"])
	}
}

func TestDisclosureNotAuthorizedBeforeRelease(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := setupApp(db, cfg)
	user, contact := seedReleaseScenario(t, db, false)

	status, result := doRequest(t, app, "GET", "/api/disclosure/"+contact.ContactID+"?key="+user.UserID, "", nil)
	if status != fiber.StatusForbidden {
		t.Fatalf("Expected status 403 before release, got %d", status)
	}
	if result["message"] != "Disclosure Not Authorized" {
		t.Errorf("Expected Disclosure Not Authorized, got %v", result["message"])
	}
}

func TestCronTriggerReleasesAndDiscloses(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := setupApp(db, cfg)
	user, contact := seedReleaseScenario(t, db, false)

	sentinel := &recordingMailer{}
	mon := monitor.New(db, sentinel, nil, "http://localhost:3000/checkin", 0)
	cron := &handlers.CronHandler{Monitor: mon}
	app.Get("/api/cron/monitor", cron.Trigger)

	status, result := doRequest(t, app, "GET", "/api/cron/monitor", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if result["success"] != true {
		t.Errorf("Expected success true, got %v", result["success"])
	}
	if got, _ := result["processed"].(float64); int(got) != 1 {
		t.Errorf("Expected 1 processed user, got %v", result["processed"])
	}
	if got, _ := result["notifications"].(float64); int(got) != 1 {
		t.Errorf("Expected 1 disclosure notification, got %v", result["notifications"])
	}
	if len(sentinel.sent) != 1 || sentinel.sent[0].to != contact.Email {
		t.Fatalf("Expected one mail to %s, got %v", contact.Email, sentinel.sent)
	}

	// The disclosure page opens after the pass
	status, _ = doRequest(t, app, "GET", "/api/disclosure/"+contact.ContactID+"?key="+user.UserID, "", nil)
	if status != fiber.StatusOK {
		t.Errorf("Expected status 200 after release, got %d", status)
	}
}

type recordingMailer struct {
	sent []recordedMail
}

type recordedMail struct {
	to      string
	subject string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.sent = append(m.sent, recordedMail{to: to, subject: subject})
	return nil
}
