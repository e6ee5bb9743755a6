package integration_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/assetindex/asset-index/data"
	"github.com/assetindex/asset-index/internal/config"
	"github.com/assetindex/asset-index/internal/database"
	"github.com/assetindex/asset-index/internal/models"
	"github.com/assetindex/asset-index/internal/monitor"
	"github.com/assetindex/asset-index/internal/services"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const (
	dbRootPassword = "rootpass"
	dbName         = "assetindex"
	dbUser         = "assetindex"
	dbPassword     = "testpass"
)

type deliveryLog struct {
	to      []string
	subject []string
}

func (d *deliveryLog) Send(_ context.Context, to, subject, _ string) error {
	d.to = append(d.to, to)
	d.subject = append(d.subject, subject)
	return nil
}

// TestWithMariaDB runs the monitoring pipeline against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	image := os.Getenv("DB_IMAGE")
	if image == "" {
		image = "mariadb:11"
	}

	tcpPort, err := nat.NewPort("tcp", "3306")
	if err != nil {
		t.Fatalf("Failed to create DB port: %v", err)
	}

	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": dbRootPassword,
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := mariadbContainer.MappedPort(ctx, tcpPort)
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	initDatabase(t, host, port)

	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        dbName,
		DBUser:            dbUser,
		DBPassword:        dbPassword,
		DBConnectionLimit: 5,
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("MonitorReleasePipeline", func(t *testing.T) {
		testMonitorReleasePipeline(t, db)
	})

	t.Run("AssignmentUpsertUnderUniqueIndex", func(t *testing.T) {
		testAssignmentUpsert(t, db)
	})
}

// initDatabase performs the root-level setup the container entrypoint would
// normally run from the initdb directory: schema, app user, grants.
func initDatabase(t *testing.T, host string, port nat.Port) {
	t.Helper()

	rootDB, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", dbRootPassword, host, port.Port()))
	if err != nil {
		t.Fatalf("Failed to connect to MariaDB for setup: %v", err)
	}
	defer rootDB.Close()

	for i := 0; i < 30; i++ {
		err = rootDB.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		t.Fatalf("MariaDB not ready after 30 seconds: %v", err)
	}

	setup := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", dbName),
		fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'", dbUser, dbPassword),
	}
	for _, q := range setup {
		if _, err := rootDB.Exec(q); err != nil {
			t.Fatalf("Failed to execute %q: %v", q, err)
		}
	}

	// A fresh handle pinned to the schema, so every pooled connection
	// resolves unqualified table names against it
	schemaDB, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/%s", dbRootPassword, host, port.Port(), dbName))
	if err != nil {
		t.Fatalf("Failed to connect to schema for setup: %v", err)
	}
	defer schemaDB.Close()

	if err := executeSQL(schemaDB, data.InitdbMariaDBTables); err != nil {
		t.Fatalf("Failed to execute tables init sql: %v", err)
	}
	if err := executeSQL(schemaDB, data.InitdbMariaDBPrivileges); err != nil {
		t.Fatalf("Failed to execute privileges init sql: %v", err)
	}
}

// executeSQL runs a multi-statement script, one statement at a time
func executeSQL(db *sql.DB, script string) error {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	for _, q := range strings.Split(strings.Join(kept, "\n"), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

// testMonitorReleasePipeline walks the full inactivity lifecycle: an overdue
// user is released, the contact with assignments gets the disclosure mail, and
// the disclosure payload opens.
func testMonitorReleasePipeline(t *testing.T, db *gorm.DB) {
	user, err := services.Register(db, "Integration Owner", "int-owner@example.com", "secret123")
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	// Make the user deeply overdue on the shortest schedule
	err = db.Model(&models.User{}).Where("user_id = ?", user.UserID).Updates(map[string]interface{}{
		"check_in_frequency": models.FrequencyFiveMinutes,
		"grace_period":       5,
		"last_check_in":      time.Now().UTC().Add(-30 * time.Minute),
	}).Error
	if err != nil {
		t.Fatalf("Failed to seed schedule: %v", err)
	}

	contact, err := services.CreateContact(db, user.UserID, services.ContactInput{
		Name: "Integration Contact", Email: "int-contact@example.com", Status: models.ContactStatusActive,
	})
	if err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	idle, err := services.CreateContact(db, user.UserID, services.ContactInput{
		Name: "Idle Contact", Email: "int-idle@example.com", Status: models.ContactStatusActive,
	})
	if err != nil {
		t.Fatalf("Failed to create idle contact: %v", err)
	}

	asset, err := services.CreateAsset(db, user.UserID, services.AssetInput{
		Name: "Integration Vault", AccessInstructions: "Combination held by the notary",
	})
	if err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}
	if _, err := services.AssignAssets(db, user.UserID, contact.ContactID, []services.AssignmentInput{
		{AssetID: asset.AssetID, PermissionLevel: models.PermissionView},
	}); err != nil {
		t.Fatalf("Failed to assign asset: %v", err)
	}

	sentinel := &deliveryLog{}
	mon := monitor.New(db, sentinel, nil, "http://localhost:3000/checkin", 0)

	result, err := mon.RunTick(context.Background())
	if err != nil {
		t.Fatalf("Monitor tick failed: %v", err)
	}
	if result.Processed != 1 {
		t.Errorf("Expected 1 processed user, got %d", result.Processed)
	}
	if result.Notifications != 1 {
		t.Errorf("Expected 1 notification, got %d", result.Notifications)
	}
	if len(sentinel.to) != 1 || sentinel.to[0] != contact.Email {
		t.Errorf("Expected one mail to %s, got %v", contact.Email, sentinel.to)
	}
	for _, to := range sentinel.to {
		if to == idle.Email {
			t.Error("Contact without assignments must not receive a disclosure")
		}
	}

	payload, err := services.GetDisclosure(db, contact.ContactID, user.UserID)
	if err != nil {
		t.Fatalf("Expected disclosure after release: %v", err)
	}
	if len(payload.Assets) != 1 || payload.Assets[0].AccessInstructions != "Combination held by the notary" {
		t.Errorf("Unexpected disclosure payload: %+v", payload.Assets)
	}

	var audits int64
	if err := db.Model(&models.NotificationLog{}).Where("user_id = ?", user.UserID).Count(&audits).Error; err != nil {
		t.Fatalf("Failed to count audit rows: %v", err)
	}
	if audits != 1 {
		t.Errorf("Expected 1 audit row, got %d", audits)
	}

	// A check-in brings the user back and a further tick stays quiet
	if _, err := services.CheckIn(db, user.UserID, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to check in: %v", err)
	}
	result, err = mon.RunTick(context.Background())
	if err != nil {
		t.Fatalf("Monitor tick failed: %v", err)
	}
	if result.Processed != 0 || result.Notifications != 0 {
		t.Errorf("Expected a quiet tick after check-in, got %+v", result)
	}
}

// testAssignmentUpsert verifies the (contact, asset) unique index holds up
// under the real dialect and that a repeated grant updates in place.
func testAssignmentUpsert(t *testing.T, db *gorm.DB) {
	user, err := services.Register(db, "Upsert Owner", "upsert-owner@example.com", "secret123")
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	contact, err := services.CreateContact(db, user.UserID, services.ContactInput{
		Name: "Upsert Contact", Email: "upsert-contact@example.com",
	})
	if err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	asset, err := services.CreateAsset(db, user.UserID, services.AssetInput{
		Name: "Upsert Asset", AccessInstructions: "n/a",
	})
	if err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	for _, level := range []string{models.PermissionView, models.PermissionEdit, models.PermissionFullAccess} {
		rows, err := services.AssignAssets(db, user.UserID, contact.ContactID, []services.AssignmentInput{
			{AssetID: asset.AssetID, PermissionLevel: level},
		})
		if err != nil {
			t.Fatalf("Failed to assign at level %s: %v", level, err)
		}
		if len(rows) != 1 || rows[0].PermissionLevel != level {
			t.Fatalf("Expected level %s, got %+v", level, rows)
		}
	}

	var count int64
	err = db.Model(&models.AssetAssignment{}).
		Where("contact_id = ? AND asset_id = ?", contact.ContactID, asset.AssetID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("Failed to count assignments: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected a single assignment row, got %d", count)
	}
}
