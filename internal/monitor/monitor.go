// monitor.go
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

// Package monitor implements the inactivity state machine. Each tick walks
// every non-released user, classifies them against their check-in schedule as
// on-time, within-grace, or past-grace, sends the flag-guarded warning or the
// irreversible disclosure fan-out, and persists the transition.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/assetindex/asset-index/internal/mailer"
	"github.com/assetindex/asset-index/internal/models"
	"github.com/assetindex/asset-index/internal/schedule"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// TickResult reports one monitor pass: Processed counts users that were past
// their due date, Notifications counts successfully delivered emails.
type TickResult struct {
	Processed     int `json:"processed"`
	Notifications int `json:"notifications"`
}

// Monitor evaluates all users against their check-in schedules. All
// dependencies are injected; construct with New.
type Monitor struct {
	db          *gorm.DB
	gateway     mailer.Mailer
	clock       Clock
	checkInURL  string
	sendTimeout time.Duration

	// mu serializes whole-tick executions: the periodic ticker and the
	// on-demand trigger share one pass, never two in flight.
	mu sync.Mutex
}

// New constructs a Monitor. A nil clock means the system clock. checkInURL is
// the frontend page a warned user is sent to.
func New(db *gorm.DB, gateway mailer.Mailer, clock Clock, checkInURL string, sendTimeout time.Duration) *Monitor {
	if clock == nil {
		clock = SystemClock{}
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Monitor{
		db:          db,
		gateway:     gateway,
		clock:       clock,
		checkInURL:  checkInURL,
		sendTimeout: sendTimeout,
	}
}

// Start runs RunTick on a fixed interval until ctx is canceled. One minute
// keeps the five-minute test frequency responsive.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := m.RunTick(ctx)
				if err != nil {
					log.Printf("Monitor tick failed: %v", err)
					continue
				}
				if res.Processed > 0 {
					log.Printf("Monitor tick: processed=%d notifications=%d", res.Processed, res.Notifications)
				}
			}
		}
	}()
}

// RunTick executes one full monitor pass over all non-released users.
// Per-user and per-notification failures are logged and isolated; only an
// unreachable store aborts the tick with an error.
func (m *Monitor) RunTick(ctx context.Context) (TickResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result TickResult

	tx := m.db.WithContext(ctx)
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(hints.UseIndex("idx_users_assets_released"))
	}

	var users []models.User
	if err := tx.Where("assets_released = ?", false).Find(&users).Error; err != nil {
		return result, fmt.Errorf("failed to list candidate users: %w", err)
	}

	now := m.clock.Now()
	for i := range users {
		m.processUser(ctx, &users[i], now, &result)
	}

	return result, nil
}

// processUser applies one user's state transition for this tick
func (m *Monitor) processUser(ctx context.Context, user *models.User, now time.Time, result *TickResult) {
	freq := schedule.Frequency(user.CheckInFrequency)
	due := schedule.NextDue(user.LastCheckIn, freq)
	if !now.After(due) {
		// On time. A WARNED user stays warned; only an explicit check-in
		// returns them to clean state.
		return
	}

	result.Processed++
	units := schedule.OverdueUnits(now, due, freq)

	if units <= user.GracePeriod {
		m.warn(ctx, user, result)
		return
	}
	m.release(ctx, user, result)
}

// warn sends the missed-check-in notice once. The warning_sent flag is only
// set after a successful delivery, so a failed send is retried next tick.
func (m *Monitor) warn(ctx context.Context, user *models.User, result *TickResult) {
	if user.WarningSent {
		return
	}

	subject, body := mailer.RenderWarning(user.Name, m.checkInURL)
	if err := m.send(ctx, user.Email, subject, body); err != nil {
		log.Printf("Warning delivery to user %s failed, will retry: %v", user.UserID, err)
		return
	}

	if err := m.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Update("warning_sent", true).Error; err != nil {
		// Flag write failed after delivery; next tick re-sends. The flag is
		// the idempotence guard, so delivery is at-least-once.
		log.Printf("Failed to persist warning flag for user %s: %v", user.UserID, err)
		return
	}
	user.WarningSent = true

	m.record(ctx, user.UserID, "", models.NotificationWarning, user.Email, nil)
	result.Notifications++
}

// release flips the terminal flag and fans disclosure out to the user's
// contacts. The flag is written BEFORE the fan-out: it guards against
// re-disclosure on later ticks, not against a partial fan-out. A crash or
// delivery failure mid-fan-out leaves the user released with some contacts
// un-notified, and is not retried.
func (m *Monitor) release(ctx context.Context, user *models.User, result *TickResult) {
	if err := m.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ? AND assets_released = ?", user.UserID, false).
		Update("assets_released", true).Error; err != nil {
		log.Printf("Failed to mark assets released for user %s: %v", user.UserID, err)
		return
	}
	user.AssetsReleased = true
	log.Printf("Assets released for user %s after missed grace period", user.UserID)

	var contacts []models.Contact
	if err := m.db.WithContext(ctx).
		Where("user_id = ?", user.UserID).
		Find(&contacts).Error; err != nil {
		log.Printf("Failed to load contacts for user %s: %v", user.UserID, err)
		return
	}

	// All contacts are notified regardless of status; the status field is
	// informational in this path. Contacts without assignments get nothing.
	for _, contact := range contacts {
		assets, err := AssetsForContact(m.db.WithContext(ctx), user.UserID, contact.ContactID)
		if err != nil {
			log.Printf("Failed to assemble disclosure for contact %s: %v", contact.ContactID, err)
			continue
		}
		if len(assets) == 0 {
			continue
		}

		subject, body := mailer.RenderDisclosure(user.Name, assets)
		if err := m.send(ctx, contact.Email, subject, body); err != nil {
			log.Printf("Disclosure delivery to contact %s failed: %v", contact.ContactID, err)
			continue
		}

		m.record(ctx, user.UserID, contact.ContactID, models.NotificationDisclosure, contact.Email, assets)
		result.Notifications++
	}
}

// send delivers one message with a bounded timeout
func (m *Monitor) send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, m.sendTimeout)
	defer cancel()
	return m.gateway.Send(ctx, to, subject, body)
}

// record writes an audit row for a delivered notification. Audit failures are
// logged, never allowed to affect the monitor pass.
func (m *Monitor) record(ctx context.Context, userID, contactID, kind, recipient string, payload interface{}) {
	entry := models.NotificationLog{
		UserID:    userID,
		ContactID: contactID,
		Kind:      kind,
		Recipient: recipient,
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			entry.Payload = models.NewJSON(raw)
		}
	}
	if err := m.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("Failed to record %s notification for user %s: %v", kind, userID, err)
	}
}

// AssetsForContact assembles the disclosure set for one contact of one owner:
// every assignment resolved to its asset, projected to name, plaintext access
// instructions, and the granted permission level. An empty result means the
// contact receives no disclosure email.
func AssetsForContact(db *gorm.DB, ownerID, contactID string) ([]mailer.DisclosedAsset, error) {
	var rows []struct {
		AssetName          string
		AccessInstructions string
		PermissionLevel    string
	}

	err := db.Table("asset_assignments").
		Select("assets.name AS asset_name, assets.access_instructions, asset_assignments.permission_level").
		Joins("JOIN assets ON assets.asset_id = asset_assignments.asset_id").
		Where("asset_assignments.user_id = ? AND asset_assignments.contact_id = ?", ownerID, contactID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	assets := make([]mailer.DisclosedAsset, 0, len(rows))
	for _, r := range rows {
		assets = append(assets, mailer.DisclosedAsset{
			Name:         r.AssetName,
			Instructions: r.AccessInstructions,
			Level:        r.PermissionLevel,
		})
	}
	return assets, nil
}
