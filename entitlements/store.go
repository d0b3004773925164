// SPDX-License-Identifier: GPL-3.0-only

package entitlements

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"lingua-server/commons"
	"lingua-server/db"
	"lingua-server/models"

	"gorm.io/gorm"
)

// ErrEntitlementNotFound means no entitlement row exists for the user.
// Callers treat this as FREE/NONE; the read path never auto-creates rows,
// that is signup's job.
var ErrEntitlementNotFound = errors.New("entitlement not found")

type cacheEntry struct {
	entitlement models.UserEntitlement
	fetchedAt   time.Time
}

// Store is the source of truth for "what tier/status does this user have
// right now", with a bounded TTL cache in front of the database. The cache
// lock is never held across a database round trip.
type Store struct {
	mu    sync.RWMutex
	cache map[uint]cacheEntry
	ttl   time.Duration
}

func NewStore() *Store {
	ttl := 300
	if v := commons.GetEnv("ENTITLEMENT_CACHE_TTL", "300"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			ttl = i
		}
	}
	return &Store{
		cache: make(map[uint]cacheEntry),
		ttl:   time.Duration(ttl) * time.Second,
	}
}

var Default = NewStore()

// Fetch returns the user's entitlement with the grandfathering-expiry rule
// already applied. A lapsed legacy grant reads as FREE/EXPIRED without any
// write to the stored row.
func (s *Store) Fetch(userID uint) (*models.UserEntitlement, error) {
	now := time.Now()

	s.mu.RLock()
	if entry, ok := s.cache[userID]; ok && now.Sub(entry.fetchedAt) < s.ttl {
		cached := entry.entitlement
		s.mu.RUnlock()
		return &cached, nil
	}
	s.mu.RUnlock()

	entitlement := models.UserEntitlement{}
	if err := db.Conn.Where("user_id = ?", userID).First(&entitlement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntitlementNotFound
		}
		return nil, fmt.Errorf("fetch entitlement for user %d: %w", userID, err)
	}

	if entitlement.GrandfatheringLapsed(now) {
		entitlement.Tier = models.FreeTier
		entitlement.Status = models.ExpiredStatus
	}

	s.mu.Lock()
	s.cache[userID] = cacheEntry{entitlement: entitlement, fetchedAt: now}
	s.mu.Unlock()

	result := entitlement
	return &result, nil
}

// ApplyProviderEvent applies one provider webhook event idempotently.
// Returns (false, nil) when the event id was already processed. The
// entitlement upsert and the dedup record are committed in one transaction
// so a failure leaves nothing behind and the provider's retry redelivers.
func (s *Store) ApplyProviderEvent(ev ProviderEvent) (bool, error) {
	duplicate := false

	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		var existing models.ProcessedProviderEvent
		err := tx.Where("event_id = ?", ev.EventID).First(&existing).Error
		if err == nil {
			duplicate = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("dedup lookup for event %s: %w", ev.EventID, err)
		}

		tier, status, known := mapEventType(ev.EventType, ev.PeriodType)
		if known {
			var expiresAt *time.Time
			if ev.ExpirationAtMs > 0 {
				t := time.UnixMilli(ev.ExpirationAtMs).UTC()
				expiresAt = &t
			}

			// A real purchase always supersedes legacy grandfathering.
			assignments := map[string]any{
				"tier":                tier,
				"status":              status,
				"expires_at":          expiresAt,
				"product_id":          ev.ProductID,
				"store":               ev.Store,
				"is_grandfathered":    false,
				"grandfathered_until": nil,
			}

			entitlement := models.UserEntitlement{}
			if err := tx.Where("user_id = ?", ev.UserID).
				Assign(assignments).
				FirstOrCreate(&entitlement).Error; err != nil {
				return fmt.Errorf("upsert entitlement for user %d: %w", ev.UserID, err)
			}
		} else {
			commons.Logger.Warnf("Ignoring unhandled provider event type %q (event %s)", ev.EventType, ev.EventID)
		}

		processed := models.ProcessedProviderEvent{
			EventID:   ev.EventID,
			EventType: ev.EventType,
			ProductID: ev.ProductID,
			Store:     ev.Store,
			UserID:    ev.UserID,
		}
		if err := tx.Create(&processed).Error; err != nil {
			return fmt.Errorf("record processed event %s: %w", ev.EventID, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if duplicate {
		return false, nil
	}

	s.Invalidate(ev.UserID)
	return true, nil
}

// Reset drops the cached entitlement for a user. Called on sign-out and
// sign-in; durable state is untouched.
func (s *Store) Reset(userID uint) {
	s.Invalidate(userID)
}

func (s *Store) Invalidate(userID uint) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}
