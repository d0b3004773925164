// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

type Tier string

const (
	FreeTier    Tier = "FREE"
	PremiumTier Tier = "PREMIUM"
)

type EntitlementStatus string

const (
	NoneStatus        EntitlementStatus = "NONE"
	ActiveStatus      EntitlementStatus = "ACTIVE"
	CancelledStatus   EntitlementStatus = "CANCELLED"
	ExpiredStatus     EntitlementStatus = "EXPIRED"
	GracePeriodStatus EntitlementStatus = "GRACE_PERIOD"
	TrialStatus       EntitlementStatus = "TRIAL"
)

// UserEntitlement is the authoritative subscription state for a user, one
// row per user, created with defaults at signup and mutated only by
// provider webhook events.
type UserEntitlement struct {
	ID                 uint              `gorm:"primaryKey"`
	Tier               Tier              `gorm:"size:20;not null;default:'FREE'"`
	Status             EntitlementStatus `gorm:"size:20;not null;default:'NONE'"`
	ProductID          *string           `gorm:"size:255;default:null"`
	Store              *string           `gorm:"size:50;default:null"`
	ExpiresAt          *time.Time
	IsGrandfathered    bool `gorm:"not null;default:false"`
	GrandfatheredUntil *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
	UserID             uint           `gorm:"not null;uniqueIndex"`
	User               User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// GrandfatheringLapsed reports whether a legacy grant has run out and the
// row must be read as FREE/EXPIRED regardless of its stored tier/status.
func (e *UserEntitlement) GrandfatheringLapsed(now time.Time) bool {
	return e.IsGrandfathered && e.GrandfatheredUntil != nil && e.GrandfatheredUntil.Before(now)
}

func init() {
	AllModels = append(AllModels, &UserEntitlement{})
}
