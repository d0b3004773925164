// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// UnlimitedDailyLimit marks a (tier, action) pair with no daily cap.
	UnlimitedDailyLimit = -1
	// DisabledDailyLimit marks a feature unavailable on a tier.
	DisabledDailyLimit = 0
)

// UsageLimit is static reference data, seeded at deploy time: the per-day
// allowance for one (tier, action) pair.
type UsageLimit struct {
	ID         uint       `gorm:"primaryKey"`
	Tier       Tier       `gorm:"size:20;not null;uniqueIndex:idx_tier_action"`
	ActionType ActionType `gorm:"size:50;not null;uniqueIndex:idx_tier_action"`
	DailyLimit int        `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func init() {
	AllModels = append(AllModels, &UsageLimit{})
}
