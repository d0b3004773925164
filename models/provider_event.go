// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

// ProcessedProviderEvent is the dedup ledger for subscription-provider
// webhook deliveries. A row per provider event id; redelivery of a known
// id is acknowledged without reapplying.
type ProcessedProviderEvent struct {
	ID        uint    `gorm:"primaryKey"`
	EventID   string  `gorm:"size:255;not null;uniqueIndex"`
	EventType string  `gorm:"size:100;not null"`
	ProductID *string `gorm:"size:255;default:null"`
	Store     *string `gorm:"size:50;default:null"`
	CreatedAt time.Time
	UserID    uint `gorm:"not null;index"`
	User      User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func init() {
	AllModels = append(AllModels, &ProcessedProviderEvent{})
}
