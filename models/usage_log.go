// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageDateLayout is the calendar-day key format for usage rows. The day
// boundary is the server's UTC date, at write time and read time alike.
const UsageDateLayout = "2006-01-02"

// UsageDate returns the quota day for a given instant.
func UsageDate(t time.Time) string {
	return t.UTC().Format(UsageDateLayout)
}

// UsageLogEntry is an append-only fact, one per successful metered action.
// The row count for (user, action, usage date) is the authoritative used
// count; there is no separate mutable counter.
type UsageLogEntry struct {
	ID         uint       `gorm:"primaryKey"`
	EID        uuid.UUID  `gorm:"type:uuid;not null"`
	ActionType ActionType `gorm:"size:50;not null;index:idx_user_action_date"`
	UsageDate  string     `gorm:"size:10;not null;index:idx_user_action_date"`
	Metadata   *string    `gorm:"type:text;default:null"`
	CreatedAt  time.Time
	UserID     uint `gorm:"not null;index:idx_user_action_date"`
	User       User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (entry *UsageLogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	entry.EID = uuid.New()
	if entry.UsageDate == "" {
		entry.UsageDate = UsageDate(time.Now())
	}
	return
}

func init() {
	AllModels = append(AllModels, &UsageLogEntry{})
}
