// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

var AllModels []any

type User struct {
	ID               uint   `gorm:"primaryKey"`
	AccountID        string `gorm:"size:64;not null;uniqueIndex"`
	Email            string `gorm:"not null;uniqueIndex"`
	Password         string `gorm:"not null"`
	NativeLanguage   string `gorm:"size:10;not null;default:'en'"`
	LearningLanguage string `gorm:"size:10;not null;default:'es'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func init() {
	AllModels = append(AllModels, &User{})
}
