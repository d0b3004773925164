// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"fmt"

	"lingua-server/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultUsageLimits is the seeded quota configuration. FREE limits gate the
// metered features per UTC day; PREMIUM is unlimited across the board. Chat
// is not available on the free plan at all.
var DefaultUsageLimits = []models.UsageLimit{
	{Tier: models.FreeTier, ActionType: models.ActionTranslation, DailyLimit: 10},
	{Tier: models.FreeTier, ActionType: models.ActionCEFRAnalysis, DailyLimit: 5},
	{Tier: models.FreeTier, ActionType: models.ActionVerbAnalysis, DailyLimit: 5},
	{Tier: models.FreeTier, ActionType: models.ActionVerbConjugation, DailyLimit: 5},
	{Tier: models.FreeTier, ActionType: models.ActionLanguageDetection, DailyLimit: 10},
	{Tier: models.FreeTier, ActionType: models.ActionChatMessage, DailyLimit: models.DisabledDailyLimit},
	{Tier: models.PremiumTier, ActionType: models.ActionTranslation, DailyLimit: models.UnlimitedDailyLimit},
	{Tier: models.PremiumTier, ActionType: models.ActionCEFRAnalysis, DailyLimit: models.UnlimitedDailyLimit},
	{Tier: models.PremiumTier, ActionType: models.ActionVerbAnalysis, DailyLimit: models.UnlimitedDailyLimit},
	{Tier: models.PremiumTier, ActionType: models.ActionVerbConjugation, DailyLimit: models.UnlimitedDailyLimit},
	{Tier: models.PremiumTier, ActionType: models.ActionLanguageDetection, DailyLimit: models.UnlimitedDailyLimit},
	{Tier: models.PremiumTier, ActionType: models.ActionChatMessage, DailyLimit: models.UnlimitedDailyLimit},
}

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "001_seed_usage_limits",
			Migrate: func(tx *gorm.DB) error {
				for _, limit := range DefaultUsageLimits {
					if err := tx.Clauses(clause.OnConflict{
						Columns:   []clause.Column{{Name: "tier"}, {Name: "action_type"}},
						DoNothing: true,
					}).Create(&models.UsageLimit{
						Tier:       limit.Tier,
						ActionType: limit.ActionType,
						DailyLimit: limit.DailyLimit,
					}).Error; err != nil {
						return fmt.Errorf("seed usage limit (%s, %s): %w", limit.Tier, limit.ActionType, err)
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Where("1 = 1").Delete(&models.UsageLimit{}).Error
			},
		},
	}
}

// Run applies versioned migrations after AutoMigrate has created the schema.
func Run(conn *gorm.DB) error {
	m := gormigrate.New(conn, gormigrate.DefaultOptions, List())
	return m.Migrate()
}
