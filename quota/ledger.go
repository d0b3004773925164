// SPDX-License-Identifier: GPL-3.0-only

package quota

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lingua-server/commons"
	"lingua-server/db"
	"lingua-server/models"

	"gorm.io/gorm"
)

// Result describes one quota decision or probe. Remaining is -1 when the
// (tier, action) pair is unlimited.
type Result struct {
	Allowed    bool
	Used       int
	DailyLimit int
	Remaining  int
}

// Ledger enforces per-UTC-day action limits by counting append-only
// UsageLogEntry rows. The check and the insert run inside one serializable
// transaction so two racing calls at remaining=1 can never both succeed.
//
// Storage failures FAIL OPEN: a paying or legitimate user is not blocked
// because of an infrastructure hiccup. Missing limit configuration FAILS
// CLOSED. These are two distinct, deliberate policies.
type Ledger struct{}

const (
	maxTxAttempts  = 8
	txRetryBackoff = 20 * time.Millisecond
)

func lookupLimit(tx *gorm.DB, tier models.Tier, action models.ActionType) (int, error) {
	limit := models.UsageLimit{}
	err := tx.Where("tier = ? AND action_type = ?", tier, action).First(&limit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown (tier, action) pairs deny rather than admit.
			return models.DisabledDailyLimit, nil
		}
		return 0, fmt.Errorf("lookup usage limit (%s, %s): %w", tier, action, err)
	}
	return limit.DailyLimit, nil
}

func countUsage(tx *gorm.DB, userID uint, action models.ActionType, day string) (int, error) {
	var count int64
	err := tx.Model(&models.UsageLogEntry{}).
		Where("user_id = ? AND action_type = ? AND usage_date = ?", userID, action, day).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count usage (%d, %s, %s): %w", userID, action, day, err)
	}
	return int(count), nil
}

func buildResult(used, dailyLimit int) Result {
	switch {
	case dailyLimit == models.UnlimitedDailyLimit:
		return Result{Allowed: true, Used: used, DailyLimit: dailyLimit, Remaining: -1}
	case dailyLimit == models.DisabledDailyLimit:
		return Result{Allowed: false, Used: used, DailyLimit: dailyLimit, Remaining: 0}
	default:
		remaining := max(dailyLimit-used, 0)
		return Result{Allowed: used < dailyLimit, Used: used, DailyLimit: dailyLimit, Remaining: remaining}
	}
}

// CheckLimit is a read-only probe: no log entry is written. On storage
// failure the ledger's fail-open policy applies.
func (Ledger) CheckLimit(userID uint, tier models.Tier, action models.ActionType) (Result, error) {
	day := models.UsageDate(time.Now())

	dailyLimit, err := lookupLimit(db.Conn, tier, action)
	if err != nil {
		commons.Logger.Warnf("Usage limit lookup failed, failing open: %v", err)
		return Result{Allowed: true, Remaining: -1, DailyLimit: models.UnlimitedDailyLimit}, nil
	}

	used, err := countUsage(db.Conn, userID, action, day)
	if err != nil {
		commons.Logger.Warnf("Usage count failed, failing open: %v", err)
		return Result{Allowed: true, Remaining: -1, DailyLimit: dailyLimit}, nil
	}

	return buildResult(used, dailyLimit), nil
}

// LogAndCheck atomically checks today's usage and, when allowed, appends
// exactly one log entry. Serialization conflicts are retried with a fresh
// transaction; once attempts are exhausted the ledger fails open without
// writing an entry.
func (Ledger) LogAndCheck(userID uint, tier models.Tier, action models.ActionType, metadata *string) (Result, error) {
	day := models.UsageDate(time.Now())

	var res Result
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		lastErr = db.Conn.Transaction(func(tx *gorm.DB) error {
			dailyLimit, err := lookupLimit(tx, tier, action)
			if err != nil {
				return err
			}

			used, err := countUsage(tx, userID, action, day)
			if err != nil {
				return err
			}

			res = buildResult(used, dailyLimit)
			if !res.Allowed {
				return nil
			}

			entry := models.UsageLogEntry{
				UserID:     userID,
				ActionType: action,
				UsageDate:  day,
				Metadata:   metadata,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("append usage entry (%d, %s, %s): %w", userID, action, day, err)
			}

			res = buildResult(used+1, dailyLimit)
			return nil
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})

		if lastErr == nil {
			return res, nil
		}
		if !retryableTxError(lastErr) {
			break
		}
		time.Sleep(time.Duration(attempt) * txRetryBackoff)
	}

	commons.Logger.Warnf("Quota transaction failed for (%d, %s), failing open: %v", userID, action, lastErr)
	return Result{Allowed: true, Remaining: -1, DailyLimit: models.UnlimitedDailyLimit}, nil
}

// Summary computes the ledger's own view of every action type for UI
// display. It reads the same tables the decisions use; errors propagate
// because nothing is being admitted or denied here.
func (Ledger) Summary(userID uint, tier models.Tier) (map[models.ActionType]Result, error) {
	day := models.UsageDate(time.Now())
	summary := make(map[models.ActionType]Result, len(models.AllActionTypes))

	for _, action := range models.AllActionTypes {
		dailyLimit, err := lookupLimit(db.Conn, tier, action)
		if err != nil {
			return nil, err
		}
		used, err := countUsage(db.Conn, userID, action, day)
		if err != nil {
			return nil, err
		}
		summary[action] = buildResult(used, dailyLimit)
	}
	return summary, nil
}

// retryableTxError reports whether a transaction failed on lock or
// serialization contention rather than a hard storage error.
func retryableTxError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock")
}
