package ledger

import (
	"context"
	"eduverse/apperrors"
	"eduverse/models"

	"gorm.io/gorm"
)

// RewardHistory lists a student's reward point entries, newest first.
func RewardHistory(ctx context.Context, db *gorm.DB, userID uint, limit, offset int) ([]models.RewardHistory, int64, error) {
	var (
		rows  []models.RewardHistory
		total int64
	)

	q := db.WithContext(ctx).Model(&models.RewardHistory{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.TransactionFailed("count reward history", err)
	}
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, apperrors.TransactionFailed("list reward history", err)
	}
	return rows, total, nil
}

// BalanceHistory lists a teacher's balance entries, newest first.
func BalanceHistory(ctx context.Context, db *gorm.DB, userID uint, limit, offset int) ([]models.BalanceHistory, int64, error) {
	var (
		rows  []models.BalanceHistory
		total int64
	)

	q := db.WithContext(ctx).Model(&models.BalanceHistory{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.TransactionFailed("count balance history", err)
	}
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, apperrors.TransactionFailed("list balance history", err)
	}
	return rows, total, nil
}
