package infrastructure

import (
	"context"

	"gorm.io/gorm"
)

// ResourceCounter soma os recursos de um usuário para o painel de perfil.
type ResourceCounter struct {
	DB *gorm.DB
}

func (r *ResourceCounter) CountTransactions(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Table("transactions").Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ResourceCounter) CountCategories(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Table("categories").Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ResourceCounter) CountRecurrences(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Table("recurrence_rules").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
