package repository

import (
	"context"

	"github.com/smallbiznis/returnly/internal/audit/domain"
	"gorm.io/gorm"
)

type auditRepository struct{}

func Provide() domain.Repository {
	return &auditRepository{}
}

func (r *auditRepository) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	return db.WithContext(ctx).Create(entry).Error
}
