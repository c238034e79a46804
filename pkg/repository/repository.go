// Package repository provides a generic gorm-backed store.
package repository

import (
	"context"

	"github.com/smallbiznis/returnly/pkg/db/option"
	"gorm.io/gorm"
)

// Repository exposes typed persistence operations for a single model.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	CreateAll(ctx context.Context, records []*T) error
	Find(ctx context.Context, filter *T, opts ...option.Option) ([]*T, error)
	FindOne(ctx context.Context, filter *T) (*T, error)
	Save(ctx context.Context, record *T) error
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore constructs a Repository bound to the given connection.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) CreateAll(ctx context.Context, records []*T) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(records).Error
}

func (s *store[T]) Find(ctx context.Context, filter *T, opts ...option.Option) ([]*T, error) {
	query := s.db.WithContext(ctx).Model(new(T))
	if filter != nil {
		query = query.Where(filter)
	}
	for _, opt := range opts {
		query = opt(query)
	}
	var records []*T
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store[T]) FindOne(ctx context.Context, filter *T) (*T, error) {
	var record T
	query := s.db.WithContext(ctx).Model(new(T))
	if filter != nil {
		query = query.Where(filter)
	}
	if err := query.First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Save(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Save(record).Error
}
