package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/rexa/internal/domain"
)

// ErrNotFound is wrapped by Get* methods when no row matches.
var ErrNotFound = errors.New("not found")

type RoutingRepo interface {
	Create(ctx context.Context, r *domain.RoutingRecord) error
	GetByID(ctx context.Context, id string) (*domain.RoutingRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.RoutingRecord, error)
	CountByTopic(ctx context.Context) ([]domain.TopicCount, error)
}
