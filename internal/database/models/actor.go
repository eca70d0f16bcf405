package models

import (
	"context"
	"fmt"
	"time"

	"github.com/linkdao/reputation/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ActorModel handles database operations for actor identities.
type ActorModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewActor creates a new actor model.
func NewActor(db *bun.DB, logger *zap.Logger) *ActorModel {
	return &ActorModel{
		db:     db,
		logger: logger.Named("db_actor"),
	}
}

// Ensure registers an actor key if it is not already known. The db argument
// accepts a transaction so the actor commits with the dependent write.
func (r *ActorModel) Ensure(ctx context.Context, db bun.IDB, key string) error {
	actor := &types.Actor{
		Key:       key,
		CreatedAt: time.Now(),
	}

	_, err := db.NewInsert().
		Model(actor).
		On("CONFLICT (key) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure actor: %w", err)
	}

	return nil
}

// Exists reports whether an actor key is registered.
func (r *ActorModel) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*types.Actor)(nil)).
		Where("key = ?", key).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check actor existence: %w", err)
	}

	return exists, nil
}
