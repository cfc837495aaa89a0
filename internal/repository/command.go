package repository

import (
	"context"

	"gorm.io/gorm"

	"buildnchill-server/internal/model"
)

// CommandRepository enqueues commands for the game-server plugin. The
// plugin consumes rows out of band; this side only inserts and lists.
type CommandRepository interface {
	Enqueue(ctx context.Context, cmd *model.PendingCommand) error
	ListPending(ctx context.Context) ([]model.PendingCommand, error)
}

type commandRepoImpl struct {
	db *gorm.DB
}

func NewCommandRepository(db *gorm.DB) CommandRepository {
	return &commandRepoImpl{db: db}
}

func (r *commandRepoImpl) Enqueue(ctx context.Context, cmd *model.PendingCommand) error {
	if cmd.Status == "" {
		cmd.Status = "pending"
	}
	return r.db.WithContext(ctx).Create(cmd).Error
}

func (r *commandRepoImpl) ListPending(ctx context.Context) ([]model.PendingCommand, error) {
	var cmds []model.PendingCommand
	err := r.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at ASC, id ASC").
		Find(&cmds).Error
	return cmds, err
}
