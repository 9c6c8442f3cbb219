package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"auctionhouse/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	UpsertByExternalID(ctx context.Context, externalID, name string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// UpsertByExternalID creates the user for externalID or refreshes its name.
// The stored row is re-read because on conflict the insert does not report
// the existing primary key on every dialect.
func (r *userRepository) UpsertByExternalID(ctx context.Context, externalID, name string) (*model.User, error) {
	user := &model.User{ExternalID: externalID, Name: name}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(user).Error; err != nil {
		return nil, err
	}

	var stored model.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
