package contact

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=contact

import (
	"context"

	"github.com/akeren/portfolio-api/internal/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	// InsertMessage persists msg and returns the id the store assigned to it.
	InsertMessage(ctx context.Context, msg *models.ContactMessage) (string, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

type sqlMessageRepository struct {
	db *gorm.DB
}

// NewSQLMessageRepository stores messages in the contact_messages table. Ids are
// UUIDs assigned by the model's BeforeCreate hook.
func NewSQLMessageRepository(db *gorm.DB) MessageRepository {
	return &sqlMessageRepository{db: db}
}

func (r *sqlMessageRepository) InsertMessage(ctx context.Context, msg *models.ContactMessage) (string, error) {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return "", NewPersistenceError(err)
	}

	return msg.ID, nil
}

func (r *sqlMessageRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
