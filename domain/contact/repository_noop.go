package contact

import (
	"context"

	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type noopMessageRepository struct {
	logger *log.Logger
}

// NewNoopMessageRepository is used when no store is configured. Nothing is
// persisted; each insert returns a fresh ObjectID hex so callers still get an id.
func NewNoopMessageRepository(logger *log.Logger) MessageRepository {
	return &noopMessageRepository{logger: logger}
}

func (r *noopMessageRepository) InsertMessage(ctx context.Context, msg *models.ContactMessage) (string, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, r.logger)
	logger.Warn("No message store configured; contact message not persisted", "ip", msg.IP)

	msg.ID = bson.NewObjectID().Hex()
	return msg.ID, nil
}

func (r *noopMessageRepository) Ping(context.Context) error {
	return nil
}
