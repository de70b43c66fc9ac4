package contact

import (
	"context"
	"fmt"

	"github.com/akeren/portfolio-api/internal/models"
	"github.com/akeren/portfolio-api/pkg/constants"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type mongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository stores messages in the messages collection of db.
// The server-side ObjectID becomes the message id.
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(constants.ContactMessageCollection),
	}
}

func (r *mongoMessageRepository) InsertMessage(ctx context.Context, msg *models.ContactMessage) (string, error) {
	doc := *msg
	doc.ID = ""

	result, err := r.collection.InsertOne(ctx, &doc)
	if err != nil {
		return "", NewPersistenceError(err)
	}

	id, err := insertedIDHex(result.InsertedID)
	if err != nil {
		return "", NewPersistenceError(err)
	}

	msg.ID = id
	return id, nil
}

func (r *mongoMessageRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func insertedIDHex(insertedID any) (string, error) {
	switch id := insertedID.(type) {
	case bson.ObjectID:
		if id.IsZero() {
			return "", ErrMissingInsertedID
		}
		return id.Hex(), nil
	case string:
		if id == "" {
			return "", ErrMissingInsertedID
		}
		return id, nil
	case nil:
		return "", ErrMissingInsertedID
	default:
		return "", fmt.Errorf("%w: unexpected id type %T", ErrMissingInsertedID, insertedID)
	}
}
