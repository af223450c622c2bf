package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names the collections the repositories use.
type Collections struct {
	Forms     string
	Feedbacks string
	Users     string
}

// EnsureIndexes creates the indexes the queries rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, names Collections) error {
	feedbackIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "formId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := db.Collection(names.Feedbacks).Indexes().CreateMany(ctx, feedbackIndexes); err != nil {
		return fmt.Errorf("create %s indexes: %w", names.Feedbacks, err)
	}

	formIndex := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	if _, err := db.Collection(names.Forms).Indexes().CreateOne(ctx, formIndex); err != nil {
		return fmt.Errorf("create %s indexes: %w", names.Forms, err)
	}

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(names.Users).Indexes().CreateOne(ctx, userIndex); err != nil {
		return fmt.Errorf("create %s indexes: %w", names.Users, err)
	}
	return nil
}
