package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// FormRepository stores feedback forms in MongoDB.
type FormRepository struct {
	collection *mongo.Collection
}

func NewFormRepository(db *mongo.Database, collectionName string) *FormRepository {
	return &FormRepository{collection: db.Collection(collectionName)}
}

// Find returns every form, newest first.
func (r *FormRepository) Find(ctx context.Context) ([]domain.FeedbackForm, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := make([]domain.FeedbackForm, 0)
	for cursor.Next(ctx) {
		var doc FormDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		forms = append(forms, mapFormDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return forms, nil
}

// FindByID resolves a form. Malformed ids are reported as not found.
func (r *FormRepository) FindByID(ctx context.Context, id string) (*domain.FeedbackForm, error) {
	objectID, err := parseObjectID(id, domain.ErrFormNotFound)
	if err != nil {
		return nil, err
	}
	var doc FormDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}
	form := mapFormDocument(doc)
	return &form, nil
}

func (r *FormRepository) Create(ctx context.Context, form *domain.FeedbackForm) error {
	if form == nil {
		return errors.New("form payload is nil")
	}
	doc := FormDocument{
		ID:          primitive.NewObjectID(),
		Title:       form.Title,
		Description: form.Description,
		CreatedBy:   form.CreatedBy,
		CreatedAt:   form.CreatedAt,
		IsActive:    form.IsActive,
		Fields:      mapFormFieldsToDocuments(form.Fields),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	form.ID = doc.ID.Hex()
	return nil
}

// Update rewrites the mutable part of a form. createdBy and createdAt are
// never part of the $set.
func (r *FormRepository) Update(ctx context.Context, form *domain.FeedbackForm) error {
	if form == nil {
		return errors.New("form payload is nil")
	}
	objectID, err := parseObjectID(form.ID, domain.ErrFormNotFound)
	if err != nil {
		return err
	}
	update := bson.M{
		"title":       form.Title,
		"description": form.Description,
		"isActive":    form.IsActive,
		"fields":      mapFormFieldsToDocuments(form.Fields),
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}

func (r *FormRepository) Delete(ctx context.Context, id string) error {
	objectID, err := parseObjectID(id, domain.ErrFormNotFound)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}

func parseObjectID(id string, notFound error) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return objectID, nil
}
