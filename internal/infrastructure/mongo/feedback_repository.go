package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// FeedbackRepository stores submissions in MongoDB.
type FeedbackRepository struct {
	collection *mongo.Collection
	forms      *mongo.Collection
}

// NewFeedbackRepository needs the form collection to keep submissions from
// outliving a concurrent form delete.
func NewFeedbackRepository(db *mongo.Database, collectionName, formCollectionName string) *FeedbackRepository {
	return &FeedbackRepository{
		collection: db.Collection(collectionName),
		forms:      db.Collection(formCollectionName),
	}
}

// Create inserts the feedback and then confirms its form still exists. When
// a delete and its cascade ran in between, the insert is undone and
// ErrFormNotFound is returned.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	if feedback == nil {
		return errors.New("feedback payload is nil")
	}
	formID, err := parseObjectID(feedback.FormID, domain.ErrFormNotFound)
	if err != nil {
		return err
	}
	doc := mapDomainFeedbackToDocument(feedback)
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}

	count, err := r.forms.CountDocuments(ctx, bson.M{"_id": formID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if count == 0 {
		if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": doc.ID}); err != nil {
			return err
		}
		return domain.ErrFormNotFound
	}
	feedback.ID = doc.ID.Hex()
	return nil
}

// Find returns the feedbacks matching filter, newest first.
func (r *FeedbackRepository) Find(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, BuildFeedbackFilter(filter), findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	feedbacks := make([]domain.Feedback, 0)
	for cursor.Next(ctx) {
		var doc FeedbackDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		feedback, err := mapFeedbackDocument(doc)
		if err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, feedback)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// BuildFeedbackFilter translates a filter into a Mongo query. Search is a
// quoted, case-insensitive regex over name, email and message; the other
// criteria are exact and everything is ANDed.
func BuildFeedbackFilter(filter domain.FeedbackFilter) bson.M {
	filter = filter.Normalized()
	query := bson.M{}
	if filter.FormID != "" {
		query["formId"] = filter.FormID
	}
	if filter.Rating != 0 {
		query["rating"] = filter.Rating
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"message": pattern},
		}
	}
	return query
}

// AnalyticsPipeline groups the matching feedbacks into one summary row.
func AnalyticsPipeline(formID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: BuildFeedbackFilter(domain.FeedbackFilter{FormID: formID})}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"total":         bson.M{"$sum": 1},
			"averageRating": bson.M{"$avg": "$rating"},
			"positive": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$rating", 4}}, 1, 0,
			}}},
			"neutral": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$rating", 3}}, 1, 0,
			}}},
		}}},
	}
}

// Analytics aggregates the ratings of a form (or all forms when formID is
// empty). An empty match yields zero analytics.
func (r *FeedbackRepository) Analytics(ctx context.Context, formID string) (domain.Analytics, error) {
	cursor, err := r.collection.Aggregate(ctx, AnalyticsPipeline(formID))
	if err != nil {
		return domain.Analytics{}, err
	}
	defer cursor.Close(ctx)

	var result domain.Analytics
	if cursor.Next(ctx) {
		var agg struct {
			Total         int      `bson:"total"`
			AverageRating *float64 `bson:"averageRating"`
			Positive      int      `bson:"positive"`
			Neutral       int      `bson:"neutral"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return domain.Analytics{}, err
		}
		result.TotalFeedbacks = agg.Total
		if agg.AverageRating != nil {
			result.AverageRating = *agg.AverageRating
		}
		result.PositiveCount = agg.Positive
		result.NeutralCount = agg.Neutral
		result.NegativeCount = agg.Total - agg.Positive - agg.Neutral
	}
	if err := cursor.Err(); err != nil {
		return domain.Analytics{}, err
	}
	return result, nil
}

// CountByForm returns the number of feedbacks per form id.
func (r *FeedbackRepository) CountByForm(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$formId", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			FormID string `bson:"_id"`
			Count  int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.FormID] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *FeedbackRepository) DeleteByForm(ctx context.Context, formID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"formId": formID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
