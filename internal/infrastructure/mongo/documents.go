package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// FormFieldDocument is the embedded schema of one form field.
type FormFieldDocument struct {
	ID          string `bson:"id"`
	Label       string `bson:"label"`
	Type        string `bson:"type"`
	Required    bool   `bson:"required"`
	Placeholder string `bson:"placeholder,omitempty"`
}

// FormDocument is the MongoDB schema of a feedback form.
type FormDocument struct {
	ID          primitive.ObjectID  `bson:"_id"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	CreatedBy   string              `bson:"createdBy"`
	CreatedAt   time.Time           `bson:"createdAt"`
	IsActive    bool                `bson:"isActive"`
	Fields      []FormFieldDocument `bson:"fields"`
}

// FeedbackDocument is the MongoDB schema of a submission. Responses keep
// their JSON scalar kind (string or double).
type FeedbackDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	FormID    string             `bson:"formId"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Message   string             `bson:"message"`
	Rating    int                `bson:"rating"`
	CreatedAt time.Time          `bson:"createdAt"`
	Responses bson.M             `bson:"responses"`
}

// UserDocument is the MongoDB schema of a dashboard account.
type UserDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	Role         string             `bson:"role"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func mapFormDocument(doc FormDocument) domain.FeedbackForm {
	fields := make([]domain.FormField, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		fields = append(fields, domain.FormField{
			ID:          f.ID,
			Label:       f.Label,
			Type:        domain.FieldType(f.Type),
			Required:    f.Required,
			Placeholder: f.Placeholder,
		})
	}
	return domain.FeedbackForm{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		CreatedBy:   doc.CreatedBy,
		CreatedAt:   doc.CreatedAt,
		IsActive:    doc.IsActive,
		Fields:      fields,
	}
}

func mapFormFieldsToDocuments(fields []domain.FormField) []FormFieldDocument {
	docs := make([]FormFieldDocument, 0, len(fields))
	for _, f := range fields {
		docs = append(docs, FormFieldDocument{
			ID:          f.ID,
			Label:       f.Label,
			Type:        f.Type.String(),
			Required:    f.Required,
			Placeholder: f.Placeholder,
		})
	}
	return docs
}

func mapFeedbackDocument(doc FeedbackDocument) (domain.Feedback, error) {
	responses := make(domain.Responses, len(doc.Responses))
	for id, raw := range doc.Responses {
		value, err := domain.ResponseValueOf(raw)
		if err != nil {
			return domain.Feedback{}, err
		}
		responses[id] = value
	}
	return domain.Feedback{
		ID:        doc.ID.Hex(),
		FormID:    doc.FormID,
		Name:      doc.Name,
		Email:     doc.Email,
		Message:   doc.Message,
		Rating:    doc.Rating,
		CreatedAt: doc.CreatedAt,
		Responses: responses,
	}, nil
}

func mapDomainFeedbackToDocument(fb *domain.Feedback) FeedbackDocument {
	responses := make(bson.M, len(fb.Responses))
	for id, value := range fb.Responses {
		responses[id] = value.Interface()
	}
	return FeedbackDocument{
		FormID:    fb.FormID,
		Name:      fb.Name,
		Email:     fb.Email,
		Message:   fb.Message,
		Rating:    fb.Rating,
		CreatedAt: fb.CreatedAt,
		Responses: responses,
	}
}

func mapUserDocument(doc UserDocument) domain.User {
	return domain.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		Name:         doc.Name,
		Role:         doc.Role,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}
}
