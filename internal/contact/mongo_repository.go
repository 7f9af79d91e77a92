package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arta_auction_backend/internal/common"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// contactDocument is the stored shape; ids are kept as uuid strings.
type contactDocument struct {
	ID         string     `bson:"_id"`
	Name       string     `bson:"name"`
	Email      string     `bson:"email"`
	Subject    string     `bson:"subject"`
	Message    string     `bson:"message"`
	Resolved   bool       `bson:"resolved"`
	CreatedAt  time.Time  `bson:"createdAt"`
	ResolvedAt *time.Time `bson:"resolvedAt,omitempty"`
}

func toDocument(c *Contact) contactDocument {
	return contactDocument{
		ID:         c.ID.String(),
		Name:       c.Name,
		Email:      c.Email,
		Subject:    c.Subject,
		Message:    c.Message,
		Resolved:   c.Resolved,
		CreatedAt:  c.CreatedAt,
		ResolvedAt: c.ResolvedAt,
	}
}

func (d *contactDocument) toContact() (Contact, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Contact{}, fmt.Errorf("contact document has invalid id %q: %w", d.ID, err)
	}
	return Contact{
		ID:         id,
		Name:       d.Name,
		Email:      d.Email,
		Subject:    d.Subject,
		Message:    d.Message,
		Resolved:   d.Resolved,
		CreatedAt:  d.CreatedAt,
		ResolvedAt: d.ResolvedAt,
	}, nil
}

type mongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository stores contact messages in the named collection.
func NewMongoRepository(db *mongo.Database, collection string) Repository {
	return &mongoRepository{coll: db.Collection(collection)}
}

func (r *mongoRepository) Create(ctx context.Context, contact *Contact) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(contact)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrConflict.WithDetails("Contact message already exists.")
		}
		return fmt.Errorf("failed to insert contact message: %w", err)
	}
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	var doc contactDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errMessageNotFound
		}
		return nil, fmt.Errorf("failed to find contact message %s: %w", id, err)
	}
	contact, err := doc.toContact()
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *mongoRepository) List(ctx context.Context, onlyOpen bool, page, pageSize int) ([]Contact, *common.Pagination, error) {
	filter := bson.M{}
	if onlyOpen {
		filter["resolved"] = false
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("counting contact messages failed: %w", err)
	}
	pagination := common.NewPagination(total, page, pageSize)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(common.Offset(pagination.CurrentPage, pagination.PageSize))).
		SetLimit(int64(pagination.PageSize))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching contact messages failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []contactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, nil, fmt.Errorf("decoding contact messages failed: %w", err)
	}
	contacts := make([]Contact, 0, len(docs))
	for i := range docs {
		c, err := docs[i].toContact()
		if err != nil {
			return nil, nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, pagination, nil
}

func (r *mongoRepository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"resolved": true, "resolvedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to resolve contact message %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return errMessageNotFound
	}
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete contact message %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return errMessageNotFound
	}
	return nil
}

func (r *mongoRepository) CountOpen(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"resolved": false})
	if err != nil {
		return 0, fmt.Errorf("counting open contact messages failed: %w", err)
	}
	return n, nil
}
