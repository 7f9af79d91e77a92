package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arta_auction_backend/internal/common"
	"arta_auction_backend/internal/config"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Repository defines the interface for contact message storage.
type Repository interface {
	Create(ctx context.Context, contact *Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	List(ctx context.Context, onlyOpen bool, page, pageSize int) ([]Contact, *common.Pagination, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountOpen(ctx context.Context) (int64, error)
}

var errMessageNotFound = common.ErrNotFound.WithDetails("Contact message not found.")

// NewRepository picks the store named by CONTACT_STORE.
func NewRepository(cfg *config.Config, db *gorm.DB, mongoDB *mongo.Database) (Repository, error) {
	switch cfg.ContactStore {
	case config.ContactStoreMongo:
		if mongoDB == nil {
			return nil, fmt.Errorf("contact store %q needs a MongoDB connection", cfg.ContactStore)
		}
		return NewMongoRepository(mongoDB, cfg.MongoContactCollection), nil
	default:
		return NewGORMRepository(db), nil
	}
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM contact repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, contact *Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	var contact Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errMessageNotFound
		}
		return nil, fmt.Errorf("failed to find contact message %s: %w", id, err)
	}
	return &contact, nil
}

// List returns messages newest first.
func (r *gormRepository) List(ctx context.Context, onlyOpen bool, page, pageSize int) ([]Contact, *common.Pagination, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&Contact{})
		if onlyOpen {
			q = q.Where("resolved = ?", false)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting contact messages failed: %w", err)
	}
	pagination := common.NewPagination(total, page, pageSize)

	var contacts []Contact
	err := scoped().Order("created_at DESC").
		Limit(pagination.PageSize).
		Offset(common.Offset(pagination.CurrentPage, pagination.PageSize)).
		Find(&contacts).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching contact messages failed: %w", err)
	}
	return contacts, pagination, nil
}

func (r *gormRepository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&Contact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"resolved": true, "resolved_at": at})
	if result.Error != nil {
		return fmt.Errorf("failed to resolve contact message %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errMessageNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Contact{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete contact message %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errMessageNotFound
	}
	return nil
}

func (r *gormRepository) CountOpen(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Contact{}).Where("resolved = ?", false).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("counting open contact messages failed: %w", err)
	}
	return total, nil
}
