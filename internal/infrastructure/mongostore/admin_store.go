package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
)

type AdminStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAdminStore(db *mongo.Database) *AdminStore {
	return &AdminStore{coll: db.Collection(adminsCollection), now: time.Now}
}

// EnsureIndexes makes email the unique admin identifier
func (s *AdminStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create admin indexes: %w", err)
	}
	return nil
}

func (s *AdminStore) Create(ctx context.Context, admin *entities.Admin) error {
	now := s.now().UTC()
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, adminDocument{
		ID:           admin.ID.String(),
		Email:        admin.Email,
		PasswordHash: admin.PasswordHash,
		CreatedAt:    admin.CreatedAt,
		UpdatedAt:    admin.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return nil
}

func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*entities.Admin, error) {
	var doc adminDocument
	err := s.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity()
}
