package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
)

// MemberStore keeps members in a MongoDB collection, one document per member
type MemberStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMemberStore(db *mongo.Database) *MemberStore {
	return &MemberStore{coll: db.Collection(membersCollection), now: time.Now}
}

// EnsureIndexes creates the indexes used by list and distinct queries
func (s *MemberStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "sessionName", Value: 1}}},
		{Keys: bson.D{{Key: "sessionDate", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create member indexes: %w", err)
	}
	return nil
}

func (s *MemberStore) Create(ctx context.Context, member *entities.Member) error {
	now := s.now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	if member.UpdatedAt.IsZero() {
		member.UpdatedAt = now
	}
	if _, err := s.coll.InsertOne(ctx, toMemberDocument(member)); err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func (s *MemberStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Member, error) {
	var doc memberDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity()
}

func (s *MemberStore) List(ctx context.Context, filter entities.MemberFilter) ([]*entities.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, listFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []memberDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]*entities.Member, 0, len(docs))
	for _, doc := range docs {
		member, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, member)
	}
	return items, nil
}

func (s *MemberStore) Update(ctx context.Context, id uuid.UUID, patch entities.MemberPatch) (*entities.Member, error) {
	if patch.IsEmpty() {
		return s.GetByID(ctx, id)
	}
	set := setDocument(patch, s.now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc memberDocument
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity()
}

func (s *MemberStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (s *MemberStore) DistinctSessionNames(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "sessionName", bson.M{})
	if err != nil {
		return nil, err
	}
	return distinctStrings(values), nil
}

func (s *MemberStore) DistinctSessionDates(ctx context.Context) ([]time.Time, error) {
	values, err := s.coll.Distinct(ctx, "sessionDate", bson.M{})
	if err != nil {
		return nil, err
	}
	return distinctTimes(values), nil
}
