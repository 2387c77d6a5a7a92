package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentRepository defines the interface for post/loop document operations.
// Likes and comments are embedded in the content document, so membership
// toggles and comment appends are single-document updates ($addToSet, $pull,
// $push); two different actors mutating the same item never clobber each
// other.
type ContentRepository interface {
	Kind() string
	CreateContent(ctx context.Context, content *models.Content) error
	GetContentByID(ctx context.Context, id string) (*models.Content, error)
	GetContentsByIDs(ctx context.Context, ids []string) ([]models.Content, error)
	GetAllContents(ctx context.Context, skip, limit int64) ([]models.Content, error)
	GetContentsByAuthor(ctx context.Context, authorID uint) ([]models.Content, error)
	ToggleLike(ctx context.Context, id string, userID uint) (liked bool, content *models.Content, err error)
	AddComment(ctx context.Context, id string, comment models.Comment) (*models.Content, error)
	DeleteContent(ctx context.Context, id string) error
}

// MongoContentRepository implements ContentRepository for one MongoDB
// collection, "posts" or "loops"; the document shape is identical.
type MongoContentRepository struct {
	collection *mongo.Collection
	kind       string
}

// NewMongoPostRepository creates a ContentRepository over the posts collection.
func NewMongoPostRepository(db *mongo.Database) *MongoContentRepository {
	return &MongoContentRepository{collection: db.Collection("posts"), kind: models.ContentKindPost}
}

// NewMongoLoopRepository creates a ContentRepository over the loops collection.
func NewMongoLoopRepository(db *mongo.Database) *MongoContentRepository {
	return &MongoContentRepository{collection: db.Collection("loops"), kind: models.ContentKindLoop}
}

// Kind reports which content kind this repository serves.
func (r *MongoContentRepository) Kind() string {
	return r.kind
}

func (r *MongoContentRepository) CreateContent(ctx context.Context, content *models.Content) error {
	content.ID = primitive.NewObjectID()
	content.CreatedAt = time.Now()
	content.UpdatedAt = content.CreatedAt
	if content.Likes == nil {
		content.Likes = []uint{}
	}
	if content.Comments == nil {
		content.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, content)
	return err
}

func (r *MongoContentRepository) GetContentByID(ctx context.Context, id string) (*models.Content, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid %s ID format: %w", r.kind, ErrNotFound)
	}

	var content models.Content
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&content)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *MongoContentRepository) GetContentsByIDs(ctx context.Context, ids []string) ([]models.Content, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	contents := []models.Content{}
	if len(objIDs) == 0 {
		return contents, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &contents); err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *MongoContentRepository) GetAllContents(ctx context.Context, skip, limit int64) ([]models.Content, error) {
	var contents []models.Content
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &contents); err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *MongoContentRepository) GetContentsByAuthor(ctx context.Context, authorID uint) ([]models.Content, error) {
	var contents []models.Content
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// ToggleLike flips userID's membership in the liker set and returns the
// resulting state plus the updated document. The membership check decides the
// direction; the write itself is $addToSet/$pull, so concurrent toggles by
// different users are both retained. A same-user race is last-write-wins.
func (r *MongoContentRepository) ToggleLike(ctx context.Context, id string, userID uint) (bool, *models.Content, error) {
	current, err := r.GetContentByID(ctx, id)
	if err != nil {
		return false, nil, err
	}

	var update bson.M
	liked := !current.HasLike(userID)
	if liked {
		update = bson.M{"$addToSet": bson.M{"likes": userID}}
	} else {
		update = bson.M{"$pull": bson.M{"likes": userID}}
	}

	var updated models.Content
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": current.ID}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil, ErrNotFound
		}
		return false, nil, err
	}
	return liked, &updated, nil
}

// AddComment appends to the content's comment list and returns the updated
// document. Comments are always additive; there is no toggle.
func (r *MongoContentRepository) AddComment(ctx context.Context, id string, comment models.Comment) (*models.Content, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid %s ID format: %w", r.kind, ErrNotFound)
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	var updated models.Content
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"comments": comment}},
		opts,
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoContentRepository) DeleteContent(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid %s ID format: %w", r.kind, ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
