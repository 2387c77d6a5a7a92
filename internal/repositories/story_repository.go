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

// StoryRepository defines the interface for story document operations. Every
// read filters on expires_at > now: the 24h TTL is a hard boundary and must
// hold even before Mongo's TTL monitor physically removes the document.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	GetStoryByAuthor(ctx context.Context, authorID uint) (*models.Story, error)
	GetStoriesByAuthors(ctx context.Context, authorIDs []uint) ([]models.Story, error)
	AddViewer(ctx context.Context, id string, viewerID uint) (*models.Story, error)
	DeleteStory(ctx context.Context, id string) error
	DeleteStoriesByAuthor(ctx context.Context, authorID uint) error
	FindExpired(ctx context.Context) ([]models.Story, error)
	DeleteExpired(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// MongoStoryRepository implements StoryRepository for MongoDB
type MongoStoryRepository struct {
	collection *mongo.Collection
}

func NewMongoStoryRepository(db *mongo.Database) *MongoStoryRepository {
	return &MongoStoryRepository{collection: db.Collection("stories")}
}

func activeFilter(extra bson.M) bson.M {
	filter := bson.M{"expires_at": bson.M{"$gt": time.Now()}}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

func (r *MongoStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	if story.Viewers == nil {
		story.Viewers = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, story)
	return err
}

func (r *MongoStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid story ID format: %w", ErrNotFound)
	}

	var story models.Story
	err = r.collection.FindOne(ctx, activeFilter(bson.M{"_id": objID})).Decode(&story)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

func (r *MongoStoryRepository) GetStoryByAuthor(ctx context.Context, authorID uint) (*models.Story, error) {
	var story models.Story
	err := r.collection.FindOne(ctx, activeFilter(bson.M{"author_id": authorID})).Decode(&story)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

func (r *MongoStoryRepository) GetStoriesByAuthors(ctx context.Context, authorIDs []uint) ([]models.Story, error) {
	stories := []models.Story{}
	if len(authorIDs) == 0 {
		return stories, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, activeFilter(bson.M{"author_id": bson.M{"$in": authorIDs}}), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// AddViewer records the first view by viewerID and returns the updated story.
// $addToSet keeps the viewer list distinct and preserves first-view order; a
// repeat view changes nothing.
func (r *MongoStoryRepository) AddViewer(ctx context.Context, id string, viewerID uint) (*models.Story, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid story ID format: %w", ErrNotFound)
	}

	var updated models.Story
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.collection.FindOneAndUpdate(ctx,
		activeFilter(bson.M{"_id": objID}),
		bson.M{"$addToSet": bson.M{"viewers": viewerID}},
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

func (r *MongoStoryRepository) DeleteStory(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid story ID format: %w", ErrNotFound)
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

// DeleteStoriesByAuthor removes the author's story documents. Used by
// replace-on-create; deleting zero documents is a normal outcome.
func (r *MongoStoryRepository) DeleteStoriesByAuthor(ctx context.Context, authorID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"author_id": authorID})
	return err
}

// FindExpired returns stories past their TTL that the Mongo monitor has not
// removed yet, so the sweeper can clear author back-references.
func (r *MongoStoryRepository) FindExpired(ctx context.Context) ([]models.Story, error) {
	stories := []models.Story{}
	cursor, err := r.collection.Find(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *MongoStoryRepository) DeleteExpired(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
