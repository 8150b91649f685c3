package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/weroambags/weroambags-backend-go/models"
)

// BlogRepo persists blogs and their content children.
type BlogRepo struct {
	db *mongo.Database
}

func NewBlogRepo(db *mongo.Database) *BlogRepo {
	return &BlogRepo{db: db}
}

func (r *BlogRepo) blogs() *mongo.Collection    { return r.db.Collection("blogs") }
func (r *BlogRepo) contents() *mongo.Collection { return r.db.Collection("contents") }

func (r *BlogRepo) Count(ctx context.Context) (int64, error) {
	return r.blogs().CountDocuments(ctx, bson.M{})
}

func (r *BlogRepo) List(ctx context.Context, skip, limit int64) ([]models.Blog, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.blogs().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *BlogRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	if err := r.blogs().FindOne(ctx, bson.M{"_id": id}).Decode(&blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepo) Contents(ctx context.Context) ([]models.Content, error) {
	cursor, err := r.contents().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contents []models.Content
	if err := cursor.All(ctx, &contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// CreateWithContents inserts the blog and its content blocks in one
// transaction so the caller sees the create as atomic.
func (r *BlogRepo) CreateWithContents(ctx context.Context, blog *models.Blog, inputs []models.ContentInput) (*models.Blog, error) {
	now := time.Now()
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	docs := make([]interface{}, 0, len(inputs))
	for _, in := range inputs {
		content := models.Content{
			ID:          primitive.NewObjectID(),
			BlogID:      blog.ID,
			Title:       in.Title,
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		blog.Contents = append(blog.Contents, content.ID)
		docs = append(docs, content)
	}

	err := withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.blogs().InsertOne(sc, blog); err != nil {
			return err
		}
		if len(docs) > 0 {
			if _, err := r.contents().InsertMany(sc, docs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blog, nil
}

// Update replaces the mutable blog fields. When inputs is non-nil the content
// children are replaced wholesale inside the same transaction.
func (r *BlogRepo) Update(ctx context.Context, blog *models.Blog, inputs []models.ContentInput) (*models.Blog, error) {
	now := time.Now()
	blog.UpdatedAt = now

	err := withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if inputs != nil {
			if _, err := r.contents().DeleteMany(sc, bson.M{"blogId": blog.ID}); err != nil {
				return err
			}
			blog.Contents = nil
			docs := make([]interface{}, 0, len(inputs))
			for _, in := range inputs {
				content := models.Content{
					ID:          primitive.NewObjectID(),
					BlogID:      blog.ID,
					Title:       in.Title,
					Description: in.Description,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				blog.Contents = append(blog.Contents, content.ID)
				docs = append(docs, content)
			}
			if len(docs) > 0 {
				if _, err := r.contents().InsertMany(sc, docs); err != nil {
					return err
				}
			}
		}

		update := bson.M{"$set": bson.M{
			"title":     blog.Title,
			"cover":     blog.Cover,
			"assetId":   blog.AssetID,
			"publicId":  blog.PublicID,
			"secureUrl": blog.SecureURL,
			"contents":  blog.Contents,
			"updatedAt": blog.UpdatedAt,
		}}
		_, err := r.blogs().UpdateOne(sc, bson.M{"_id": blog.ID}, update)
		return err
	})
	if err != nil {
		return nil, err
	}
	return blog, nil
}

// DeleteCascade removes the blog and all its content children.
func (r *BlogRepo) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	return withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.blogs().DeleteOne(sc, bson.M{"_id": id}); err != nil {
			return err
		}
		_, err := r.contents().DeleteMany(sc, bson.M{"blogId": id})
		return err
	})
}

// DeleteContent removes one content block and unlinks it from its blog.
func (r *BlogRepo) DeleteContent(ctx context.Context, id primitive.ObjectID) error {
	var content models.Content
	if err := r.contents().FindOne(ctx, bson.M{"_id": id}).Decode(&content); err != nil {
		return err
	}

	return withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.contents().DeleteOne(sc, bson.M{"_id": id}); err != nil {
			return err
		}
		_, err := r.blogs().UpdateOne(sc,
			bson.M{"_id": content.BlogID},
			bson.M{"$pull": bson.M{"contents": id}})
		return err
	})
}
