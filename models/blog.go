package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Cover     string               `bson:"cover" json:"cover"`
	AssetID   string               `bson:"assetId" json:"assetId"`
	PublicID  string               `bson:"publicId" json:"publicId"`
	SecureURL string               `bson:"secureUrl" json:"secureUrl"`
	Contents  []primitive.ObjectID `bson:"contents" json:"contents"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"-"`
}

// Content is one block of a blog post, owned by exactly one blog.
type Content struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlogID      primitive.ObjectID `bson:"blogId" json:"blogId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"-"`
}

// ContentInput is how content blocks arrive in the multipart body: a JSON
// text field holding an array of these.
type ContentInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
