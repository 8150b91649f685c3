package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageAsset is a remotely hosted image. PublicID is the stable handle the
// asset host uses for later deletion.
type ImageAsset struct {
	AssetID   string `bson:"assetId" json:"assetId"`
	PublicID  string `bson:"publicId" json:"publicId"`
	SecureURL string `bson:"secureUrl" json:"secureUrl"`
}

// Bag fields mirror the storefront payload; numeric-looking values are kept
// as strings because that is what the clients send.
type Bag struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	OldPrice       string             `bson:"oldPrice" json:"oldPrice"`
	NewPrice       string             `bson:"newPrice" json:"newPrice"`
	Rating         string             `bson:"rating" json:"rating"`
	Available      string             `bson:"available" json:"available"`
	Sold           string             `bson:"sold" json:"sold"`
	Quantity       string             `bson:"quantity" json:"quantity"`
	ReviewsCount   string             `bson:"reviewsCount" json:"reviewsCount"`
	Description    string             `bson:"description" json:"description"`
	Specifications string             `bson:"specifications" json:"specifications"`
	Thumbnail      []ImageAsset       `bson:"thumbnail" json:"thumbnail"`
	Category       primitive.ObjectID `bson:"category,omitempty" json:"category"`
	SubCategory    primitive.ObjectID `bson:"subCategory,omitempty" json:"subCategory"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"-"`
}

type Category struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Bags          []primitive.ObjectID `bson:"bags" json:"bags"`
	SubCategories primitive.ObjectID   `bson:"subCategories,omitempty" json:"subCategories"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"-"`
}

// SubCategory names are a list: one bag can sit under several shelf labels.
type SubCategory struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      []string             `bson:"name" json:"name"`
	Bags      []primitive.ObjectID `bson:"bags" json:"bags"`
	Category  primitive.ObjectID   `bson:"category,omitempty" json:"category"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"-"`
}

// AllowedBagKeys is the exact field set a create-bag request must carry:
// nothing missing, nothing extra.
var AllowedBagKeys = []string{
	"title",
	"oldPrice",
	"rating",
	"newPrice",
	"available",
	"sold",
	"category",
	"subCategory",
	"quantity",
	"reviewsCount",
	"description",
	"specifications",
}
