package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User covers both credential accounts (password hash set) and OAuth accounts
// (googleId or facebookId set, password empty).
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	Password    string             `bson:"password,omitempty" json:"-"`
	GoogleID    string             `bson:"googleId,omitempty" json:"googleId,omitempty"`
	FacebookID  string             `bson:"facebookId,omitempty" json:"facebookId,omitempty"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	GivenName   string             `bson:"givenName" json:"givenName"`
	FamilyName  string             `bson:"familyName" json:"familyName"`
	Image       string             `bson:"image" json:"image,omitempty"`
	Role        string             `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"-"`
}
