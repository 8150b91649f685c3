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

type ContactRepo struct {
	db *mongo.Database
}

func NewContactRepo(db *mongo.Database) *ContactRepo {
	return &ContactRepo{db: db}
}

func (r *ContactRepo) contacts() *mongo.Collection { return r.db.Collection("contacts") }

func (r *ContactRepo) Count(ctx context.Context) (int64, error) {
	return r.contacts().CountDocuments(ctx, bson.M{})
}

func (r *ContactRepo) List(ctx context.Context, skip, limit int64) ([]models.ContactUs, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.contacts().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []models.ContactUs
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ContactUs, error) {
	var contact models.ContactUs
	if err := r.contacts().FindOne(ctx, bson.M{"_id": id}).Decode(&contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// ExistsByEmailOrPhone reports whether a submission with either unique field
// already exists.
func (r *ContactRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	count, err := r.contacts().CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phoneNo": phone},
	}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ContactRepo) Insert(ctx context.Context, contact *models.ContactUs) (*models.ContactUs, error) {
	now := time.Now()
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	if _, err := r.contacts().InsertOne(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *ContactRepo) Update(ctx context.Context, id primitive.ObjectID, contact *models.ContactUs) (*models.ContactUs, error) {
	update := bson.M{"$set": bson.M{
		"firstName": contact.FirstName,
		"lastName":  contact.LastName,
		"email":     contact.Email,
		"phoneNo":   contact.PhoneNo,
		"message":   contact.Message,
		"updatedAt": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.ContactUs
	if err := r.contacts().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.contacts().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
