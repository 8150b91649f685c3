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

type OrderRepo struct {
	db *mongo.Database
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) orders() *mongo.Collection       { return r.db.Collection("orders") }
func (r *OrderRepo) transactions() *mongo.Collection { return r.db.Collection("transactions") }

func (r *OrderRepo) List(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.orders().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.orders().FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByReceipt looks an order up by its receipt number, the id the gateway
// echoes back as reference_id.
func (r *OrderRepo) FindByReceipt(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.orders().FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.OrderDate = now
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.orders().InsertOne(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// SetStatus advances the order state machine and records gateway handles as
// they become known.
func (r *OrderRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, gatewayID, paymentLink string) error {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if gatewayID != "" {
		set["gatewayId"] = gatewayID
	}
	if paymentLink != "" {
		set["paymentLink"] = paymentLink
	}

	res, err := r.orders().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Update applies a partial $set to the order's contact fields.
func (r *OrderRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Order, error) {
	set["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err := r.orders().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *OrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.orders().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *OrderRepo) InsertTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	tx.ID = primitive.NewObjectID()
	tx.CreatedAtTimestamps = time.Now()

	if _, err := r.transactions().InsertOne(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
