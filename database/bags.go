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

// BagRepo persists bags together with their per-bag category and
// sub-category documents.
type BagRepo struct {
	db *mongo.Database
}

func NewBagRepo(db *mongo.Database) *BagRepo {
	return &BagRepo{db: db}
}

func (r *BagRepo) bags() *mongo.Collection          { return r.db.Collection("bags") }
func (r *BagRepo) categories() *mongo.Collection    { return r.db.Collection("categories") }
func (r *BagRepo) subCategories() *mongo.Collection { return r.db.Collection("subcategories") }

func (r *BagRepo) Count(ctx context.Context) (int64, error) {
	return r.bags().CountDocuments(ctx, bson.M{})
}

func (r *BagRepo) List(ctx context.Context, skip, limit int64) ([]models.Bag, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.bags().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bags []models.Bag
	if err := cursor.All(ctx, &bags); err != nil {
		return nil, err
	}
	return bags, nil
}

// Search matches the term as a case-insensitive substring over the free-text
// fields.
func (r *BagRepo) Search(ctx context.Context, term string, skip, limit int64) ([]models.Bag, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$regex": term, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": term, "$options": "i"}},
		bson.M{"specifications": bson.M{"$regex": term, "$options": "i"}},
	}}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.bags().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bags []models.Bag
	if err := cursor.All(ctx, &bags); err != nil {
		return nil, err
	}
	return bags, nil
}

// ListByCategory resolves categories by exact name and returns their member
// bags.
func (r *BagRepo) ListByCategory(ctx context.Context, name string, skip, limit int64) ([]models.Bag, error) {
	cursor, err := r.categories().Find(ctx, bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cats []models.Category
	if err := cursor.All(ctx, &cats); err != nil {
		return nil, err
	}

	var ids []primitive.ObjectID
	for _, cat := range cats {
		ids = append(ids, cat.Bags...)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)

	bagCursor, err := r.bags().Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer bagCursor.Close(ctx)

	var bags []models.Bag
	if err := bagCursor.All(ctx, &bags); err != nil {
		return nil, err
	}
	return bags, nil
}

func (r *BagRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bag, error) {
	var bag models.Bag
	err := r.bags().FindOne(ctx, bson.M{"_id": id}).Decode(&bag)
	if err != nil {
		return nil, err
	}
	return &bag, nil
}

// CreateWithTaxonomy inserts the bag plus a fresh category and sub-category
// and cross-links the three, all in one transaction.
func (r *BagRepo) CreateWithTaxonomy(ctx context.Context, bag *models.Bag, categoryName string, subCategoryNames []string) (*models.Bag, error) {
	now := time.Now()
	bag.ID = primitive.NewObjectID()
	bag.CreatedAt = now
	bag.UpdatedAt = now

	category := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      categoryName,
		Bags:      []primitive.ObjectID{bag.ID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	subCategory := models.SubCategory{
		ID:        primitive.NewObjectID(),
		Name:      subCategoryNames,
		Bags:      []primitive.ObjectID{bag.ID},
		Category:  category.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	category.SubCategories = subCategory.ID
	bag.Category = category.ID
	bag.SubCategory = subCategory.ID

	err := withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.bags().InsertOne(sc, bag); err != nil {
			return err
		}
		if _, err := r.categories().InsertOne(sc, category); err != nil {
			return err
		}
		_, err := r.subCategories().InsertOne(sc, subCategory)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bag, nil
}

func (r *BagRepo) Update(ctx context.Context, id primitive.ObjectID, bag *models.Bag) (*models.Bag, error) {
	bag.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":          bag.Title,
		"oldPrice":       bag.OldPrice,
		"newPrice":       bag.NewPrice,
		"rating":         bag.Rating,
		"available":      bag.Available,
		"sold":           bag.Sold,
		"quantity":       bag.Quantity,
		"reviewsCount":   bag.ReviewsCount,
		"description":    bag.Description,
		"specifications": bag.Specifications,
		"thumbnail":      bag.Thumbnail,
		"updatedAt":      bag.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Bag
	err := r.bags().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteWithTaxonomy removes the bag and its category and sub-category in
// one transaction. Per-bag taxonomy means the category dies with the bag.
func (r *BagRepo) DeleteWithTaxonomy(ctx context.Context, bag *models.Bag) error {
	return withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.bags().DeleteOne(sc, bson.M{"_id": bag.ID}); err != nil {
			return err
		}
		if _, err := r.categories().DeleteOne(sc, bson.M{"_id": bag.Category}); err != nil {
			return err
		}
		_, err := r.subCategories().DeleteOne(sc, bson.M{"_id": bag.SubCategory})
		return err
	})
}

func (r *BagRepo) Categories(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.categories().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cats []models.Category
	if err := cursor.All(ctx, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *BagRepo) SubCategories(ctx context.Context) ([]models.SubCategory, error) {
	cursor, err := r.subCategories().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.SubCategory
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// RenameTaxonomy updates the names on a bag's category and sub-category.
func (r *BagRepo) RenameTaxonomy(ctx context.Context, bag *models.Bag, categoryName string, subCategoryNames []string) error {
	now := time.Now()
	res, err := r.categories().UpdateOne(ctx,
		bson.M{"_id": bag.Category},
		bson.M{"$set": bson.M{"name": categoryName, "updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	res, err = r.subCategories().UpdateOne(ctx,
		bson.M{"_id": bag.SubCategory},
		bson.M{"$set": bson.M{"name": subCategoryNames, "updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
