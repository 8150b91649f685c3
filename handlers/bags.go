package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/weroambags/weroambags-backend-go/cache"
	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/uploads"
	"github.com/weroambags/weroambags-backend-go/utils"
)

const maxBagImages = 3

// BagStore is the persistence surface the bag handlers need.
type BagStore interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, skip, limit int64) ([]models.Bag, error)
	Search(ctx context.Context, term string, skip, limit int64) ([]models.Bag, error)
	ListByCategory(ctx context.Context, name string, skip, limit int64) ([]models.Bag, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bag, error)
	CreateWithTaxonomy(ctx context.Context, bag *models.Bag, categoryName string, subCategoryNames []string) (*models.Bag, error)
	Update(ctx context.Context, id primitive.ObjectID, bag *models.Bag) (*models.Bag, error)
	DeleteWithTaxonomy(ctx context.Context, bag *models.Bag) error
	Categories(ctx context.Context) ([]models.Category, error)
	SubCategories(ctx context.Context) ([]models.SubCategory, error)
	RenameTaxonomy(ctx context.Context, bag *models.Bag, categoryName string, subCategoryNames []string) error
}

// BagHandler serves the bag catalog plus its category listings. The cache is
// injected so each test run gets a fresh instance.
type BagHandler struct {
	store    BagStore
	cache    *cache.Store
	pipeline *uploads.Pipeline
	logger   *log.Logger
}

func NewBagHandler(store BagStore, c *cache.Store, pipeline *uploads.Pipeline, logger *log.Logger) *BagHandler {
	return &BagHandler{store: store, cache: c, pipeline: pipeline, logger: logger}
}

type bagListData struct {
	utils.Pagination
	Bags []models.Bag `json:"bags"`
}

// GetBags lists bags with pagination, an optional exact-category filter (q)
// and an optional free-text search. Search and plain listings are memoized in
// the bag cache; the category filter always hits persistence.
func (h *BagHandler) GetBags(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit := utils.ParsePageLimit(c.QueryParam("page"), c.QueryParam("limit"))
	skip := int64((page - 1) * limit)

	total, err := h.store.Count(ctx)
	if err != nil {
		return err
	}
	pagination := utils.NewPagination(total, page, limit)

	if q := c.QueryParam("q"); q != "" {
		bags, err := h.store.ListByCategory(ctx, q, skip, int64(limit))
		if err != nil {
			return err
		}
		return utils.Success(c, http.StatusOK, "Successfully get bags",
			bagListData{Pagination: pagination, Bags: bags})
	}

	key := cache.KeyAllBags
	fetch := func() ([]models.Bag, error) { return h.store.List(ctx, skip, int64(limit)) }
	if search := c.QueryParam("search"); search != "" {
		key = search
		fetch = func() ([]models.Bag, error) { return h.store.Search(ctx, search, skip, int64(limit)) }
	}

	if cached, ok := h.cache.Get(key); ok {
		if bags, ok := cached.([]models.Bag); ok {
			return utils.Success(c, http.StatusOK, "Successfully get bags",
				bagListData{Pagination: pagination, Bags: bags})
		}
	}

	bags, err := fetch()
	if err != nil {
		return err
	}
	h.cache.Set(key, bags)

	return utils.Success(c, http.StatusOK, "Successfully get bags",
		bagListData{Pagination: pagination, Bags: bags})
}

// GetBag returns one bag by its 24-character hex id.
func (h *BagHandler) GetBag(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid bag ID")
	}

	key := id.Hex()
	if cached, ok := h.cache.Get(key); ok {
		if bag, ok := cached.(*models.Bag); ok {
			return utils.Success(c, http.StatusOK, "Successfully get bag", bag)
		}
	}

	bag, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Bag not found")
		}
		return err
	}

	h.cache.Set(key, bag)
	return utils.Success(c, http.StatusOK, "Successfully get bag", bag)
}

// CreateBag creates a bag plus its own category and sub-category documents.
// The multipart body must carry exactly the allowed field set and one to
// three thumbnail images.
func (h *BagHandler) CreateBag(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid multipart form")
	}

	fields, err := exactFields(form, models.AllowedBagKeys)
	if err != nil {
		return err
	}

	files := form.File["thumbnail"]
	if len(files) == 0 {
		return utils.NewAppError(http.StatusBadRequest, "Please upload thumbnails")
	}
	if err := uploads.ValidateImages(files, maxBagImages); err != nil {
		return err
	}

	subCategoryNames, err := parseSubCategories(fields["subCategory"])
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	assets, err := h.pipeline.Process(ctx, files, "bags")
	if err != nil {
		return err
	}

	bag := &models.Bag{
		Title:          fields["title"],
		OldPrice:       fields["oldPrice"],
		NewPrice:       fields["newPrice"],
		Rating:         fields["rating"],
		Available:      fields["available"],
		Sold:           fields["sold"],
		Quantity:       fields["quantity"],
		ReviewsCount:   fields["reviewsCount"],
		Description:    fields["description"],
		Specifications: fields["specifications"],
		Thumbnail:      assetsToImages(assets),
	}

	created, err := h.store.CreateWithTaxonomy(ctx, bag, fields["category"], subCategoryNames)
	if err != nil {
		return err
	}

	h.cache.Purge()
	return utils.Success(c, http.StatusCreated, "Bag added to your collection", created)
}

// UpdateBag applies a partial update; unset fields keep their stored values.
// New thumbnails replace the old set, and the old remote assets are removed
// best-effort so a stale asset never blocks the replacement.
func (h *BagHandler) UpdateBag(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid bag ID")
	}

	ctx := c.Request().Context()
	existing, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Bag not found for update")
		}
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid multipart form")
	}

	files := form.File["thumbnail"]
	if err := uploads.ValidateImages(files, maxBagImages); err != nil {
		return err
	}

	updated := *existing
	applyField(form, "title", &updated.Title)
	applyField(form, "oldPrice", &updated.OldPrice)
	applyField(form, "newPrice", &updated.NewPrice)
	applyField(form, "rating", &updated.Rating)
	applyField(form, "available", &updated.Available)
	applyField(form, "sold", &updated.Sold)
	applyField(form, "quantity", &updated.Quantity)
	applyField(form, "reviewsCount", &updated.ReviewsCount)
	applyField(form, "description", &updated.Description)
	applyField(form, "specifications", &updated.Specifications)

	// Zero files on update means keep the existing images.
	if len(files) > 0 {
		h.pipeline.Destroy(ctx, publicIDs(existing.Thumbnail))

		assets, err := h.pipeline.Process(ctx, files, "bags")
		if err != nil {
			return err
		}
		updated.Thumbnail = assetsToImages(assets)
	}

	result, err := h.store.Update(ctx, id, &updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Bag not found for update")
		}
		return err
	}

	h.cache.Del(id.Hex())
	h.cache.Purge()
	return utils.Success(c, http.StatusOK, "Successfully updated bag", result)
}

// DeleteBag removes the bag, its category and sub-category, and its remote
// images.
func (h *BagHandler) DeleteBag(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid bag ID")
	}

	ctx := c.Request().Context()
	existing, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Bag not found")
		}
		return err
	}

	h.pipeline.Destroy(ctx, publicIDs(existing.Thumbnail))

	if err := h.store.DeleteWithTaxonomy(ctx, existing); err != nil {
		return err
	}

	h.cache.Del(id.Hex())
	h.cache.Purge()
	return utils.Success(c, http.StatusOK, "Successfully deleted bag", id.Hex())
}

// GetCategories lists every category document.
func (h *BagHandler) GetCategories(c echo.Context) error {
	if cached, ok := h.cache.Get(cache.KeyCategories); ok {
		if cats, ok := cached.([]models.Category); ok {
			return utils.Success(c, http.StatusOK, "Successfully get categories",
				echo.Map{"categories": cats})
		}
	}

	cats, err := h.store.Categories(c.Request().Context())
	if err != nil {
		return err
	}

	h.cache.Set(cache.KeyCategories, cats)
	return utils.Success(c, http.StatusOK, "Successfully get categories",
		echo.Map{"categories": cats})
}

// GetSubCategories lists every sub-category document.
func (h *BagHandler) GetSubCategories(c echo.Context) error {
	if cached, ok := h.cache.Get(cache.KeySubCategories); ok {
		if subs, ok := cached.([]models.SubCategory); ok {
			return utils.Success(c, http.StatusOK, "Successfully get sub-categories",
				echo.Map{"subCategories": subs})
		}
	}

	subs, err := h.store.SubCategories(c.Request().Context())
	if err != nil {
		return err
	}

	h.cache.Set(cache.KeySubCategories, subs)
	return utils.Success(c, http.StatusOK, "Successfully get sub-categories",
		echo.Map{"subCategories": subs})
}

type updateCategoryRequest struct {
	CategoryName  string   `json:"categoryName"`
	BagID         string   `json:"bagId"`
	SubCategories []string `json:"subCategories"`
}

// UpdateCategory renames the category and sub-category attached to a bag.
func (h *BagHandler) UpdateCategory(c echo.Context) error {
	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	if req.CategoryName == "" || req.BagID == "" || len(req.SubCategories) == 0 {
		return utils.NewAppError(http.StatusBadRequest, "Please provide all the details")
	}

	id, err := parseObjectID(req.BagID)
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid bag ID")
	}

	ctx := c.Request().Context()
	bag, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Bag not found")
		}
		return err
	}

	if err := h.store.RenameTaxonomy(ctx, bag, req.CategoryName, req.SubCategories); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Category not found")
		}
		return err
	}

	h.cache.Purge()
	return utils.Success(c, http.StatusOK, "Successfully updated category", nil)
}

// parseObjectID enforces the 24-character hex id contract.
func parseObjectID(raw string) (primitive.ObjectID, error) {
	if len(raw) != 24 {
		return primitive.NilObjectID, errors.New("invalid id length")
	}
	return primitive.ObjectIDFromHex(raw)
}

// exactFields checks the form value keys both ways against allowed: every
// allowed key present and non-empty, and no unexpected keys.
func exactFields(form *multipart.Form, allowed []string) (map[string]string, error) {
	fields := make(map[string]string, len(allowed))

	allowedSet := make(map[string]bool, len(allowed))
	for _, key := range allowed {
		allowedSet[key] = true
	}

	for key := range form.Value {
		if !allowedSet[key] {
			return nil, utils.NewAppError(http.StatusBadRequest, "Unexpected field: "+key)
		}
	}

	for _, key := range allowed {
		values := form.Value[key]
		if len(values) == 0 || values[0] == "" {
			return nil, utils.NewAppError(http.StatusBadRequest, "Please provide all the details")
		}
		fields[key] = values[0]
	}
	return fields, nil
}

func applyField(form *multipart.Form, key string, dst *string) {
	if values := form.Value[key]; len(values) > 0 && values[0] != "" {
		*dst = values[0]
	}
}

// parseSubCategories accepts either a JSON array text or a plain name.
func parseSubCategories(raw string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err == nil {
		return names, nil
	}
	if raw == "" {
		return nil, utils.NewAppError(http.StatusBadRequest, "Please provide all the details")
	}
	return []string{raw}, nil
}

func assetsToImages(assets []uploads.Asset) []models.ImageAsset {
	images := make([]models.ImageAsset, 0, len(assets))
	for _, a := range assets {
		images = append(images, models.ImageAsset{
			AssetID:   a.AssetID,
			PublicID:  a.PublicID,
			SecureURL: a.SecureURL,
		})
	}
	return images
}

func publicIDs(images []models.ImageAsset) []string {
	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.PublicID)
	}
	return ids
}
