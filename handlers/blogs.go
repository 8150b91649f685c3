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

// BlogStore is the persistence surface the blog handlers need.
type BlogStore interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, skip, limit int64) ([]models.Blog, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	Contents(ctx context.Context) ([]models.Content, error)
	CreateWithContents(ctx context.Context, blog *models.Blog, inputs []models.ContentInput) (*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog, inputs []models.ContentInput) (*models.Blog, error)
	DeleteCascade(ctx context.Context, id primitive.ObjectID) error
	DeleteContent(ctx context.Context, id primitive.ObjectID) error
}

type BlogHandler struct {
	store    BlogStore
	cache    *cache.Store
	pipeline *uploads.Pipeline
	logger   *log.Logger
}

func NewBlogHandler(store BlogStore, c *cache.Store, pipeline *uploads.Pipeline, logger *log.Logger) *BlogHandler {
	return &BlogHandler{store: store, cache: c, pipeline: pipeline, logger: logger}
}

type blogListData struct {
	utils.Pagination
	Blogs []models.Blog `json:"blogs"`
}

func (h *BlogHandler) GetBlogs(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit := utils.ParsePageLimit(c.QueryParam("page"), c.QueryParam("limit"))
	skip := int64((page - 1) * limit)

	total, err := h.store.Count(ctx)
	if err != nil {
		return err
	}
	pagination := utils.NewPagination(total, page, limit)

	if cached, ok := h.cache.Get(cache.KeyBlogs); ok {
		if blogs, ok := cached.([]models.Blog); ok {
			return utils.Success(c, http.StatusOK, "Successfully get blogs",
				blogListData{Pagination: pagination, Blogs: blogs})
		}
	}

	blogs, err := h.store.List(ctx, skip, int64(limit))
	if err != nil {
		return err
	}

	h.cache.Set(cache.KeyBlogs, blogs)
	return utils.Success(c, http.StatusOK, "Successfully get blogs",
		blogListData{Pagination: pagination, Blogs: blogs})
}

func (h *BlogHandler) GetBlog(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid blog ID")
	}

	key := id.Hex()
	if cached, ok := h.cache.Get(key); ok {
		if blog, ok := cached.(*models.Blog); ok {
			return utils.Success(c, http.StatusOK, "Successfully get blog", blog)
		}
	}

	blog, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Blog not found")
		}
		return err
	}

	h.cache.Set(key, blog)
	return utils.Success(c, http.StatusOK, "Successfully get blog", blog)
}

// GetContents lists every content block across blogs.
func (h *BlogHandler) GetContents(c echo.Context) error {
	contents, err := h.store.Contents(c.Request().Context())
	if err != nil {
		return err
	}
	return utils.Success(c, http.StatusOK, "Successfully get contents",
		echo.Map{"contents": contents})
}

// CreateBlog creates a blog with its cover image and content blocks. The
// contents arrive as JSON text in the multipart body.
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid multipart form")
	}

	title := formValue(form, "title")
	if title == "" {
		return utils.NewAppError(http.StatusBadRequest, "Please provide all the details")
	}

	inputs, err := parseContents(formValue(form, "contents"))
	if err != nil {
		return err
	}

	files := form.File["cover"]
	if len(files) == 0 {
		return utils.NewAppError(http.StatusBadRequest, "Please upload a cover image")
	}
	if err := uploads.ValidateImages(files, 1); err != nil {
		return err
	}

	ctx := c.Request().Context()
	assets, err := h.pipeline.Process(ctx, files, "blogs")
	if err != nil {
		return err
	}

	blog := &models.Blog{
		Title:     title,
		Cover:     assets[0].SecureURL,
		AssetID:   assets[0].AssetID,
		PublicID:  assets[0].PublicID,
		SecureURL: assets[0].SecureURL,
	}

	created, err := h.store.CreateWithContents(ctx, blog, inputs)
	if err != nil {
		return err
	}

	h.cache.Purge()
	return utils.Success(c, http.StatusCreated, "Blog created successfully", created)
}

// UpdateBlog applies a partial update. A new cover replaces the old one on
// the asset host best-effort; supplied contents replace the old blocks.
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid blog ID")
	}

	ctx := c.Request().Context()
	existing, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Blog not found")
		}
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid multipart form")
	}

	if title := formValue(form, "title"); title != "" {
		existing.Title = title
	}

	var inputs []models.ContentInput
	if raw := formValue(form, "contents"); raw != "" {
		inputs, err = parseContents(raw)
		if err != nil {
			return err
		}
	}

	files := form.File["cover"]
	if err := uploads.ValidateImages(files, 1); err != nil {
		return err
	}
	if len(files) > 0 {
		h.pipeline.Destroy(ctx, []string{existing.PublicID})

		assets, err := h.pipeline.Process(ctx, files, "blogs")
		if err != nil {
			return err
		}
		existing.Cover = assets[0].SecureURL
		existing.AssetID = assets[0].AssetID
		existing.PublicID = assets[0].PublicID
		existing.SecureURL = assets[0].SecureURL
	}

	updated, err := h.store.Update(ctx, existing, inputs)
	if err != nil {
		return err
	}

	h.cache.Del(id.Hex())
	h.cache.Purge()
	return utils.Success(c, http.StatusOK, "Blog updated successfully", updated)
}

// DeleteBlog removes the blog, its content children and its remote cover.
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid blog ID")
	}

	ctx := c.Request().Context()
	existing, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Blog not found")
		}
		return err
	}

	h.pipeline.Destroy(ctx, []string{existing.PublicID})

	if err := h.store.DeleteCascade(ctx, id); err != nil {
		return err
	}

	h.cache.Del(id.Hex())
	h.cache.Purge()
	return utils.Success(c, http.StatusOK, "Blog deleted successfully", id.Hex())
}

func (h *BlogHandler) DeleteContent(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid content ID")
	}

	if err := h.store.DeleteContent(c.Request().Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Content not found")
		}
		return err
	}

	h.cache.Purge()
	return utils.Success(c, http.StatusOK, "Content deleted successfully", id.Hex())
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// parseContents decodes the contents array serialized as JSON text in the
// multipart body.
func parseContents(raw string) ([]models.ContentInput, error) {
	if raw == "" {
		return nil, nil
	}
	var inputs []models.ContentInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, "Invalid contents format")
	}
	return inputs, nil
}
