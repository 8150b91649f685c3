package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/weroambags/weroambags-backend-go/cache"
	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/utils"
)

// ContactStore is the persistence surface the contact handlers need.
type ContactStore interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, skip, limit int64) ([]models.ContactUs, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ContactUs, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	Insert(ctx context.Context, contact *models.ContactUs) (*models.ContactUs, error)
	Update(ctx context.Context, id primitive.ObjectID, contact *models.ContactUs) (*models.ContactUs, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ContactHandler struct {
	store  ContactStore
	cache  *cache.Store
	logger *log.Logger
}

func NewContactHandler(store ContactStore, c *cache.Store, logger *log.Logger) *ContactHandler {
	return &ContactHandler{store: store, cache: c, logger: logger}
}

type contactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	PhoneNo   string `json:"phoneNo"`
	Message   string `json:"message"`
}

// CreateContact accepts a public contact-form submission. Duplicate email or
// phone is a conflict and leaves the collection unchanged.
func (h *ContactHandler) CreateContact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.PhoneNo == "" || req.Message == "" {
		return utils.NewAppError(http.StatusBadRequest, "All fields are required")
	}
	if len(req.Message) < 10 || len(req.Message) > 500 {
		return utils.NewAppError(http.StatusBadRequest, "Message must be between 10 and 500 characters")
	}

	ctx := c.Request().Context()
	exists, err := h.store.ExistsByEmailOrPhone(ctx, req.Email, req.PhoneNo)
	if err != nil {
		return err
	}
	if exists {
		return utils.NewAppError(http.StatusConflict, "Email or phone number already exists")
	}

	contact := &models.ContactUs{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		PhoneNo:   req.PhoneNo,
		Message:   req.Message,
	}
	created, err := h.store.Insert(ctx, contact)
	if err != nil {
		return err
	}

	h.cache.Purge()
	return utils.Success(c, http.StatusCreated, "Contact created successfully", created.ID.Hex())
}

type contactListData struct {
	utils.Pagination
	Contacts []models.ContactUs `json:"contacts"`
}

func (h *ContactHandler) GetContacts(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit := utils.ParsePageLimit(c.QueryParam("page"), c.QueryParam("limit"))
	skip := int64((page - 1) * limit)

	total, err := h.store.Count(ctx)
	if err != nil {
		return err
	}
	pagination := utils.NewPagination(total, page, limit)

	if cached, ok := h.cache.Get(cache.KeyContacts); ok {
		if contacts, ok := cached.([]models.ContactUs); ok {
			return utils.Success(c, http.StatusOK, "Contacts retrieved successfully",
				contactListData{Pagination: pagination, Contacts: contacts})
		}
	}

	contacts, err := h.store.List(ctx, skip, int64(limit))
	if err != nil {
		return err
	}

	h.cache.Set(cache.KeyContacts, contacts)
	return utils.Success(c, http.StatusOK, "Contacts retrieved successfully",
		contactListData{Pagination: pagination, Contacts: contacts})
}

func (h *ContactHandler) GetContact(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid contact ID")
	}

	contact, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Contact not found")
		}
		return err
	}

	return utils.Success(c, http.StatusOK, "Contact retrieved successfully", contact)
}

// UpdateContact is a partial update; unset fields keep their stored values.
func (h *ContactHandler) UpdateContact(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid contact ID")
	}

	ctx := c.Request().Context()
	existing, err := h.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Contact not found")
		}
		return err
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	if req.FirstName != "" {
		existing.FirstName = req.FirstName
	}
	if req.LastName != "" {
		existing.LastName = req.LastName
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.PhoneNo != "" {
		existing.PhoneNo = req.PhoneNo
	}
	if req.Message != "" {
		if len(req.Message) < 10 || len(req.Message) > 500 {
			return utils.NewAppError(http.StatusBadRequest, "Message must be between 10 and 500 characters")
		}
		existing.Message = req.Message
	}

	updated, err := h.store.Update(ctx, id, existing)
	if err != nil {
		return err
	}

	h.cache.Purge()
	return utils.Success(c, http.StatusOK, "Contact updated successfully", updated)
}

func (h *ContactHandler) DeleteContact(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid contact ID")
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Contact not found")
		}
		return err
	}

	h.cache.Purge()
	return utils.Success(c, http.StatusOK, "Contact deleted successfully", id.Hex())
}
