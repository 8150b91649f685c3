package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/utils"
)

// OrderStore is the persistence surface the order handlers need.
type OrderStore interface {
	List(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByReceipt(ctx context.Context, orderNumber string) (*models.Order, error)
	Insert(ctx context.Context, order *models.Order) (*models.Order, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, gatewayID, paymentLink string) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	InsertTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
}

// Gateway is the payment-gateway surface the order handlers need.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*utils.GatewayOrder, error)
	CreatePaymentLink(ctx context.Context, amount int64, currency, referenceID, description, callbackURL string, name, email, contact string) (*utils.PaymentLink, error)
	FetchPaymentLink(ctx context.Context, linkID string) (*utils.PaymentLink, error)
}

// OrderHandler drives the created → link-issued → paid chain. Each
// transition must succeed before the next runs; a failure returns to the
// client, who restarts the flow from scratch.
type OrderHandler struct {
	store       OrderStore
	gateway     Gateway
	secret      string
	callbackURL string
	logger      *log.Logger
}

func NewOrderHandler(store OrderStore, gateway Gateway, secret, callbackURL string, logger *log.Logger) *OrderHandler {
	return &OrderHandler{store: store, gateway: gateway, secret: secret, callbackURL: callbackURL, logger: logger}
}

type createOrderRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	OrderItems  []string `json:"orderItems"`
	TotalAmount string   `json:"totalAmount"`
}

// CreateOrder creates the local order, registers it with the gateway and
// issues a payment link, sequentially. Amounts are in the currency's
// smallest unit.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" || len(req.OrderItems) == 0 || req.TotalAmount == "" {
		return utils.NewAppError(http.StatusBadRequest, "Please provide all the details")
	}

	amount, err := strconv.ParseInt(req.TotalAmount, 10, 64)
	if err != nil || amount <= 0 {
		return utils.NewAppError(http.StatusBadRequest, "Invalid total amount")
	}

	items := make([]primitive.ObjectID, 0, len(req.OrderItems))
	for _, raw := range req.OrderItems {
		id, err := parseObjectID(raw)
		if err != nil {
			return utils.NewAppError(http.StatusBadRequest, "Invalid bag ID in order items")
		}
		items = append(items, id)
	}

	ctx := c.Request().Context()
	order := &models.Order{
		OrderNumber: "rcpt_" + uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		OrderItems:  items,
		TotalAmount: req.TotalAmount,
		Status:      models.OrderStatusCreated,
	}
	order, err = h.store.Insert(ctx, order)
	if err != nil {
		return err
	}

	gwOrder, err := h.gateway.CreateOrder(ctx, amount, "INR", order.OrderNumber)
	if err != nil {
		h.logger.Error("gateway order creation failed", "receipt", order.OrderNumber, "err", err)
		return utils.NewAppError(http.StatusInternalServerError, "Failed to create payment order")
	}
	if err := h.store.SetStatus(ctx, order.ID, models.OrderStatusCreated, gwOrder.ID, ""); err != nil {
		return err
	}

	link, err := h.gateway.CreatePaymentLink(ctx, amount, "INR", order.OrderNumber,
		"For purchasing bags", h.callbackURL, req.Name, req.Email, req.Phone)
	if err != nil {
		h.logger.Error("payment link creation failed", "receipt", order.OrderNumber, "err", err)
		return utils.NewAppError(http.StatusInternalServerError, "Failed to create payment link")
	}
	if err := h.store.SetStatus(ctx, order.ID, models.OrderStatusLinkIssued, "", link.ShortURL); err != nil {
		return err
	}

	return utils.Success(c, http.StatusCreated, "Order created successfully", echo.Map{
		"order":       order,
		"paymentLink": link.ShortURL,
		"linkId":      link.ID,
	})
}

type verifyPaymentRequest struct {
	PaymentID         string `json:"razorpay_payment_id"`
	PaymentLinkID     string `json:"razorpay_payment_link_id"`
	PaymentLinkRefID  string `json:"razorpay_payment_link_reference_id"`
	PaymentLinkStatus string `json:"razorpay_payment_link_status"`
	Signature         string `json:"razorpay_signature"`
}

// VerifyPayment re-fetches the payment link from the gateway and persists a
// Transaction only when the gateway itself reports paid. The client-claimed
// status is never trusted.
func (h *OrderHandler) VerifyPayment(c echo.Context) error {
	var req verifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	if req.PaymentID == "" || req.PaymentLinkID == "" || req.PaymentLinkRefID == "" || req.Signature == "" {
		return utils.NewAppError(http.StatusBadRequest, "Please provide all the payment details")
	}

	ctx := c.Request().Context()
	order, err := h.store.FindByReceipt(ctx, req.PaymentLinkRefID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Order not found")
		}
		return err
	}

	link, err := h.gateway.FetchPaymentLink(ctx, req.PaymentLinkID)
	if err != nil {
		h.logger.Error("payment link fetch failed", "linkId", req.PaymentLinkID, "err", err)
		return utils.NewAppError(http.StatusInternalServerError, "Failed to verify payment")
	}

	if link.Status != utils.LinkStatusPaid {
		return utils.NewAppError(http.StatusBadRequest, "Payment not completed")
	}

	if !utils.VerifySignature(req.PaymentLinkID, req.PaymentID, req.Signature, h.secret) {
		return utils.NewAppError(http.StatusBadRequest, "Invalid payment signature")
	}

	tx := &models.Transaction{
		Amount:      link.Amount,
		AmountPaid:  link.AmountPaid,
		CreatedAtTS: link.CreatedAt,
		Currency:    link.Currency,
		Customer: models.TransactionCustomer{
			Contact: link.Customer.Contact,
			Email:   link.Customer.Email,
			Name:    link.Customer.Name,
		},
		Description: link.Description,
		LinkID:      link.ID,
		GatewayID:   link.OrderID,
		ReferenceID: link.ReferenceID,
		ShortURL:    link.ShortURL,
		Status:      link.Status,

		PaymentID:         req.PaymentID,
		PaymentLinkID:     req.PaymentLinkID,
		PaymentLinkRefID:  req.PaymentLinkRefID,
		PaymentLinkStatus: req.PaymentLinkStatus,
		Signature:         req.Signature,
	}
	created, err := h.store.InsertTransaction(ctx, tx)
	if err != nil {
		return err
	}

	if err := h.store.SetStatus(ctx, order.ID, models.OrderStatusPaid, "", ""); err != nil {
		return err
	}

	return utils.Success(c, http.StatusCreated, "Payment verified successfully", created)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return utils.Success(c, http.StatusOK, "Successfully get orders", echo.Map{
		"results": len(orders),
		"orders":  orders,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid order ID")
	}

	order, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Order not found")
		}
		return err
	}

	return utils.Success(c, http.StatusOK, "Successfully get order", order)
}

type updateOrderRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateOrder corrects the contact details on an order. Status is owned by
// the payment flow and cannot be set here.
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid order ID")
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid request format")
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if len(set) == 0 {
		return utils.NewAppError(http.StatusBadRequest, "Nothing to update")
	}

	order, err := h.store.Update(c.Request().Context(), id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Order not found")
		}
		return err
	}

	return utils.Success(c, http.StatusOK, "Successfully updated order", order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return utils.NewAppError(http.StatusBadRequest, "Invalid order ID")
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewAppError(http.StatusNotFound, "Order not found")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
