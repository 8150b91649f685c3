package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusLinkIssued OrderStatus = "link-issued"
	OrderStatusPaid       OrderStatus = "paid"
)

type Order struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderNumber string               `bson:"orderNumber" json:"orderNumber"`
	OrderDate   time.Time            `bson:"orderDate" json:"orderDate"`
	Name        string               `bson:"name" json:"name"`
	Email       string               `bson:"email" json:"email"`
	Phone       string               `bson:"phone" json:"phone"`
	OrderItems  []primitive.ObjectID `bson:"orderItems" json:"orderItems"`
	TotalAmount string               `bson:"totalAmount" json:"totalAmount"`
	Status      OrderStatus          `bson:"status" json:"status"`
	GatewayID   string               `bson:"gatewayId,omitempty" json:"gatewayId,omitempty"`
	PaymentLink string               `bson:"paymentLink,omitempty" json:"paymentLink,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"-"`
}

// TransactionCustomer is the payer snapshot the gateway reports back.
type TransactionCustomer struct {
	Contact string `bson:"contact" json:"contact"`
	Email   string `bson:"email" json:"email"`
	Name    string `bson:"name" json:"name"`
}

// Transaction records a settled payment as reported by the gateway, together
// with the signature fields the client handed back from the checkout page.
type Transaction struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Amount      int64               `bson:"amount" json:"amount"`
	AmountPaid  int64               `bson:"amount_paid" json:"amount_paid"`
	CreatedAtTS int64               `bson:"created_at" json:"created_at"`
	Currency    string              `bson:"currency" json:"currency"`
	Customer    TransactionCustomer `bson:"customer" json:"customer"`
	Description string              `bson:"description" json:"description"`
	LinkID      string              `bson:"linkId" json:"linkId"`
	GatewayID   string              `bson:"order_id" json:"order_id"`
	ReferenceID string              `bson:"reference_id" json:"reference_id"`
	ShortURL    string              `bson:"short_url" json:"short_url"`
	Status      string              `bson:"status" json:"status"`

	PaymentID           string    `bson:"payment_id" json:"payment_id"`
	PaymentLinkID       string    `bson:"payment_link_id" json:"payment_link_id"`
	PaymentLinkRefID    string    `bson:"payment_link_reference_id" json:"payment_link_reference_id"`
	PaymentLinkStatus   string    `bson:"payment_link_status" json:"payment_link_status"`
	Signature           string    `bson:"signature" json:"signature"`
	CreatedAtTimestamps time.Time `bson:"createdAt" json:"createdAt"`
}
