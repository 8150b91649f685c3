package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/utils"
)

// doRequest runs a handler through a throwaway Echo instance with the real
// error handler attached, so tests observe the same envelopes clients do.
func doRequest(t *testing.T, handler echo.HandlerFunc, req *http.Request, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = utils.ErrorHandler(log.New(io.Discard))

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

// fakeBagStore counts persistence calls so cache behavior is observable.
type fakeBagStore struct {
	bags map[primitive.ObjectID]*models.Bag

	listCalls   int
	searchCalls int
	findCalls   int
}

func newFakeBagStore(seed ...models.Bag) *fakeBagStore {
	s := &fakeBagStore{bags: map[primitive.ObjectID]*models.Bag{}}
	for i := range seed {
		bag := seed[i]
		if bag.ID.IsZero() {
			bag.ID = primitive.NewObjectID()
		}
		s.bags[bag.ID] = &bag
	}
	return s
}

func (s *fakeBagStore) Count(context.Context) (int64, error) {
	return int64(len(s.bags)), nil
}

func (s *fakeBagStore) List(_ context.Context, skip, limit int64) ([]models.Bag, error) {
	s.listCalls++
	out := make([]models.Bag, 0, len(s.bags))
	for _, bag := range s.bags {
		out = append(out, *bag)
	}
	if skip > int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeBagStore) Search(_ context.Context, term string, _, _ int64) ([]models.Bag, error) {
	s.searchCalls++
	var out []models.Bag
	for _, bag := range s.bags {
		if bag.Title == term {
			out = append(out, *bag)
		}
	}
	return out, nil
}

func (s *fakeBagStore) ListByCategory(context.Context, string, int64, int64) ([]models.Bag, error) {
	return nil, nil
}

func (s *fakeBagStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Bag, error) {
	s.findCalls++
	bag, ok := s.bags[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *bag
	return &clone, nil
}

func (s *fakeBagStore) CreateWithTaxonomy(_ context.Context, bag *models.Bag, categoryName string, subCategoryNames []string) (*models.Bag, error) {
	bag.ID = primitive.NewObjectID()
	bag.Category = primitive.NewObjectID()
	bag.SubCategory = primitive.NewObjectID()
	s.bags[bag.ID] = bag
	return bag, nil
}

func (s *fakeBagStore) Update(_ context.Context, id primitive.ObjectID, bag *models.Bag) (*models.Bag, error) {
	if _, ok := s.bags[id]; !ok {
		return nil, mongo.ErrNoDocuments
	}
	bag.ID = id
	s.bags[id] = bag
	return bag, nil
}

func (s *fakeBagStore) DeleteWithTaxonomy(_ context.Context, bag *models.Bag) error {
	if _, ok := s.bags[bag.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.bags, bag.ID)
	return nil
}

func (s *fakeBagStore) Categories(context.Context) ([]models.Category, error)       { return nil, nil }
func (s *fakeBagStore) SubCategories(context.Context) ([]models.SubCategory, error) { return nil, nil }

func (s *fakeBagStore) RenameTaxonomy(context.Context, *models.Bag, string, []string) error {
	return nil
}

// fakeContactStore rejects duplicates the way the Mongo repo does.
type fakeContactStore struct {
	contacts []models.ContactUs

	insertCalls int
}

func (s *fakeContactStore) Count(context.Context) (int64, error) {
	return int64(len(s.contacts)), nil
}

func (s *fakeContactStore) List(context.Context, int64, int64) ([]models.ContactUs, error) {
	return s.contacts, nil
}

func (s *fakeContactStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.ContactUs, error) {
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			return &s.contacts[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeContactStore) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	for _, c := range s.contacts {
		if c.Email == email || c.PhoneNo == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeContactStore) Insert(_ context.Context, contact *models.ContactUs) (*models.ContactUs, error) {
	s.insertCalls++
	contact.ID = primitive.NewObjectID()
	s.contacts = append(s.contacts, *contact)
	return contact, nil
}

func (s *fakeContactStore) Update(_ context.Context, id primitive.ObjectID, contact *models.ContactUs) (*models.ContactUs, error) {
	contact.ID = id
	return contact, nil
}

func (s *fakeContactStore) Delete(context.Context, primitive.ObjectID) error { return nil }

// fakeOrderStore tracks transactions so verify-payment behavior is
// observable.
type fakeOrderStore struct {
	orders map[primitive.ObjectID]*models.Order
	txs    []models.Transaction
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[primitive.ObjectID]*models.Order{}}
}

func (s *fakeOrderStore) List(context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *o
	return &clone, nil
}

func (s *fakeOrderStore) FindByReceipt(_ context.Context, orderNumber string) (*models.Order, error) {
	for _, o := range s.orders {
		if o.OrderNumber == orderNumber {
			clone := *o
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeOrderStore) Insert(_ context.Context, order *models.Order) (*models.Order, error) {
	order.ID = primitive.NewObjectID()
	s.orders[order.ID] = order
	return order, nil
}

func (s *fakeOrderStore) SetStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, gatewayID, paymentLink string) error {
	o, ok := s.orders[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	o.Status = status
	if gatewayID != "" {
		o.GatewayID = gatewayID
	}
	if paymentLink != "" {
		o.PaymentLink = paymentLink
	}
	return nil
}

func (s *fakeOrderStore) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if name, ok := set["name"].(string); ok {
		o.Name = name
	}
	if email, ok := set["email"].(string); ok {
		o.Email = email
	}
	if phone, ok := set["phone"].(string); ok {
		o.Phone = phone
	}
	clone := *o
	return &clone, nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.orders[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.orders, id)
	return nil
}

func (s *fakeOrderStore) InsertTransaction(_ context.Context, tx *models.Transaction) (*models.Transaction, error) {
	tx.ID = primitive.NewObjectID()
	s.txs = append(s.txs, *tx)
	return tx, nil
}

// fakeGateway reports whatever link status the test seeds.
type fakeGateway struct {
	linkStatus string
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*utils.GatewayOrder, error) {
	return &utils.GatewayOrder{ID: "order_gw", Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (g *fakeGateway) CreatePaymentLink(_ context.Context, amount int64, currency, referenceID, _, _ string, name, email, contact string) (*utils.PaymentLink, error) {
	link := &utils.PaymentLink{
		ID:          "plink_gw",
		Amount:      amount,
		Currency:    currency,
		OrderID:     "order_gw",
		ReferenceID: referenceID,
		ShortURL:    "https://rzp.example/abc",
		Status:      "created",
	}
	link.Customer.Name = name
	link.Customer.Email = email
	link.Customer.Contact = contact
	return link, nil
}

func (g *fakeGateway) FetchPaymentLink(_ context.Context, linkID string) (*utils.PaymentLink, error) {
	link := &utils.PaymentLink{
		ID:          linkID,
		Amount:      85000,
		AmountPaid:  85000,
		Currency:    "INR",
		OrderID:     "order_gw",
		ReferenceID: "rcpt_test",
		Status:      g.linkStatus,
	}
	return link, nil
}

// fakeUserStore backs register/login tests.
type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(seed ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[primitive.ObjectID]*models.User{}}
	for i := range seed {
		u := seed[i]
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		s.users[u.ID] = &u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *u
	clone.Password = ""
	return &clone, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeUserStore) FindByProvider(_ context.Context, field, providerID string) (*models.User, error) {
	for _, u := range s.users {
		if (field == "googleId" && u.GoogleID == providerID) ||
			(field == "facebookId" && u.FacebookID == providerID) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeUserStore) List(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		clone.Password = ""
		out = append(out, clone)
	}
	return out, nil
}

func (s *fakeUserStore) Insert(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if name, ok := set["name"].(string); ok {
		u.Name = name
	}
	if phone, ok := set["phone"].(string); ok {
		u.Phone = phone
	}
	clone := *u
	clone.Password = ""
	return &clone, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.users, id)
	return nil
}
