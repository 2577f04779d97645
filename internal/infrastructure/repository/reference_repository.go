package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
	"github.com/sangkips/pos-backend/pkg/apperror"
)

type customerRepository struct {
	q store.Querier
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(q store.Querier) domainRepo.CustomerRepository {
	return &customerRepository{q: q}
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, err := store.QueryOne[entity.Customer](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.CustomerColumns)+" FROM customers WHERE id = ?", id))
	return c, notFound(err, "Customer", id)
}

type paymentMethodRepository struct {
	q store.Querier
}

func NewPaymentMethodRepository(q store.Querier) domainRepo.PaymentMethodRepository {
	return &paymentMethodRepository{q: q}
}

func (r *paymentMethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	m, err := store.QueryOne[entity.PaymentMethod](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.PaymentMethodColumns)+" FROM payment_methods WHERE id = ?", id))
	return m, notFound(err, "PaymentMethod", id)
}

func (r *paymentMethodRepository) GetByCode(ctx context.Context, code string) (*entity.PaymentMethod, error) {
	m, err := store.QueryOptional[entity.PaymentMethod](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.PaymentMethodColumns)+" FROM payment_methods WHERE code = ?",
		strings.ToLower(strings.TrimSpace(code))))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NewNotFoundError("PaymentMethod", code)
	}
	return m, nil
}

func (r *paymentMethodRepository) List(ctx context.Context) ([]entity.PaymentMethod, error) {
	list, err := store.QueryMany[entity.PaymentMethod](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.PaymentMethodColumns)+" FROM payment_methods ORDER BY name"))
	if err != nil {
		return nil, err
	}
	return deref(list), nil
}

type itemRepository struct {
	q store.Querier
}

func NewItemRepository(q store.Querier) domainRepo.ItemRepository {
	return &itemRepository{q: q}
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	i, err := store.QueryOne[entity.Item](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.ItemColumns)+" FROM items WHERE id = ?", id))
	return i, notFound(err, "Item", id)
}

type userRepository struct {
	q store.Querier
}

// NewUserRepository creates a new user repository
func NewUserRepository(q store.Querier) domainRepo.UserRepository {
	return &userRepository{q: q}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, err := store.QueryOne[entity.User](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.UserColumns)+" FROM users WHERE id = ?", id))
	return u, notFound(err, "User", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := store.QueryOptional[entity.User](ctx, r.q, store.NewStatement(
		"SELECT "+store.Columns(entity.UserColumns)+" FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NewNotFoundError("User", email)
	}
	return u, nil
}
