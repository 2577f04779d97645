package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/pkg/apperror"
)

// lookup reads one row by id under the session.
func lookup[T any](ss session, table func(*tables) map[uuid.UUID]T, resource string, id uuid.UUID) (*T, error) {
	var out *T
	err := ss.run(func(t *tables) error {
		v, ok := table(t)[id]
		if !ok {
			return apperror.NewNotFoundError(resource, id.String())
		}
		out = &v
		return nil
	})
	return out, err
}

type customerRepo struct{ ss session }

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return lookup(r.ss, func(t *tables) map[uuid.UUID]entity.Customer { return t.customers }, "Customer", id)
}

type itemRepo struct{ ss session }

func (r *itemRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	return lookup(r.ss, func(t *tables) map[uuid.UUID]entity.Item { return t.catalog }, "Item", id)
}

type paymentMethodRepo struct{ ss session }

func (r *paymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	return lookup(r.ss, func(t *tables) map[uuid.UUID]entity.PaymentMethod { return t.paymentMethods }, "PaymentMethod", id)
}

func (r *paymentMethodRepo) GetByCode(ctx context.Context, code string) (*entity.PaymentMethod, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	var out *entity.PaymentMethod
	err := r.ss.run(func(t *tables) error {
		for _, m := range t.paymentMethods {
			if m.Code == code {
				out = &m
				return nil
			}
		}
		return apperror.NewNotFoundError("PaymentMethod", code)
	})
	return out, err
}

func (r *paymentMethodRepo) List(ctx context.Context) ([]entity.PaymentMethod, error) {
	var out []entity.PaymentMethod
	err := r.ss.run(func(t *tables) error {
		for _, m := range t.paymentMethods {
			out = append(out, m)
		}
		slices.SortFunc(out, func(a, b entity.PaymentMethod) int { return strings.Compare(a.Name, b.Name) })
		return nil
	})
	return out, err
}

type userRepo struct{ ss session }

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return lookup(r.ss, func(t *tables) map[uuid.UUID]entity.User { return t.users }, "User", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var out *entity.User
	err := r.ss.run(func(t *tables) error {
		for _, u := range t.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return apperror.NewNotFoundError("User", email)
	})
	return out, err
}
