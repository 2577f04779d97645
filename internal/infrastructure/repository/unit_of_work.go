package repository

import (
	"context"

	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
)

type repositories struct {
	q store.Querier
}

func (r repositories) Orders() domainRepo.SalesOrderRepository {
	return NewSalesOrderRepository(r.q)
}

func (r repositories) Payments() domainRepo.SalesOrderPaymentRepository {
	return NewSalesOrderPaymentRepository(r.q)
}

func (r repositories) Customers() domainRepo.CustomerRepository {
	return NewCustomerRepository(r.q)
}

func (r repositories) PaymentMethods() domainRepo.PaymentMethodRepository {
	return NewPaymentMethodRepository(r.q)
}

func (r repositories) Items() domainRepo.ItemRepository {
	return NewItemRepository(r.q)
}

func (r repositories) Users() domainRepo.UserRepository {
	return NewUserRepository(r.q)
}

type unitOfWork struct {
	repositories
}

// NewUnitOfWork binds the SQL repositories to q. Do opens a transaction
// on q and hands fn repositories bound to it.
func NewUnitOfWork(q store.Querier) domainRepo.UnitOfWork {
	return &unitOfWork{repositories: repositories{q: q}}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos domainRepo.Repositories) error) error {
	return u.q.Transaction(ctx, func(tx store.Querier) error {
		return fn(repositories{q: tx})
	})
}
