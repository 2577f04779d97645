package repository

import "context"

// Repositories gives access to every repository bound to one querier.
type Repositories interface {
	Orders() SalesOrderRepository
	Payments() SalesOrderPaymentRepository
	Customers() CustomerRepository
	PaymentMethods() PaymentMethodRepository
	Items() ItemRepository
	Users() UserRepository
}

// UnitOfWork runs fn with repositories scoped to a single transaction. An
// error or panic from fn discards every write made through them. The
// embedded Repositories run outside any transaction.
type UnitOfWork interface {
	Repositories
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
