// Package memory implements the repository interfaces over in-process maps.
//
// Foreign keys, the unique order number and guarded state flips behave
// like the SQL implementation. A unit of work snapshots every table and
// restores the snapshot when its body fails.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/logger"
)

// Table names accepted by Count.
const (
	TableSalesOrders        = "sales_orders"
	TableSalesOrderItems    = "sales_order_items"
	TableSalesOrderCharges  = "sales_order_charges"
	TableSalesOrderPayments = "sales_order_payments"
)

type tables struct {
	orders         map[uuid.UUID]entity.SalesOrder
	orderItems     map[uuid.UUID]entity.SalesOrderItem
	orderCharges   map[uuid.UUID]entity.SalesOrderCharge
	payments       map[uuid.UUID]entity.SalesOrderPayment
	customers      map[uuid.UUID]entity.Customer
	paymentMethods map[uuid.UUID]entity.PaymentMethod
	catalog        map[uuid.UUID]entity.Item
	users          map[uuid.UUID]entity.User
}

func newTables() *tables {
	return &tables{
		orders:         map[uuid.UUID]entity.SalesOrder{},
		orderItems:     map[uuid.UUID]entity.SalesOrderItem{},
		orderCharges:   map[uuid.UUID]entity.SalesOrderCharge{},
		payments:       map[uuid.UUID]entity.SalesOrderPayment{},
		customers:      map[uuid.UUID]entity.Customer{},
		paymentMethods: map[uuid.UUID]entity.PaymentMethod{},
		catalog:        map[uuid.UUID]entity.Item{},
		users:          map[uuid.UUID]entity.User{},
	}
}

// clone copies every map. Rows are stored by value so a shallow map copy
// is enough.
func (t *tables) clone() *tables {
	return &tables{
		orders:         maps.Clone(t.orders),
		orderItems:     maps.Clone(t.orderItems),
		orderCharges:   maps.Clone(t.orderCharges),
		payments:       maps.Clone(t.payments),
		customers:      maps.Clone(t.customers),
		paymentMethods: maps.Clone(t.paymentMethods),
		catalog:        maps.Clone(t.catalog),
		users:          maps.Clone(t.users),
	}
}

// Store holds the tables behind one mutex.
type Store struct {
	mu  sync.Mutex
	t   *tables
	log *logger.Logger
}

func New(log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{t: newTables(), log: log}
}

// AddCustomer, AddItem, AddPaymentMethod and AddUser load reference data.
func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.customers[c.ID] = c
}

func (s *Store) AddItem(i entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.catalog[i.ID] = i
}

func (s *Store) AddPaymentMethod(m entity.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.paymentMethods[m.ID] = m
}

func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.users[u.ID] = u
}

// Count returns the number of rows in one of the order tables.
func (s *Store) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch table {
	case TableSalesOrders:
		return len(s.t.orders)
	case TableSalesOrderItems:
		return len(s.t.orderItems)
	case TableSalesOrderCharges:
		return len(s.t.orderCharges)
	case TableSalesOrderPayments:
		return len(s.t.payments)
	default:
		panic("memory: unknown table " + table)
	}
}

// session runs repository calls either under the store lock or inside a
// unit of work that already holds it.
type session struct {
	s      *Store
	locked bool
}

func (ss session) run(fn func(t *tables) error) error {
	if !ss.locked {
		ss.s.mu.Lock()
		defer ss.s.mu.Unlock()
	}
	return fn(ss.s.t)
}

func (ss session) Orders() domainRepo.SalesOrderRepository { return &orderRepo{ss} }

func (ss session) Payments() domainRepo.SalesOrderPaymentRepository { return &paymentRepo{ss} }

func (ss session) Customers() domainRepo.CustomerRepository { return &customerRepo{ss} }

func (ss session) PaymentMethods() domainRepo.PaymentMethodRepository { return &paymentMethodRepo{ss} }

func (ss session) Items() domainRepo.ItemRepository { return &itemRepo{ss} }

func (ss session) Users() domainRepo.UserRepository { return &userRepo{ss} }

type unitOfWork struct {
	session
}

// NewUnitOfWork returns a unit of work over s. Repositories handed to the
// Do body must be the only ones used until it returns.
func NewUnitOfWork(s *Store) domainRepo.UnitOfWork {
	return &unitOfWork{session{s: s}}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos domainRepo.Repositories) error) (err error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	snapshot := u.s.t.clone()
	defer func() {
		if r := recover(); r != nil {
			u.s.log.Error("transaction body panicked, rolling back", "panic", r)
			err = apperror.NewStoreError("transaction failed", fmt.Errorf("transaction body panicked: %v", r))
		}
		if err != nil {
			u.s.t = snapshot
		}
	}()

	if err := ctx.Err(); err != nil {
		return apperror.NewStoreError("transaction not started", err)
	}
	return fn(session{s: u.s, locked: true})
}
