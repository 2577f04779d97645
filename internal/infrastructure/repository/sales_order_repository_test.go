package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/internal/domain/pricing"
	domainRepo "github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/database/dbtest"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/logger"
	"github.com/sangkips/pos-backend/pkg/money"
	"github.com/sangkips/pos-backend/pkg/pagination"
)

type fixture struct {
	db  *store.DB
	fx  dbtest.Fixtures
	uow domainRepo.UnitOfWork
}

func setup(t *testing.T) fixture {
	t.Helper()
	gdb := dbtest.DB(t)
	fx := dbtest.Seed(t, gdb)
	db := store.New(gdb, logger.Nop())
	return fixture{db: db, fx: fx, uow: NewUnitOfWork(db)}
}

func (f fixture) buildOrder(t *testing.T, at time.Time) *entity.SalesOrder {
	t.Helper()
	b := pricing.NewBuilder()
	b.Now = func() time.Time { return at }
	order, err := b.Build(pricing.CustomerSnapshot{ID: &f.fx.Customer.ID, Name: &f.fx.Customer.Name}, []pricing.LineItemInput{
		{ItemID: f.fx.Items[0].ID, Name: "Tea", Price: money.MustParse("50.00"), Quantity: 2},
		{ItemID: f.fx.Items[1].ID, Name: "Mandazi", Price: money.MustParse("20.00"), Quantity: 1, Tax: money.MustParse("3.20")},
	}, []pricing.ChargeInput{{Name: "Service", Amount: money.MustParse("5.00")}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return order
}

func (f fixture) saveOrder(t *testing.T, order *entity.SalesOrder) {
	t.Helper()
	ctx := context.Background()
	err := f.uow.Do(ctx, func(r domainRepo.Repositories) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := r.Orders().CreateItems(ctx, order.Items); err != nil {
			return err
		}
		return r.Orders().CreateCharges(ctx, order.Charges)
	})
	if err != nil {
		t.Fatalf("save order: %v", err)
	}
}

func (f fixture) pay(t *testing.T, orderID uuid.UUID, amount string, at time.Time) *entity.SalesOrderPayment {
	t.Helper()
	p := &entity.SalesOrderPayment{
		ID:              uuid.New(),
		SalesOrderID:    orderID,
		PaymentMethodID: f.fx.Cash.ID,
		PaymentDate:     at,
		Amount:          money.MustParse(amount),
		State:           enum.PaymentStateCompleted,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	if err := f.uow.Payments().Create(context.Background(), p); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return p
}

func TestSalesOrderRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	order := f.buildOrder(t, time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	f.saveOrder(t, order)
	f.pay(t, order.ID, "30.00", order.OrderDate)

	got, err := f.uow.Orders().GetWithDetails(ctx, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.OrderNo != order.OrderNo || got.TotalAmount != order.TotalAmount || got.State != enum.OrderStateCreated {
		t.Fatalf("order = %+v", got)
	}
	if *got.CustomerID != f.fx.Customer.ID || !got.OrderDate.Equal(order.OrderDate) {
		t.Fatalf("customer/date mismatch: %+v", got)
	}
	if len(got.Items) != 2 || got.Items[0].ItemName != "Tea" || got.Items[1].TaxAmount != money.MustParse("3.20") {
		t.Fatalf("items = %+v", got.Items)
	}
	if len(got.Charges) != 1 || got.Charges[0].Amount != money.MustParse("5.00") {
		t.Fatalf("charges = %+v", got.Charges)
	}
	if got.PaidAmount != money.MustParse("30.00") || got.BalanceAmount != order.TotalAmount.Sub(money.MustParse("30.00")) {
		t.Fatalf("paid=%s balance=%s", got.PaidAmount, got.BalanceAmount)
	}
}

func TestSalesOrderGetByIDNotFound(t *testing.T) {
	f := setup(t)
	id := uuid.New()
	_, err := f.uow.Orders().GetByID(context.Background(), id)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if appErr := apperror.GetAppError(err); appErr.Resource != "SalesOrder" || appErr.ID != id.String() {
		t.Fatalf("not found error = %+v", appErr)
	}
}

func TestSalesOrderUnknownItemRollsBack(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	order := f.buildOrder(t, time.Now().UTC())
	order.Items[1].ItemID = uuid.New()

	err := f.uow.Do(ctx, func(r domainRepo.Repositories) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := r.Orders().CreateItems(ctx, order.Items); err != nil {
			return err
		}
		return r.Orders().CreateCharges(ctx, order.Charges)
	})
	if !errors.Is(err, apperror.ErrForeignKeyConstraint) {
		t.Fatalf("err = %v, want foreign key violation", err)
	}
	for _, table := range []string{salesOrdersTable, salesOrderItemsTable, salesOrderChargesTable} {
		if n := dbtest.CountRows(t, f.db.Gorm(), table); n != 0 {
			t.Fatalf("%s has %d rows after rollback", table, n)
		}
	}
}

func TestSalesOrderDuplicateOrderNo(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.buildOrder(t, time.Now().UTC())
	f.saveOrder(t, a)

	b := f.buildOrder(t, time.Now().UTC())
	b.OrderNo = a.OrderNo
	if err := f.uow.Orders().Create(ctx, b); !errors.Is(err, apperror.ErrUniqueConstraint) {
		t.Fatalf("err = %v, want unique violation", err)
	}
}

func TestSalesOrderMarkVoidedIsGuarded(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	order := f.buildOrder(t, time.Now().UTC())
	f.saveOrder(t, order)
	at := time.Now().UTC().Truncate(time.Second)

	ok, err := f.uow.Orders().MarkVoided(ctx, order.ID, &f.fx.Operator.ID, at)
	if err != nil || !ok {
		t.Fatalf("first void ok=%v err=%v", ok, err)
	}
	ok, err = f.uow.Orders().MarkVoided(ctx, order.ID, &f.fx.Operator.ID, at.Add(time.Hour))
	if err != nil || ok {
		t.Fatalf("second void ok=%v err=%v", ok, err)
	}

	got, err := f.uow.Orders().GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsVoided() || *got.VoidedBy != f.fx.Operator.ID || !got.VoidedAt.Equal(at) {
		t.Fatalf("order = %+v", got)
	}
}

func TestSalesOrderList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	var orders []*entity.SalesOrder
	for i := 0; i < 3; i++ {
		o := f.buildOrder(t, base.Add(time.Duration(i)*time.Hour))
		f.saveOrder(t, o)
		orders = append(orders, o)
	}
	f.pay(t, orders[2].ID, "10.00", base)
	if _, err := f.uow.Orders().MarkVoided(ctx, orders[0].ID, nil, base); err != nil {
		t.Fatalf("void: %v", err)
	}

	list, total, err := f.uow.Orders().List(ctx, &domainRepo.SalesOrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 2},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Fatalf("total=%d len=%d", total, len(list))
	}
	if list[0].ID != orders[2].ID || list[0].PaidAmount != money.MustParse("10.00") {
		t.Fatalf("newest first with paid amount, got %+v", list[0])
	}

	created := enum.OrderStateCreated
	list, total, err = f.uow.Orders().List(ctx, &domainRepo.SalesOrderFilterParams{State: &created})
	if err != nil || total != 2 || len(list) != 2 {
		t.Fatalf("state filter total=%d err=%v", total, err)
	}

	end := base.Add(30 * time.Minute)
	_, total, err = f.uow.Orders().List(ctx, &domainRepo.SalesOrderFilterParams{EndDate: &end})
	if err != nil || total != 1 {
		t.Fatalf("date filter total=%d err=%v", total, err)
	}

	_, total, err = f.uow.Orders().List(ctx, &domainRepo.SalesOrderFilterParams{Search: orders[1].OrderNo[3:]})
	if err != nil || total != 1 {
		t.Fatalf("search total=%d err=%v", total, err)
	}
}
