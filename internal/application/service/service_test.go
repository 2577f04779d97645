package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/enum"
	"github.com/sangkips/pos-backend/internal/domain/pricing"
	"github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/database/dbtest"
	infraRepo "github.com/sangkips/pos-backend/internal/infrastructure/repository"
	"github.com/sangkips/pos-backend/internal/infrastructure/repository/memory"
	"github.com/sangkips/pos-backend/internal/infrastructure/store"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/logger"
	"github.com/sangkips/pos-backend/pkg/money"
)

// backend is one repository implementation the services run against.
type backend struct {
	name  string
	uow   repository.UnitOfWork
	fx    dbtest.Fixtures
	count func(t *testing.T, table string) int64
}

func sqliteBackend(t *testing.T) backend {
	gdb := dbtest.DB(t)
	fx := dbtest.Seed(t, gdb)
	return backend{
		name: "sqlite",
		uow:  infraRepo.NewUnitOfWork(store.New(gdb, logger.Nop())),
		fx:   fx,
		count: func(t *testing.T, table string) int64 {
			return dbtest.CountRows(t, gdb, table)
		},
	}
}

func memoryBackend(t *testing.T) backend {
	s := memory.New(logger.Nop())
	phone := "+254700000001"
	fx := dbtest.Fixtures{
		Customer: entity.Customer{ID: uuid.New(), Name: "Jane Wanjiku", Phone: &phone},
		Items: []entity.Item{
			{ID: uuid.New(), Name: "Tea", PriceAmount: money.MustParse("50.00")},
			{ID: uuid.New(), Name: "Mandazi", PriceAmount: money.MustParse("20.00")},
		},
		Cash:     entity.PaymentMethod{ID: uuid.New(), Code: "cash", Name: "Cash"},
		Card:     entity.PaymentMethod{ID: uuid.New(), Code: "card", Name: "Card"},
		Operator: entity.User{ID: uuid.New(), Name: "Till One", Email: "till1@example.com", Role: entity.RoleCashier},
	}
	s.AddCustomer(fx.Customer)
	for _, it := range fx.Items {
		s.AddItem(it)
	}
	s.AddPaymentMethod(fx.Cash)
	s.AddPaymentMethod(fx.Card)
	s.AddUser(fx.Operator)
	return backend{
		name: "memory",
		uow:  memory.NewUnitOfWork(s),
		fx:   fx,
		count: func(t *testing.T, table string) int64 {
			return int64(s.Count(table))
		},
	}
}

// forEachBackend runs fn once per repository implementation.
func forEachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, sqliteBackend(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, memoryBackend(t)) })
}

func (b backend) services() (*OrderService, *PaymentService) {
	return NewOrderService(b.uow, nil), NewPaymentService(b.uow)
}

// orderOf creates an order whose total is exactly total.
func (b backend) orderOf(t *testing.T, orders *OrderService, total string) *entity.SalesOrder {
	t.Helper()
	order, err := orders.CreateOrder(context.Background(), &CreateOrderInput{
		UserID: &b.fx.Operator.ID,
		Items: []pricing.LineItemInput{
			{ItemID: b.fx.Items[0].ID, Name: "Tea", Price: money.MustParse(total), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func (b backend) pay(t *testing.T, payments *PaymentService, orderID uuid.UUID, amount string) (*entity.SalesOrderPayment, error) {
	t.Helper()
	return payments.CreatePayment(context.Background(), &CreatePaymentInput{
		UserID:          &b.fx.Operator.ID,
		OrderID:         orderID,
		PaymentMethodID: b.fx.Cash.ID,
		Amount:          money.MustParse(amount),
	})
}

func TestCreateOrderPersistsAggregate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, _ := b.services()
		order, err := orders.CreateOrder(context.Background(), &CreateOrderInput{
			UserID:     &b.fx.Operator.ID,
			CustomerID: &b.fx.Customer.ID,
			Items: []pricing.LineItemInput{
				{ItemID: b.fx.Items[0].ID, Name: "Tea", Price: money.MustParse("50.00"), Quantity: 2, Discount: money.MustParse("5.00")},
				{ItemID: b.fx.Items[1].ID, Name: "Mandazi", Price: money.MustParse("20.00"), Quantity: 1, TaxRate: ptr(money.MustPercentage("16"))},
			},
			Charges: []pricing.ChargeInput{{Name: "Delivery", Amount: money.MustParse("10.00")}},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if order.TotalAmount != money.MustParse("128.20") {
			t.Fatalf("total = %s", order.TotalAmount)
		}
		if order.CustomerName == nil || *order.CustomerName != b.fx.Customer.Name || *order.CustomerPhone != *b.fx.Customer.Phone {
			t.Fatalf("customer snapshot = %v %v", order.CustomerName, order.CustomerPhone)
		}
		if order.CreatedBy == nil || *order.CreatedBy != b.fx.Operator.ID {
			t.Fatalf("created_by = %v", order.CreatedBy)
		}
		if len(order.Items) != 2 || len(order.Charges) != 1 || order.BalanceAmount != order.TotalAmount {
			t.Fatalf("aggregate = %+v", order)
		}

		got, err := orders.GetOrder(context.Background(), order.ID)
		if err != nil || got.OrderNo != order.OrderNo {
			t.Fatalf("get: %+v %v", got, err)
		}
	})
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, _ := b.services()
		_, err := orders.CreateOrder(context.Background(), &CreateOrderInput{})
		if !errors.Is(err, apperror.ErrEmptyOrder) {
			t.Fatalf("err = %v", err)
		}
		if n := b.count(t, "sales_orders"); n != 0 {
			t.Fatalf("orders = %d", n)
		}
	})
}

func TestCreateOrderUnknownItemLeavesNoRows(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, _ := b.services()
		_, err := orders.CreateOrder(context.Background(), &CreateOrderInput{
			Items: []pricing.LineItemInput{
				{ItemID: b.fx.Items[0].ID, Name: "Tea", Price: money.MustParse("1.00"), Quantity: 1},
				{ItemID: uuid.New(), Name: "Ghost", Price: money.MustParse("1.00"), Quantity: 1},
			},
			Charges: []pricing.ChargeInput{{Name: "Bag", Amount: money.MustParse("0.10")}},
		})
		if !errors.Is(err, apperror.ErrForeignKeyConstraint) {
			t.Fatalf("err = %v", err)
		}
		for _, table := range []string{"sales_orders", "sales_order_items", "sales_order_charges"} {
			if n := b.count(t, table); n != 0 {
				t.Fatalf("%s = %d rows", table, n)
			}
		}
	})
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, _ := b.services()
		missing := uuid.New()
		_, err := orders.CreateOrder(context.Background(), &CreateOrderInput{
			CustomerID: &missing,
			Items:      []pricing.LineItemInput{{ItemID: b.fx.Items[0].ID, Name: "Tea", Price: money.MustParse("1.00"), Quantity: 1}},
		})
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("err = %v", err)
		}
		if n := b.count(t, "sales_orders"); n != 0 {
			t.Fatalf("orders = %d", n)
		}
	})
}

func TestPaymentBalanceRule(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, payments := b.services()
		order := b.orderOf(t, orders, "100.00")

		first, err := b.pay(t, payments, order.ID, "60.00")
		if err != nil {
			t.Fatalf("pay 60: %v", err)
		}
		_, err = b.pay(t, payments, order.ID, "50.00")
		if !errors.Is(err, apperror.ErrOverpayment) {
			t.Fatalf("pay 50: err = %v", err)
		}
		details := apperror.GetAppError(err).Details
		if details["attempted_amount"] != "50.00" || details["paid_amount"] != "60.00" || details["total_amount"] != "100.00" {
			t.Fatalf("details = %v", details)
		}
		if _, err := b.pay(t, payments, order.ID, "40.00"); err != nil {
			t.Fatalf("pay 40: %v", err)
		}
		if _, err := payments.VoidPayment(context.Background(), first.ID, &b.fx.Operator.ID); err != nil {
			t.Fatalf("void 60: %v", err)
		}
		if _, err := b.pay(t, payments, order.ID, "60.00"); err != nil {
			t.Fatalf("pay 60 again: %v", err)
		}

		got, err := orders.GetOrder(context.Background(), order.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.PaidAmount != money.MustParse("100.00") || !got.BalanceAmount.IsZero() || len(got.Payments) != 3 {
			t.Fatalf("paid=%s balance=%s payments=%d", got.PaidAmount, got.BalanceAmount, len(got.Payments))
		}
	})
}

func TestPaymentNearMaxAmountIsOverpayment(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, payments := b.services()
		ctx := context.Background()
		order := b.orderOf(t, orders, "100.00")
		first, err := b.pay(t, payments, order.ID, "60.00")
		if err != nil {
			t.Fatalf("pay 60: %v", err)
		}

		huge := money.FromMinor(math.MaxInt64 - 5000)
		_, err = payments.CreatePayment(ctx, &CreatePaymentInput{
			UserID:          &b.fx.Operator.ID,
			OrderID:         order.ID,
			PaymentMethodID: b.fx.Cash.ID,
			Amount:          huge,
		})
		if !errors.Is(err, apperror.ErrOverpayment) {
			t.Fatalf("create: err = %v", err)
		}
		if _, err := b.pay(t, payments, order.ID, "30.00"); err != nil {
			t.Fatalf("pay 30: %v", err)
		}
		if _, err := payments.UpdatePayment(ctx, &UpdatePaymentInput{PaymentID: first.ID, Amount: &huge}); !errors.Is(err, apperror.ErrOverpayment) {
			t.Fatalf("update: err = %v", err)
		}
		if n := b.count(t, "sales_order_payments"); n != 2 {
			t.Fatalf("payments = %d", n)
		}

		got, err := orders.GetOrder(ctx, order.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.PaidAmount != money.MustParse("90.00") || got.BalanceAmount != money.MustParse("10.00") {
			t.Fatalf("paid=%s balance=%s", got.PaidAmount, got.BalanceAmount)
		}
	})
}

func TestCreateOrderTotalOutOfRangeLeavesNoRows(t *testing.T) {
	half := money.FromMinor(math.MaxInt64/2 + 1)
	carts := map[string]struct {
		items   []pricing.LineItemInput
		charges []pricing.ChargeInput
	}{
		"lines": {
			items: []pricing.LineItemInput{
				{Name: "Tea", Price: half, Quantity: 1},
				{Name: "Mandazi", Price: half, Quantity: 1},
			},
		},
		"charges": {
			items:   []pricing.LineItemInput{{Name: "Tea", Price: money.MustParse("1.00"), Quantity: 1}},
			charges: []pricing.ChargeInput{{Name: "Delivery", Amount: money.FromMinor(math.MaxInt64)}},
		},
	}
	for name, cart := range carts {
		t.Run(name, func(t *testing.T) {
			forEachBackend(t, func(t *testing.T, b backend) {
				orders, _ := b.services()
				items := make([]pricing.LineItemInput, len(cart.items))
				for i, in := range cart.items {
					in.ItemID = b.fx.Items[i%len(b.fx.Items)].ID
					items[i] = in
				}
				_, err := orders.CreateOrder(context.Background(), &CreateOrderInput{
					UserID:  &b.fx.Operator.ID,
					Items:   items,
					Charges: cart.charges,
				})
				if !errors.Is(err, apperror.ErrInvalidInput) {
					t.Fatalf("err = %v", err)
				}
				for _, table := range []string{"sales_orders", "sales_order_items", "sales_order_charges"} {
					if n := b.count(t, table); n != 0 {
						t.Fatalf("%s = %d rows", table, n)
					}
				}
			})
		})
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, payments := b.services()
		order := b.orderOf(t, orders, "10.00")
		ctx := context.Background()

		if _, err := b.pay(t, payments, order.ID, "0.00"); !errors.Is(err, apperror.ErrInvalidInput) {
			t.Fatalf("zero amount: %v", err)
		}
		if _, err := b.pay(t, payments, uuid.New(), "1.00"); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("unknown order: %v", err)
		}
		_, err := payments.CreatePayment(ctx, &CreatePaymentInput{OrderID: order.ID, PaymentMethodID: uuid.New(), Amount: money.MustParse("1.00")})
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("unknown method: %v", err)
		}
		if n := b.count(t, "sales_order_payments"); n != 0 {
			t.Fatalf("payments = %d", n)
		}
	})
}

func TestVoidOrderVoidsPayments(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, payments := b.services()
		ctx := context.Background()
		order := b.orderOf(t, orders, "100.00")
		for _, amount := range []string{"30.00", "20.00"} {
			if _, err := b.pay(t, payments, order.ID, amount); err != nil {
				t.Fatalf("pay: %v", err)
			}
		}

		voided, err := orders.VoidOrder(ctx, order.ID, &b.fx.Operator.ID)
		if err != nil {
			t.Fatalf("void: %v", err)
		}
		if voided.State != enum.OrderStateVoided || voided.VoidedBy == nil || *voided.VoidedBy != b.fx.Operator.ID {
			t.Fatalf("order = %+v", voided)
		}
		if len(voided.Payments) != 2 {
			t.Fatalf("payments = %d", len(voided.Payments))
		}
		for _, p := range voided.Payments {
			if p.State != enum.PaymentStateVoided {
				t.Fatalf("payment %s state = %v", p.ID, p.State)
			}
		}
		if !voided.PaidAmount.IsZero() {
			t.Fatalf("paid = %s", voided.PaidAmount)
		}

		if _, err := b.pay(t, payments, order.ID, "1.00"); !errors.Is(err, apperror.ErrOrderVoided) {
			t.Fatalf("pay voided order: %v", err)
		}
	})
}

func TestVoidOrderTwice(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, payments := b.services()
		ctx := context.Background()
		order := b.orderOf(t, orders, "100.00")
		if _, err := b.pay(t, payments, order.ID, "10.00"); err != nil {
			t.Fatalf("pay: %v", err)
		}
		first, err := orders.VoidOrder(ctx, order.ID, &b.fx.Operator.ID)
		if err != nil {
			t.Fatalf("void: %v", err)
		}

		_, err = orders.VoidOrder(ctx, order.ID, nil)
		if !errors.Is(err, apperror.ErrAlreadyVoided) || errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("second void err = %v", err)
		}

		after, err := orders.GetOrder(ctx, order.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !after.VoidedAt.Equal(*first.VoidedAt) || *after.VoidedBy != *first.VoidedBy || !after.UpdatedAt.Equal(first.UpdatedAt) {
			t.Fatalf("order changed by second void: %+v", after)
		}
		if !after.Payments[0].VoidedAt.Equal(*first.Payments[0].VoidedAt) {
			t.Fatalf("payment changed by second void")
		}

		if _, err := orders.VoidOrder(ctx, uuid.New(), nil); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("unknown order err = %v", err)
		}
	})
}

func TestUpdatePayment(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, payments := b.services()
		ctx := context.Background()
		order := b.orderOf(t, orders, "100.00")
		a, err := b.pay(t, payments, order.ID, "60.00")
		if err != nil {
			t.Fatalf("pay: %v", err)
		}
		if _, err := b.pay(t, payments, order.ID, "30.00"); err != nil {
			t.Fatalf("pay: %v", err)
		}

		seventy := money.MustParse("70.00")
		ref := "MPESA-XYZ"
		updated, err := payments.UpdatePayment(ctx, &UpdatePaymentInput{PaymentID: a.ID, Amount: &seventy, PaymentMethodID: &b.fx.Card.ID, ReferenceNo: &ref})
		if err != nil {
			t.Fatalf("update to 70: %v", err)
		}
		if updated.Amount != seventy || updated.PaymentMethodID != b.fx.Card.ID || *updated.ReferenceNo != ref {
			t.Fatalf("updated = %+v", updated)
		}

		seventyOne := money.MustParse("70.01")
		if _, err := payments.UpdatePayment(ctx, &UpdatePaymentInput{PaymentID: a.ID, Amount: &seventyOne}); !errors.Is(err, apperror.ErrOverpayment) {
			t.Fatalf("update to 70.01: %v", err)
		}

		if _, err := payments.VoidPayment(ctx, a.ID, nil); err != nil {
			t.Fatalf("void: %v", err)
		}
		if _, err := payments.UpdatePayment(ctx, &UpdatePaymentInput{PaymentID: a.ID, Amount: &seventy}); !errors.Is(err, apperror.ErrAlreadyVoided) {
			t.Fatalf("update voided: %v", err)
		}
		if _, err := payments.VoidPayment(ctx, a.ID, nil); !errors.Is(err, apperror.ErrAlreadyVoided) {
			t.Fatalf("void twice: %v", err)
		}

		list, err := payments.ListPayments(ctx, order.ID)
		if err != nil || len(list) != 2 {
			t.Fatalf("list = %d %v", len(list), err)
		}
	})
}

func TestListOrders(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		orders, _ := b.services()
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			b.orderOf(t, orders, "1.00")
		}
		page, err := orders.ListOrders(ctx, nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Pagination.Total != 3 || len(page.Items) != 3 {
			t.Fatalf("page = %+v", page.Pagination)
		}

		start := time.Now().Add(time.Hour)
		end := time.Now()
		_, err = orders.ListOrders(ctx, &repository.SalesOrderFilterParams{StartDate: &start, EndDate: &end})
		if !errors.Is(err, apperror.ErrInvalidInput) {
			t.Fatalf("inverted range err = %v", err)
		}
	})
}

func ptr[T any](v T) *T { return &v }
