package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/logger"
	"github.com/sangkips/pos-backend/pkg/money"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type widget struct {
	ID        uuid.UUID
	Name      string
	Price     money.Money
	CreatedAt time.Time
}

var widgetColumns = []string{"id", "name", "price", "created_at"}

func (w *widget) Scan(r *Row) error {
	w.ID = r.UUID("id")
	w.Name = r.String("name")
	w.Price = r.Money("price")
	w.CreatedAt = r.Time("created_at")
	return r.Err()
}

func (w *widget) values() []any {
	return []any{w.ID, w.Name, w.Price, w.CreatedAt}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, ddl := range []string{
		`CREATE TABLE widgets (id TEXT PRIMARY KEY, name TEXT NOT NULL UNIQUE, price BIGINT NOT NULL, created_at DATETIME NOT NULL)`,
		`CREATE TABLE widget_parts (id TEXT PRIMARY KEY, widget_id TEXT NOT NULL REFERENCES widgets(id))`,
	} {
		if err := gdb.Exec(ddl).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}
	return New(gdb, logger.Nop())
}

func insertWidget(t *testing.T, ctx context.Context, q Querier, name string, price string) *widget {
	t.Helper()
	w := &widget{ID: uuid.New(), Name: name, Price: money.MustParse(price), CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if _, err := q.Execute(ctx, Insert("widgets", widgetColumns, w.values())); err != nil {
		t.Fatalf("insert %s: %v", name, err)
	}
	return w
}

func countWidgets(t *testing.T, ctx context.Context, q Querier) int64 {
	t.Helper()
	n, err := QueryInt64(ctx, q, NewStatement("SELECT COUNT(*) AS n FROM widgets"), "n")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestQueryOneRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	w := insertWidget(t, ctx, db, "bolt", "12.34")

	got, err := QueryOne[widget](ctx, db, NewStatement("SELECT "+Columns(widgetColumns)+" FROM widgets WHERE id = ?", w.ID))
	if err != nil {
		t.Fatalf("query one: %v", err)
	}
	if got.ID != w.ID || got.Name != "bolt" || got.Price.String() != "12.34" {
		t.Fatalf("unexpected widget: %+v", got)
	}
	if !got.CreatedAt.Equal(w.CreatedAt) {
		t.Fatalf("created_at: want=%s got=%s", w.CreatedAt, got.CreatedAt)
	}
}

func TestQueryOneNotFound(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := QueryOne[widget](ctx, db, NewStatement("SELECT "+Columns(widgetColumns)+" FROM widgets WHERE id = ?", uuid.New()))
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQueryOneDecodeNamesColumn(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	insertWidget(t, ctx, db, "nut", "1.00")

	_, err := QueryOne[widget](ctx, db, NewStatement("SELECT id, name, created_at FROM widgets"))
	if !errors.Is(err, apperror.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if appErr := apperror.GetAppError(err); appErr.Column != "price" {
		t.Fatalf("decode error should name price, got %+v", appErr)
	}

	_, err = QueryOne[widget](ctx, db, NewStatement("SELECT name AS id, name, price, created_at FROM widgets"))
	if appErr := apperror.GetAppError(err); appErr.Kind != apperror.KindDecode || appErr.Column != "id" || appErr.Expected != "uuid" {
		t.Fatalf("expected uuid decode error on id, got %v", err)
	}
}

func TestQueryOptional(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	sel := NewStatement("SELECT " + Columns(widgetColumns) + " FROM widgets ORDER BY name")

	got, err := QueryOptional[widget](ctx, db, sel)
	if err != nil || got != nil {
		t.Fatalf("empty table: got=%v err=%v", got, err)
	}

	insertWidget(t, ctx, db, "a-first", "1.00")
	insertWidget(t, ctx, db, "b-second", "2.00")

	got, err = QueryOptional[widget](ctx, db, sel)
	if err != nil {
		t.Fatalf("optional: %v", err)
	}
	if got == nil || got.Name != "a-first" {
		t.Fatalf("expected first row, got %+v", got)
	}
}

func TestQueryManyKeepsOrder(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	insertWidget(t, ctx, db, "c", "3.00")
	insertWidget(t, ctx, db, "a", "1.00")
	insertWidget(t, ctx, db, "b", "2.00")

	list, err := QueryMany[widget](ctx, db, NewStatement("SELECT "+Columns(widgetColumns)+" FROM widgets ORDER BY price DESC"))
	if err != nil {
		t.Fatalf("many: %v", err)
	}
	if len(list) != 3 || list[0].Name != "c" || list[2].Name != "a" {
		t.Fatalf("unexpected order: %v", list)
	}
}

func TestTransactionCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.Transaction(ctx, func(q Querier) error {
		insertWidget(t, ctx, q, "kept", "1.00")
		return nil
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	boom := errors.New("boom")
	err = db.Transaction(ctx, func(q Querier) error {
		insertWidget(t, ctx, q, "discarded", "1.00")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected body error, got %v", err)
	}

	err = db.Transaction(ctx, func(q Querier) error {
		insertWidget(t, ctx, q, "panicked", "1.00")
		panic("unexpected")
	})
	if err == nil {
		t.Fatalf("expected panic to surface as error")
	}

	if n := countWidgets(t, ctx, db); n != 1 {
		t.Fatalf("expected only the committed row, got %d", n)
	}
}

func TestNestedTransactionFailsFast(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.Transaction(ctx, func(q Querier) error {
		insertWidget(t, ctx, q, "outer", "1.00")
		return q.Transaction(ctx, func(Querier) error {
			t.Fatalf("nested body must not run")
			return nil
		})
	})
	if !errors.Is(err, ErrNestedTransaction) {
		t.Fatalf("expected nested transaction error, got %v", err)
	}
	if n := countWidgets(t, ctx, db); n != 0 {
		t.Fatalf("outer writes must roll back, got %d rows", n)
	}
}

func TestConstraintErrorsAreMapped(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	insertWidget(t, ctx, db, "dup", "1.00")

	dup := &widget{ID: uuid.New(), Name: "dup", CreatedAt: time.Now()}
	_, err := db.Execute(ctx, Insert("widgets", widgetColumns, dup.values()))
	if !errors.Is(err, apperror.ErrUniqueConstraint) {
		t.Fatalf("expected unique constraint, got %v", err)
	}

	_, err = db.Execute(ctx, NewStatement("INSERT INTO widget_parts (id, widget_id) VALUES (?, ?)", uuid.New(), uuid.New()))
	if !errors.Is(err, apperror.ErrForeignKeyConstraint) {
		t.Fatalf("expected foreign key constraint, got %v", err)
	}
}

func TestExecuteReturnsAffectedRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	insertWidget(t, ctx, db, "x", "1.00")
	insertWidget(t, ctx, db, "y", "1.00")

	n, err := Execute(ctx, db, NewStatement("UPDATE widgets SET price = ? WHERE price = ?", money.MustParse("2.00"), money.MustParse("1.00")))
	if err != nil || n != 2 {
		t.Fatalf("update: n=%d err=%v", n, err)
	}
	n, err = Execute(ctx, db, NewStatement("UPDATE widgets SET price = 0 WHERE name = ?", "missing"))
	if err != nil || n != 0 {
		t.Fatalf("no-op update: n=%d err=%v", n, err)
	}
}

func TestForUpdateOnlyOnPostgres(t *testing.T) {
	s := NewStatement("SELECT id FROM widgets WHERE id = ?", 1)
	if got := s.ForUpdate(DialectSQLite).SQL; got != s.SQL {
		t.Fatalf("sqlite should not lock: %s", got)
	}
	if got := s.ForUpdate(DialectPostgres).SQL; got != s.SQL+" FOR UPDATE" {
		t.Fatalf("postgres lock clause missing: %s", got)
	}
}
