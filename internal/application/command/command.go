// Package command is the entry point API layers use to drive the order
// and payment services. Every call goes through a Dispatcher, which runs
// one command at a time.
package command

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/application/service"
	"github.com/sangkips/pos-backend/internal/observability"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/logger"
	"github.com/sangkips/pos-backend/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Command is one operation with a typed result.
type Command[T any] interface {
	Name() string
	Exec(ctx context.Context, c *Context) (T, error)
}

// Context carries the services and session state a command runs with.
type Context struct {
	Orders   *service.OrderService
	Payments *service.PaymentService
	Log      *logger.Logger

	// UserID stamps created_by and voided_by. Nil for system calls.
	UserID *uuid.UUID
}

// WithUser returns a copy of c for one request by the given operator.
func (c Context) WithUser(userID uuid.UUID) *Context {
	c.UserID = utils.UUIDPtr(userID)
	return &c
}

// Dispatcher serializes commands against a shared base context.
type Dispatcher struct {
	mu     sync.Mutex
	base   Context
	tracer trace.Tracer
}

// NewDispatcher creates a dispatcher. A nil tracer uses the global one.
func NewDispatcher(base Context, tracer trace.Tracer) *Dispatcher {
	if base.Log == nil {
		base.Log = logger.Nop()
	}
	if tracer == nil {
		tracer = observability.Tracer()
	}
	return &Dispatcher{base: base, tracer: tracer}
}

// Execute runs cmd on behalf of userID. At most one command is in flight
// per dispatcher.
func Execute[T any](ctx context.Context, d *Dispatcher, userID uuid.UUID, cmd Command[T]) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := cmd.Name()
	ctx, span := d.tracer.Start(ctx, "command."+name, trace.WithAttributes(
		attribute.String("command.name", name),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	c := d.base.WithUser(userID)
	out, err := cmd.Exec(ctx, c)
	if err != nil {
		appErr := apperror.GetAppError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, appErr.Message)
		span.SetAttributes(
			attribute.String("error.kind", string(appErr.Kind)),
			attribute.String("error.reason", string(appErr.Reason)),
		)

		fields := []interface{}{
			"command", name,
			"user_id", userID.String(),
			"kind", appErr.Kind,
			"reason", appErr.Reason,
			"error", err,
		}
		if appErr.Kind == apperror.KindStore || appErr.Kind == apperror.KindDecode {
			c.Log.Error("command failed", fields...)
		} else {
			c.Log.Warn("command rejected", fields...)
		}
	}
	return out, err
}
