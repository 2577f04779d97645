package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/domain/repository"
	"github.com/sangkips/pos-backend/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the key store
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *logger.Logger
	// Required rejects requests without a key.
	Required bool
	Now      func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when an operator retries a create
// with the same key. The key is claimed before the handler runs, so a retry
// that races the first attempt gets 409 instead of a second order. Only 2xx
// responses are stored; any other outcome releases the key so a rejected
// checkout can be retried after the cart is fixed. Reusing a key for a
// different body is rejected.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	if config.Log == nil {
		config.Log = logger.Nop()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if config.Required {
				response.BadRequest(c, "Idempotency-Key header is required for this request")
				c.Abort()
				return
			}
			c.Next()
			return
		}
		if len(key) > 255 {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		userIDValue, _ := c.Get("user_id")
		userID, ok := userIDValue.(uuid.UUID)
		if !ok || userID == uuid.Nil {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Invalid request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])
		endpoint := c.Request.Method + " " + c.FullPath()
		ctx := c.Request.Context()

		now := config.Now()
		claim := &entity.IdempotencyKey{
			Key:         key,
			UserID:      userID,
			Endpoint:    endpoint,
			RequestHash: requestHash,
			ExpiresAt:   now.Add(IdempotencyKeyTTL),
		}
		existing, err := claimKey(ctx, config, claim, now)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if existing != nil {
			switch {
			case existing.Endpoint != endpoint || existing.RequestHash != requestHash:
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
			case existing.IsPending():
				response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
			default:
				c.Header(IdempotencyReplayedHeader, "true")
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			}
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		// The claim outlives the request context so a dropped client still
		// completes or releases it.
		done := context.WithoutCancel(ctx)
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := config.Repo.Delete(done, claim.ID); err != nil {
				config.Log.Warn("idempotency key not released", "key", key, "user_id", userID.String(), "error", err)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if err := config.Repo.Complete(done, claim.ID, status, blw.body.String()); err != nil {
			config.Log.Warn("idempotency key not stored", "key", key, "user_id", userID.String(), "error", err)
			return
		}
		completed = true
	}
}

// claimKey inserts claim as a pending key. The unique index on (key, user)
// lets exactly one concurrent request win; the others get the row that
// beat them. An expired row is purged and the insert tried once more.
func claimKey(ctx context.Context, config IdempotencyConfig, claim *entity.IdempotencyKey, now time.Time) (*entity.IdempotencyKey, error) {
	for attempt := 0; ; attempt++ {
		createErr := config.Repo.Create(ctx, claim)
		if createErr == nil {
			return nil, nil
		}
		if !errors.Is(createErr, apperror.ErrUniqueConstraint) {
			return nil, createErr
		}
		claim.ID = uuid.Nil

		existing, err := config.Repo.GetByKey(ctx, claim.Key, claim.UserID)
		if err != nil {
			return nil, err
		}
		if existing != nil && !existing.IsExpired(now) {
			return existing, nil
		}
		if attempt > 0 {
			return nil, createErr
		}
		if _, err := config.Repo.DeleteExpired(ctx, now); err != nil {
			config.Log.Warn("idempotency cleanup failed", "error", err)
		}
	}
}
