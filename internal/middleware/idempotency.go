package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	lockTTL           = 10 * time.Second
	stateProcessing   = "PROCESSING"
)

// completedResponse is stored under the key once the first submission succeeds.
type completedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// humaCtx aliases huma.Context so the embedded field is not named Context,
// which would shadow the interface's Context() method.
type humaCtx = huma.Context

type recordingContext struct {
	humaCtx
	contentType string
	body        bytes.Buffer
}

func (r *recordingContext) SetHeader(name, value string) {
	if http.CanonicalHeaderKey(name) == "Content-Type" {
		r.contentType = value
	}
	r.humaCtx.SetHeader(name, value)
}

func (r *recordingContext) BodyWriter() io.Writer {
	return io.MultiWriter(r.humaCtx.BodyWriter(), &r.body)
}

func replay(ctx huma.Context, state string) bool {
	var done completedResponse
	if err := json.Unmarshal([]byte(state), &done); err != nil || done.Status == 0 {
		return false
	}
	if done.ContentType != "" {
		ctx.SetHeader("Content-Type", done.ContentType)
	}
	ctx.SetStatus(done.Status)
	_, _ = ctx.BodyWriter().Write(done.Body)
	return true
}

func idempotencyKey(ctx huma.Context, key string) string {
	caller := sha256.Sum256([]byte(ctx.Header("Authorization")))
	return fmt.Sprintf("idempotency:%s:%s:%s", ctx.Operation().OperationID, hex.EncodeToString(caller[:8]), key)
}

// Idempotency answers a repeated submission carrying the same Idempotency-Key with
// the stored response of the first one, or 409 while that one is still running.
// A failed attempt releases the key so the client may retry. With no Redis client
// the middleware passes every request through.
func Idempotency(api huma.API, rdb *redis.Client, ttl time.Duration, log *zap.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := ctx.Header(IdempotencyHeader)
		if rdb == nil || key == "" {
			next(ctx)
			return
		}

		rkey := idempotencyKey(ctx, key)
		c := ctx.Context()

		acquired, err := rdb.SetNX(c, rkey, stateProcessing, lockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed, passing through", zap.Error(err))
			next(ctx)
			return
		}
		if !acquired {
			state, _ := rdb.Get(c, rkey).Result()
			ctx.SetHeader("X-Idempotency-Hit", "true")
			switch {
			case state == stateProcessing:
				_ = huma.WriteErr(api, ctx, http.StatusConflict, "Request is already in progress")
			case !replay(ctx, state):
				_ = huma.WriteErr(api, ctx, http.StatusConflict, "Request already processed")
			}
			return
		}

		rec := &recordingContext{humaCtx: ctx}
		next(rec)

		if rec.Status() >= http.StatusBadRequest {
			if err := rdb.Del(c, rkey).Err(); err != nil {
				log.Warn("idempotency release failed", zap.Error(err))
			}
			return
		}
		done, err := json.Marshal(completedResponse{
			Status:      rec.Status(),
			ContentType: rec.contentType,
			Body:        rec.body.Bytes(),
		})
		if err == nil {
			err = rdb.Set(c, rkey, done, ttl).Err()
		}
		if err != nil {
			log.Warn("idempotency complete failed", zap.Error(err))
		}
	}
}
