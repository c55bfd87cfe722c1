package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateWindow = time.Minute

var now = time.Now

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// RateLimit allows perMinute calls per client IP and operation in a fixed one
// minute window. Redis failures and a nil client let the request through.
func RateLimit(api huma.API, rdb *redis.Client, perMinute int, log *zap.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if rdb == nil || perMinute <= 0 {
			next(ctx)
			return
		}

		t := now()
		window := t.Truncate(rateWindow)
		key := fmt.Sprintf("ratelimit:%s:%s:%d", ctx.Operation().OperationID, clientIP(ctx.RemoteAddr()), window.Unix())
		c := ctx.Context()

		var incr *redis.IntCmd
		_, err := rdb.TxPipelined(c, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(c, key)
			pipe.Expire(c, key, rateWindow)
			return nil
		})
		if err != nil {
			log.Warn("rate limit check failed, passing through", zap.Error(err))
			next(ctx)
			return
		}
		count := incr.Val()

		remaining := int64(perMinute) - count
		if remaining < 0 {
			remaining = 0
		}
		ctx.SetHeader("X-RateLimit-Limit", strconv.Itoa(perMinute))
		ctx.SetHeader("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(perMinute) {
			retry := window.Add(rateWindow).Sub(t)
			ctx.SetHeader("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		next(ctx)
	}
}
