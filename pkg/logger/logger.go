// Package logger provides the process-wide structured logger built on log/slog.
//
// Handlers should log through WithCtx so every line carries the request id
// injected by the Logger middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.OrderID)
//	// → time=... level=INFO msg="order placed" request_id=5f0c... order_id=ORD-1A2B3C4D5E6F
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/farmermarket/backend/config"
)

var L *slog.Logger

// stderr receives failures of the log sinks themselves.
var stderr io.Writer = os.Stderr

func init() {
	L = slog.New(newHandler(os.Stdout, config.AppEnv()))
	slog.SetDefault(L)
}

// newHandler returns JSON output in production and text output elsewhere.
func newHandler(w io.Writer, env string) slog.Handler {
	switch strings.ToLower(env) {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Use replaces the base logger's handler, e.g. to fan out to MongoDB as well.
func Use(h slog.Handler) {
	L = slog.New(h)
	slog.SetDefault(L)
}

// Handler returns the handler currently behind the base logger.
func Handler() slog.Handler { return L.Handler() }

// EnableMongo adds a MongoHandler next to the current handler when
// LOG_MONGO_URI is configured. The returned func flushes and disconnects.
func EnableMongo() (func(), error) {
	uri := config.LogMongoURI()
	if uri == "" {
		return func() {}, nil
	}

	mh, err := NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection())
	if err != nil {
		return func() {}, err
	}

	Use(NewMultiHandler(Handler(), mh))
	return mh.Close, nil
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log into ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
