package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/farmermarket/backend/pkg/logger"
	"github.com/farmermarket/backend/pkg/reqid"
	"github.com/farmermarket/backend/pkg/response"
)

// Recovery answers a handler panic with the 500 envelope. http.ErrAbortHandler
// is re-raised so net/http can drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}
			logPanic(r, v)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}

func logPanic(r *http.Request, v any) {
	logger.WithCtx(r.Context()).Error("handler panicked",
		"request_id", reqid.FromCtx(r.Context()),
		"route", routePattern(r),
		"method", r.Method,
		"panic", fmt.Sprint(v),
		"stack", string(debug.Stack()),
	)
}
