package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

// Logger writes one line when a request starts and one when it completes.
// Both carry the request id and, for signed-in visitors, the username.
func Logger(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			entry := log.WithFields(requestFields(ctx, r))
			entry.Info("started")

			start := time.Now()
			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			status := lw.Status()
			if status == 0 {
				status = http.StatusOK
			}

			done := entry.WithFields(logrus.Fields{
				"statuscode": status,
				"bytes":      lw.BytesWritten(),
				"since":      time.Since(start).Nanoseconds(),
			})
			if loc := lw.Header().Get("Location"); loc != "" {
				done = done.WithField("location", loc)
			}
			done.Info("completed")

			return err
		}
		return h
	}
	return m
}

func requestFields(ctx context.Context, r *http.Request) logrus.Fields {
	f := logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"remoteaddr": r.RemoteAddr,
	}
	if rid := ContextRequestID(ctx); rid != "" {
		f["req_id"] = rid
	}
	if clm, err := claims.Get(ctx); err == nil {
		f["user"] = clm.Username
	}
	return f
}
