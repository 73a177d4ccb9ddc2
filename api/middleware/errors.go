package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors logs every error returned by the handler chain and writes its
// response. Errors carrying an apperr kind get that kind's public response;
// anything else becomes a 500. With debug set, raw error text is sent back.
func Errors(log logrus.FieldLogger, debug bool) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			err = weberr.FromKind(err, debug)

			fields := logrus.Fields{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			log.WithFields(fields).Error("ERROR")

			if body, code, ok := weberr.Response(err); ok {
				return web.Respond(ctx, w, body, code)
			}

			msg := http.StatusText(http.StatusInternalServerError)
			if debug {
				msg = "Error: " + err.Error()
			}
			return web.Respond(ctx, w, weberr.ErrorResponse{Error: msg}, http.StatusInternalServerError)
		}
		return h
	}
	return m
}
