package http

import (
	"context"
	"net/http"
)

// StreamDrainer ends long-lived streaming requests once shutdown begins.
// http.Server.Shutdown waits for active connections, which an open event
// stream never releases on its own.
type StreamDrainer struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewStreamDrainer() *StreamDrainer {
	ctx, cancel := context.WithCancel(context.Background())
	return &StreamDrainer{ctx: ctx, cancel: cancel}
}

// Middleware cancels the request context when Drain is called
func (d *StreamDrainer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		stop := context.AfterFunc(d.ctx, cancel)
		defer stop()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Drain cancels every stream, current and future
func (d *StreamDrainer) Drain() {
	d.cancel()
}
