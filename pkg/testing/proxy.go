package testing

import (
	"net/http"
	"sync/atomic"
)

// proxyHandler forwards to a handler installed after the listener started.
// Requests arriving before set receive 503.
type proxyHandler struct {
	h atomic.Pointer[http.Handler]
}

func (p *proxyHandler) set(h http.Handler) {
	p.h.Store(&h)
}

func (p *proxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := p.h.Load()
	if h == nil {
		http.Error(w, "provider starting", http.StatusServiceUnavailable)
		return
	}
	(*h).ServeHTTP(w, r)
}
