package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meetings",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method and status code.",
	}, []string{"method", "code"})

	meetingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "meetings",
		Name:      "created_total",
		Help:      "Meetings accepted through the create endpoint.",
	})
)

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		httpRequests.WithLabelValues(req.Method, strconv.Itoa(ww.Status())).Inc()
	})
}
