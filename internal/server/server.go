// Package server wires the Connect services into an HTTP router.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/settleup/internal/engine"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/service"
	"github.com/mmynk/settleup/internal/settle"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// Server serves the group and settlement APIs.
type Server struct {
	store     storage.Store
	engine    *engine.Engine
	algorithm settle.Algorithm
}

// New creates a server backed by store. algorithm is used when a request
// does not name one.
func New(store storage.Store, eng *engine.Engine, algorithm settle.Algorithm) *Server {
	return &Server{store: store, engine: eng, algorithm: algorithm}
}

// Handler returns the chi router with all routes mounted, wrapped for
// HTTP/2 without TLS.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/algorithms", func(w http.ResponseWriter, r *http.Request) {
		type algorithm struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
		}
		algs := make([]algorithm, 0, len(settle.Algorithms))
		for _, a := range settle.Algorithms {
			algs = append(algs, algorithm{Name: a.String(), DisplayName: a.DisplayName()})
		}
		writeJSON(w, http.StatusOK, algs)
	})

	r.Handle("/metrics", promhttp.Handler())

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.LoggingInterceptor(),
	)

	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(service.NewGroupService(s.store), interceptors)
	r.Handle(groupPath+"*", groupHandler)

	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(
		service.NewSettlementService(s.store, s.engine, s.algorithm), interceptors)
	r.Handle(settlementPath+"*", settlementHandler)

	return h2c.NewHandler(r, &http2.Server{})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
