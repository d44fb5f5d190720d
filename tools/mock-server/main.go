// Package main implements a mock pickup-message server for local development.
// It mimics the retail pickup-availability endpoint so the monitor can be run
// end to end without touching the real upstream, and exposes admin endpoints
// to flip availability and to simulate anti-bot responses.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	modeNormal    = "normal"
	modeForbidden = "forbidden"
	modeThrottled = "throttled"
	modeError     = "error"
)

// upstream holds the mutable state the admin endpoints control.
type upstream struct {
	mu    sync.Mutex
	quote string
	mode  string
}

func (u *upstream) snapshot() (quote, mode string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.quote, u.mode
}

func (u *upstream) setQuote(q string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.quote = q
}

func (u *upstream) setMode(m string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.mode = m
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	quote := flag.String("quote", "Currently unavailable", "initial pickup quote")
	storeName := flag.String("store-name", "Mock Town Square", "store name in responses")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	state := &upstream{quote: *quote, mode: modeNormal}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /shop/retail/pickup-message", pickupHandler(logger, state, *storeName))
	mux.HandleFunc("POST /admin/availability", availabilityHandler(logger, state))
	mux.HandleFunc("POST /admin/mode", modeHandler(logger, state))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock pickup server", "addr", addr, "quote", *quote)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func pickupHandler(logger *slog.Logger, state *upstream, storeName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, mode := state.snapshot()

		switch mode {
		case modeForbidden:
			w.WriteHeader(http.StatusForbidden)
			logger.Info("served anti-bot response", "status", http.StatusForbidden)
			return
		case modeThrottled:
			w.WriteHeader(http.StatusTooManyRequests)
			logger.Info("served anti-bot response", "status", http.StatusTooManyRequests)
			return
		case modeError:
			w.WriteHeader(http.StatusInternalServerError)
			logger.Info("served error response", "status", http.StatusInternalServerError)
			return
		}

		part := r.URL.Query().Get("parts.0")
		store := r.URL.Query().Get("store")
		if part == "" || store == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{"error": "parts.0 and store are required"})
			return
		}

		display := "unavailable"
		if strings.Contains(strings.ToLower(quote), "available today") {
			display = "available"
		}

		resp := map[string]any{
			"head": map[string]any{"status": "200"},
			"body": map[string]any{
				"stores": []map[string]any{
					{
						"storeNumber": store,
						"storeName":   storeName,
						"partsAvailability": map[string]any{
							part: map[string]any{
								"pickupDisplay":     display,
								"pickupSearchQuote": quote,
							},
						},
					},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("pickup-message", "part", part, "store", store, "quote", quote)
	}
}

func availabilityHandler(logger *slog.Logger, state *upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote := r.URL.Query().Get("quote")
		if quote == "" {
			switch r.URL.Query().Get("state") {
			case "available":
				quote = "Available Today at Mock Town Square"
			case "unavailable":
				quote = "Currently unavailable"
			default:
				w.WriteHeader(http.StatusBadRequest)
				//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
				json.NewEncoder(w).Encode(map[string]string{"error": "state must be available or unavailable, or pass quote="})
				return
			}
		}
		state.setQuote(quote)
		w.WriteHeader(http.StatusNoContent)
		logger.Info("quote updated", "quote", quote)
	}
}

func modeHandler(logger *slog.Logger, state *upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("mode")
		switch mode {
		case modeNormal, modeForbidden, modeThrottled, modeError:
		default:
			w.WriteHeader(http.StatusBadRequest)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{"error": "mode must be normal, forbidden, throttled or error"})
			return
		}
		state.setMode(mode)
		w.WriteHeader(http.StatusNoContent)
		logger.Info("mode updated", "mode", mode)
	}
}
