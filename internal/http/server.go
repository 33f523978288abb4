// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendsmart/internal/cache"
	"spendsmart/internal/chat"
	"spendsmart/internal/services"
	"spendsmart/internal/vision"
)

type Server struct {
	http.Server

	ledger   *services.LedgerService
	overview *services.OverviewService
	budgets  *services.BudgetService

	recognizer vision.TextRecognizer

	sessions *sessionRegistry

	overviewCache *cache.LRU[services.Overview]
	rateLimiter   *rateLimiter

	shutdownOnce sync.Once
}

// Options tunes server behavior. Zero values fall back to defaults.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// NewServer wires routes and returns a ready-to-run server. The recognizer
// may be nil, in which case receipt scanning answers 503.
func NewServer(addr string, ledger *services.LedgerService, overview *services.OverviewService, budgets *services.BudgetService, recognizer vision.TextRecognizer, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ledger:        ledger,
		overview:      overview,
		budgets:       budgets,
		recognizer:    recognizer,
		sessions:      newSessionRegistry(func() *chat.Engine { return chat.NewEngine(overview) }),
		overviewCache: cache.NewLRU[services.Overview](opts.CacheSize, opts.CacheTTL),
		rateLimiter:   newRateLimiter(),
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/overview", s.withMiddleware(s.handleOverview))
	mux.HandleFunc("/api/history", s.withMiddleware(s.handleHistory))
	mux.HandleFunc("/api/budget", s.withMiddleware(s.handleBudget))
	mux.HandleFunc("/api/receipt", s.withMiddleware(s.handleReceipt))
	mux.HandleFunc("/api/chat", s.withMiddleware(s.handleChat))
	mux.HandleFunc("/api/export.csv", s.withMiddleware(s.handleExportCSV))

	return s
}

// Shutdown stops the HTTP server and background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The server cannot start without a reachable database, so liveness
	// implies readiness here.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// rateLimiter allows up to 60 write requests per client per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for ip, client := range rl.clients {
				if client.lastRequest.Before(cutoff) {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
