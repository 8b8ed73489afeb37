package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pcqvix1/ecommerce/internal/email"
	"github.com/pcqvix1/ecommerce/internal/handler"
	"github.com/pcqvix1/ecommerce/internal/identity"
	"github.com/pcqvix1/ecommerce/internal/middleware"
	"github.com/pcqvix1/ecommerce/internal/password"
	"github.com/pcqvix1/ecommerce/internal/store"
	"github.com/pcqvix1/ecommerce/internal/websocket"
)

type Config struct {
	BcryptCost                int
	RelinkOnPasswordlessLogin bool
}

type Server struct {
	db          *sql.DB
	hub         *websocket.Hub
	userH       *handler.UserHandler
	purchaseH   *handler.PurchaseHandler
	emailH      *handler.EmailHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, emailClient *email.Client, cfg Config, logger *slog.Logger) *Server {
	hub := websocket.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	purchaseStore := store.NewPurchaseStore(db)

	identitySvc := identity.NewService(
		userStore,
		password.NewBcrypt(cfg.BcryptCost),
		identity.Config{RelinkOnPasswordlessLogin: cfg.RelinkOnPasswordlessLogin},
		logger.With("component", "identity"),
	)

	return &Server{
		db:          db,
		hub:         hub,
		userH:       handler.NewUserHandler(identitySvc, logger.With("component", "users")),
		purchaseH:   handler.NewPurchaseHandler(purchaseStore, userStore, emailClient, hub, logger.With("component", "purchases")),
		emailH:      handler.NewEmailHandler(emailClient, logger.With("component", "email")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Credential endpoint is rate-limited per client IP
	mux.HandleFunc("POST /api/users", s.rateLimitedHandler(s.userH.Dispatch))

	mux.HandleFunc("POST /api/purchases", s.purchaseH.Create)
	mux.HandleFunc("GET /api/purchases", s.purchaseH.List)

	mux.HandleFunc("POST /api/send-email", s.emailH.Send)

	// Live order feed for the admin dashboard
	mux.Handle("GET /ws", websocket.Handle(s.hub))

	mux.HandleFunc("GET /health", s.healthHandler)

	h := middleware.CORS(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
