// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tutor-ledger/internal/api/handler"
	"tutor-ledger/internal/metrics"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	walletHandler *handler.WalletHandler,
	paymentHandler *handler.PaymentHandler,
	rewardHandler *handler.RewardHandler,
	configHandler *handler.ConfigHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(metricsMiddleware)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Payment lifecycle
	r.Route("/payments", func(r chi.Router) {
		r.Post("/", paymentHandler.CreatePayment)
		r.Get("/{paymentID}", paymentHandler.GetPayment)
		r.Post("/{paymentID}/confirm", paymentHandler.ConfirmPayment)
	})

	// Per-student read surface
	r.Route("/students/{studentID}", func(r chi.Router) {
		r.Get("/wallet", walletHandler.GetWallet)
		r.Get("/wallet/transactions", walletHandler.ListTransactions)
		r.Get("/wallet/audit", walletHandler.AuditWallet)
		r.Get("/payments", paymentHandler.ListPayments)
	})

	// Reward grants (called by backend collaborators)
	r.Route("/rewards", func(r chi.Router) {
		r.Post("/course-completion", rewardHandler.CourseCompletion)
		r.Post("/referral", rewardHandler.Referral)
		r.Post("/registration", rewardHandler.Registration)
	})

	// Wallet mutations with their own request bodies
	r.Post("/wallet/adjust", walletHandler.Adjust)
	r.Post("/wallet/redeem", walletHandler.Redeem)

	// Coin configuration admin
	r.Route("/config/coins", func(r chi.Router) {
		r.Get("/", configHandler.List)
		r.Get("/{key}", configHandler.Get)
		r.Put("/{key}", configHandler.Update)
	})

	return r
}

// metricsMiddleware records request counts and latency per route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = r.URL.Path
		}
		metrics.RecordHTTPRequest(r.Method, pattern, strconv.Itoa(ww.Status()), time.Since(start).Seconds())
	})
}
