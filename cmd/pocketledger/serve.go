package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sebuszqo/PocketLedger/internal/auth"
	"github.com/sebuszqo/PocketLedger/internal/ledger/application"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	"github.com/sebuszqo/PocketLedger/internal/ledger/interfaces"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type Response struct {
	Message string `json:"message"`
}

type Server struct {
	router            *http.ServeMux
	jwtManager        *auth.JWTManager
	walletHandler     *interfaces.WalletHandler
	pocketHandler     *interfaces.PocketHandler
	creditCardHandler *interfaces.CreditCardHandler
	categoryHandler   *interfaces.CategoryHandler
	health            func() map[string]string
	logger            *slog.Logger
}

func NewServer(store domain.RecordStore, jwtManager *auth.JWTManager, health func() map[string]string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		router:     http.NewServeMux(),
		jwtManager: jwtManager,
		walletHandler: interfaces.NewWalletHandler(
			application.NewWalletService(store, logger), interfaces.RespondJSON, interfaces.RespondError, logger),
		pocketHandler: interfaces.NewPocketHandler(
			application.NewPocketService(store, logger), interfaces.RespondJSON, interfaces.RespondError, logger),
		creditCardHandler: interfaces.NewCreditCardHandler(
			application.NewCreditCardService(store, logger), interfaces.RespondJSON, interfaces.RespondError, logger),
		categoryHandler: interfaces.NewCategoryHandler(
			application.NewCategoryService(store, logger), interfaces.RespondJSON, interfaces.RespondError, logger),
		health: health,
		logger: logger,
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	stats := s.health()
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protect := s.jwtManager.JWTAccessTokenMiddleware()
	wallets, pockets, cards, categories := s.walletHandler, s.pocketHandler, s.creditCardHandler, s.categoryHandler

	// WALLETS API
	protectedRoutes.Handle("POST /api/protected/wallets", protect(http.HandlerFunc(wallets.CreateWallet)))
	protectedRoutes.Handle("GET /api/protected/wallets", protect(http.HandlerFunc(wallets.ListWallets)))
	protectedRoutes.Handle("GET /api/protected/wallets/pocket-counts", protect(http.HandlerFunc(wallets.PocketCounts)))
	protectedRoutes.Handle("GET /api/protected/wallets/{walletID}",
		protect(wallets.ValidatePathParams(http.HandlerFunc(wallets.GetWallet), "walletID")))
	protectedRoutes.Handle("PATCH /api/protected/wallets/{walletID}",
		protect(wallets.ValidatePathParams(http.HandlerFunc(wallets.UpdateWallet), "walletID")))
	protectedRoutes.Handle("DELETE /api/protected/wallets/{walletID}",
		protect(wallets.ValidatePathParams(http.HandlerFunc(wallets.DeleteWallet), "walletID")))
	protectedRoutes.Handle("POST /api/protected/wallets/{walletID}/deactivate",
		protect(wallets.ValidatePathParams(http.HandlerFunc(wallets.DeactivateWallet), "walletID")))
	protectedRoutes.Handle("GET /api/protected/wallets/{walletID}/verify",
		protect(wallets.ValidatePathParams(http.HandlerFunc(wallets.VerifyBalances), "walletID")))

	// POCKETS API
	protectedRoutes.Handle("POST /api/protected/wallets/{walletID}/pockets",
		protect(pockets.ValidatePathParams(http.HandlerFunc(pockets.CreatePocket), "walletID")))
	protectedRoutes.Handle("GET /api/protected/wallets/{walletID}/pockets",
		protect(pockets.ValidatePathParams(http.HandlerFunc(pockets.ListPockets), "walletID")))
	protectedRoutes.Handle("PATCH /api/protected/pockets/{pocketID}",
		protect(pockets.ValidatePathParams(http.HandlerFunc(pockets.RenamePocket), "pocketID")))
	protectedRoutes.Handle("DELETE /api/protected/pockets/{pocketID}",
		protect(pockets.ValidatePathParams(http.HandlerFunc(pockets.DeletePocket), "pocketID")))
	protectedRoutes.Handle("POST /api/protected/pockets/{pocketID}/deposit",
		protect(pockets.ValidatePathParams(http.HandlerFunc(pockets.Deposit), "pocketID")))
	protectedRoutes.Handle("POST /api/protected/pockets/{pocketID}/withdraw",
		protect(pockets.ValidatePathParams(http.HandlerFunc(pockets.Withdraw), "pocketID")))

	// CREDIT CARDS API
	protectedRoutes.Handle("POST /api/protected/credit-cards", protect(http.HandlerFunc(cards.CreateCreditCard)))
	protectedRoutes.Handle("GET /api/protected/credit-cards", protect(http.HandlerFunc(cards.ListCreditCards)))
	protectedRoutes.Handle("GET /api/protected/credit-cards/{cardID}",
		protect(cards.ValidatePathParams(http.HandlerFunc(cards.GetCreditCard), "cardID")))
	protectedRoutes.Handle("PATCH /api/protected/credit-cards/{cardID}",
		protect(cards.ValidatePathParams(http.HandlerFunc(cards.UpdateCreditCard), "cardID")))
	protectedRoutes.Handle("DELETE /api/protected/credit-cards/{cardID}",
		protect(cards.ValidatePathParams(http.HandlerFunc(cards.DeleteCreditCard), "cardID")))
	protectedRoutes.Handle("POST /api/protected/credit-cards/{cardID}/payments",
		protect(cards.ValidatePathParams(http.HandlerFunc(cards.PayCard), "cardID")))
	protectedRoutes.Handle("POST /api/protected/credit-cards/{cardID}/cashback-transfers",
		protect(cards.ValidatePathParams(http.HandlerFunc(cards.TransferCashback), "cardID")))

	// CATEGORIES API
	protectedRoutes.Handle("POST /api/protected/categories", protect(http.HandlerFunc(categories.CreateCategory)))
	protectedRoutes.Handle("GET /api/protected/categories", protect(http.HandlerFunc(categories.ListCategories)))
	protectedRoutes.Handle("GET /api/protected/categories/{categoryID}",
		protect(categories.ValidatePathParams(http.HandlerFunc(categories.GetCategory), "categoryID")))
	protectedRoutes.Handle("PATCH /api/protected/categories/{categoryID}",
		protect(categories.ValidatePathParams(http.HandlerFunc(categories.UpdateCategory), "categoryID")))
	protectedRoutes.Handle("DELETE /api/protected/categories/{categoryID}",
		protect(categories.ValidatePathParams(http.HandlerFunc(categories.DeleteCategory), "categoryID")))
	protectedRoutes.Handle("GET /api/protected/categories/{categoryID}/deletable",
		protect(categories.ValidatePathParams(http.HandlerFunc(categories.IsDeletable), "categoryID")))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.router)
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.RequireJWTSecret(); err != nil {
				return err
			}
			jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ls, err := openStore(ctx, cfg, migrate)
			if err != nil {
				return err
			}
			defer ls.close()

			server := NewServer(ls.store, jwtManager, ls.health, slog.Default())
			server.RegisterRoutes()
			return run(ctx, &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server started", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}
