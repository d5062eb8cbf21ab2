package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storefrontlabs/storefront-api/internal/api/handlers"
	"github.com/storefrontlabs/storefront-api/internal/api/middleware"
	"github.com/storefrontlabs/storefront-api/internal/config"
	"github.com/storefrontlabs/storefront-api/internal/health"
	"github.com/storefrontlabs/storefront-api/internal/metrics"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
	service "github.com/storefrontlabs/storefront-api/internal/services"
	"github.com/storefrontlabs/storefront-api/pkg/sendgrid"
	"github.com/storefrontlabs/storefront-api/pkg/stripe"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisRepo, err := repository.NewRedisRepo(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	jwtKey := []byte(cfg.Security.JWTKey)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	userService := service.NewUserService(repos.User, redisRepo, jwtKey)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Cart)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentService := service.NewPaymentService(orderService, repos.Order, repos.Product, repos.User, stripeClient, emailService, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewService := service.NewReviewService(repos.Review, repos.Product)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	wishlistService := service.NewWishlistService(repos.Wishlist, repos.Product)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:           repos.DB,
		RedisClient:  redisRepo.Client(),
		StripeClient: stripeClient,
	})
	if err != nil {
		slog.Error("❌ Error creating health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.RequireAdmin(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.RequireAdmin(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.RequireAdmin(productHandler.DeleteProduct()))

	routerMux.HandleFunc("GET /api/v1/products/{id}/reviews", reviewHandler.ListReviews())
	routerMux.HandleFunc("POST /api/v1/products/{id}/reviews", authMiddleware.Authenticate(reviewHandler.CreateReview()))

	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("DELETE /api/v1/carts/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))

	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.PlaceOrder()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))

	routerMux.HandleFunc("POST /api/v1/payments/checkout", authMiddleware.Authenticate(paymentHandler.Checkout()))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.Webhook())

	routerMux.HandleFunc("GET /api/v1/wishlist", authMiddleware.Authenticate(wishlistHandler.ListItems()))
	routerMux.HandleFunc("POST /api/v1/wishlist", authMiddleware.Authenticate(wishlistHandler.AddItem()))
	routerMux.HandleFunc("DELETE /api/v1/wishlist/{productId}", authMiddleware.Authenticate(wishlistHandler.RemoveItem()))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}
