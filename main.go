package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/lifecycle"
	"storefront/internal/middleware"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	if missing := cfg.Validate(); len(missing) > 0 {
		log.Fatalf("missing required settings: %s", strings.Join(missing, ", "))
	}
	gin.SetMode(cfg.GinMode)

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	for name, err := range database.EnsureIndexes(db) {
		log.Printf("[DB] [WARN] %s index: %v", name, err)
	}

	admins := database.NewAdminRepository(db)
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := admins.EnsureSeedAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("[ADMIN] [WARN] seed admin: %v", err)
	}
	seedCancel()

	products := database.NewProductRepository(db)
	categories := database.NewCategoryRepository(db)
	discounts := database.NewDiscountRepository(db)
	shipping := database.NewShippingRepository(db)
	orders := database.NewOrderRepository(db, discounts)
	content := database.NewContentRepository(db)
	rates := database.NewCurrencyRepository(db)

	checkoutSvc := checkout.NewService(checkout.Deps{
		Catalog:   products,
		Discounts: discounts,
		Shipping:  shipping,
		Orders:    orders,
		Numbers:   checkout.NewNumberGenerator(cfg.OrderNumberPrefix),
		Currency:  cfg.BaseCurrency,
	})
	transitions := lifecycle.NewService(orders, time.Now)

	handlers.SetRequestTimeout(cfg.RequestTimeout)
	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMinute)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/healthz", handlers.Healthz(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}))

	api := r.Group("/api")
	{
		api.GET("/products", handlers.GetProducts(products))
		api.GET("/products/discover", handlers.DiscoverProducts(products))
		api.GET("/products/:id", handlers.GetProduct(products))
		api.GET("/categories", handlers.GetCategories(categories))
		api.GET("/content/:key", handlers.GetContentBlock(content))

		api.GET("/currency/rates", handlers.GetCurrencyRates(rates, cfg.BaseCurrency))
		api.GET("/currency/convert", handlers.ConvertCurrency(rates, cfg.BaseCurrency))

		api.GET("/shipping/countries", handlers.GetShippingCountries(shipping))
		api.GET("/shipping/quote", handlers.QuoteShipping(shipping))

		api.POST("/discounts/validate", middleware.RateLimit(limiter), handlers.ValidateDiscount(discounts))
		api.POST("/checkout/quote", middleware.RateLimit(limiter), handlers.QuoteCheckout(checkoutSvc))
		api.POST("/orders", middleware.RateLimit(limiter), handlers.CreateOrder(checkoutSvc))
		api.GET("/orders/:id", handlers.GetOrder(orders))

		api.POST("/admin/login", middleware.RateLimit(limiter), handlers.AdminLogin(admins, cfg.JWTSecret, cfg.AccessTokenTTL))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true, "email": middleware.AdminEmail(c)})
		})

		admin.GET("/products", handlers.GetProducts(products))
		admin.POST("/products", handlers.CreateProduct(products))
		admin.PUT("/products/:id", handlers.UpdateProduct(products))
		admin.DELETE("/products/:id", handlers.DeleteProduct(products))

		admin.GET("/categories", handlers.GetAllCategories(categories))
		admin.POST("/categories", handlers.CreateCategory(categories))
		admin.PUT("/categories/:id", handlers.UpdateCategory(categories))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(categories))

		admin.GET("/content", handlers.GetAllContentBlocks(content))
		admin.PUT("/content/:key", handlers.UpsertContentBlock(content))
		admin.DELETE("/content/:key", handlers.DeleteContentBlock(content))

		admin.PUT("/currency/rates/:code", handlers.UpsertCurrencyRate(rates, cfg.BaseCurrency))
		admin.DELETE("/currency/rates/:code", handlers.DeleteCurrencyRate(rates, cfg.BaseCurrency))

		admin.GET("/discounts", handlers.GetDiscounts(discounts))
		admin.POST("/discounts", handlers.CreateDiscount(discounts))
		admin.GET("/discounts/:id", handlers.GetDiscount(discounts))
		admin.PATCH("/discounts/:id", handlers.UpdateDiscount(discounts))
		admin.DELETE("/discounts/:id", handlers.DeleteDiscount(discounts))

		admin.GET("/shipping/countries", handlers.GetAllShippingCountries(shipping))
		admin.POST("/shipping/countries", handlers.CreateShippingCountry(shipping))
		admin.PUT("/shipping/countries/:id", handlers.UpdateShippingCountry(shipping))
		admin.DELETE("/shipping/countries/:id", handlers.DeleteShippingCountry(shipping))
		admin.POST("/shipping/countries/:id/default", handlers.SetDefaultShippingCountry(shipping))

		admin.GET("/orders", handlers.GetOrders(orders))
		admin.GET("/orders/:id", handlers.GetOrderDetail(orders))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(transitions))
		admin.PATCH("/orders/:id/payment", handlers.UpdatePaymentStatus(transitions))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(orders))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("HTTP server Shutdown: %v", err)
		}
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("[DB] [ERROR] disconnect: %v", err)
		}
		close(stopped)
	}()

	log.Printf("storefront listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %s\n", err)
	}

	<-stopped
	log.Println("server stopped")
}
