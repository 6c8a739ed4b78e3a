package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cbcshop/backend/internal/auth"
	"github.com/cbcshop/backend/internal/cache"
	"github.com/cbcshop/backend/internal/config"
	"github.com/cbcshop/backend/internal/email"
	"github.com/cbcshop/backend/internal/httpx"
	"github.com/cbcshop/backend/internal/order"
	"github.com/cbcshop/backend/internal/product"
	"github.com/cbcshop/backend/internal/slider"
	"github.com/cbcshop/backend/internal/store"
	"github.com/cbcshop/backend/internal/user"
)

const tokenExpiry = 7 * 24 * time.Hour

func main() {
	cfg := config.Load()

	ctx := context.Background()
	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("[mongo] connection failed: %v", err)
	}
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("[mongo] index bootstrap failed: %v", err)
	}

	var c cache.Cache
	if cfg.RedisAddr != "" {
		c = cache.NewRedisCache(cfg.RedisAddr, "cbcshop")
	}

	jwtSvc := auth.NewJWTService(cfg.JWTSecret, tokenExpiry)
	mailer := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	userRepo := user.NewMongoRepo(db)
	otpRepo := user.NewMongoOTPRepo(db)
	productRepo := product.NewMongoRepo(db)
	sliderRepo := slider.NewMongoRepo(db)
	orderRepo := order.NewMongoRepo(db)

	seq := order.NewSequence(db)
	if err := seq.Init(ctx); err != nil {
		log.Fatalf("[order] sequence init failed: %v", err)
	}

	userHandler := user.NewHandler(userRepo, otpRepo, jwtSvc, mailer, user.NewGoogleClient())
	productHandler := product.NewHandler(productRepo, c)
	sliderHandler := slider.NewHandler(sliderRepo)
	orderHandler := order.NewHandler(
		orderRepo,
		order.NewAssembler(productRepo, seq),
		seq,
		order.NewEffects(productRepo),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestID())
	r.Use(httpx.Logger())
	r.Use(httpx.CORS(cfg.CORSOrigin, "http://localhost:5173"))
	r.Use(httpx.Authenticate(jwtSvc))

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })

	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.POST("/login/google", userHandler.LoginWithGoogle)
	users.POST("/send-otp", userHandler.SendOTP)
	users.POST("/verify-otp", userHandler.VerifyOTP)
	users.POST("/reset-password", userHandler.ResetPassword)
	users.GET("/me", httpx.RequireUser(), userHandler.Me)
	users.GET("", httpx.RequireAdmin(), userHandler.List)

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/search/:query", productHandler.Search)
	products.GET("/best-sellers", productHandler.BestSellers)
	products.GET("/:productId", productHandler.Get)
	products.POST("", httpx.RequireAdmin(), productHandler.Create)
	products.PUT("/:productId", httpx.RequireAdmin(), productHandler.Update)
	products.DELETE("/:productId", httpx.RequireAdmin(), productHandler.Delete)

	sliders := api.Group("/sliders")
	sliders.GET("", sliderHandler.List)
	sliders.GET("/:sliderId", sliderHandler.Get)
	sliders.POST("", httpx.RequireAdmin(), sliderHandler.Create)
	sliders.PUT("/:sliderId", httpx.RequireAdmin(), sliderHandler.Update)
	sliders.DELETE("/:sliderId", httpx.RequireAdmin(), sliderHandler.Delete)

	orders := api.Group("/orders")
	orders.POST("", httpx.RequireUser(), orderHandler.Create)
	orders.GET("", httpx.RequireUser(), orderHandler.List)
	orders.GET("/:orderId", httpx.RequireUser(), orderHandler.Get)
	orders.PUT("/:orderId", httpx.RequireAdmin(), orderHandler.Update)
	orders.DELETE("/:orderId", httpx.RequireAdmin(), orderHandler.Delete)

	addr := ":" + cfg.Port
	log.Printf("[api] listening on %s", addr)
	log.Fatal(r.Run(addr))
}
