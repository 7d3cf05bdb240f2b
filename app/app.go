// Package app assembles the stores, services and HTTP router from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"shop-api/config"
	"shop-api/controllers"
	"shop-api/libs"
	"shop-api/middleware"
	"shop-api/repositories"
	"shop-api/repositories/memstore"
	"shop-api/routes"
	"shop-api/sentiment"
	"shop-api/services"
	"shop-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stores struct {
	users    repositories.UserStore
	products repositories.ProductStore
	comments repositories.CommentStore
	carts    repositories.CartStore
	orders   repositories.OrderStore
}

type App struct {
	Router  *gin.Engine
	closers []func()
}

func New(cfg *config.Config) (*App, error) {
	a := &App{}

	model, err := sentiment.Load(cfg.SentimentModelPath)
	if err != nil {
		return nil, err
	}
	zap.L().Info("sentiment model loaded", zap.String("version", model.Version()))

	st, err := a.openStores(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var cache repositories.ProductCache
	if client := config.ConnectRedis(cfg); client != nil {
		a.closers = append(a.closers, config.CloseRedis)
		cache = repositories.NewRedisProductCache(client, cfg.ProductCacheTTL)
	}

	var notifier services.OrderNotifier
	if cfg.MailEnabled() {
		mailer, err := libs.NewMailer(cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		notifier = mailer
	}

	tokens := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(st.users, tokens)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := authService.EnsureStaffUser(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("bootstrap staff user: %w", err)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))

	routes.SetupRoutes(router, routes.Controllers{
		Auth:    controllers.NewAuthController(authService),
		Product: controllers.NewProductController(services.NewProductService(st.products, cache)),
		Comment: controllers.NewCommentController(services.NewCommentService(st.comments, st.products, model)),
		Cart:    controllers.NewCartController(services.NewCartService(st.carts, st.products)),
		Order:   controllers.NewOrderController(services.NewOrderService(st.orders, st.users, notifier)),
	}, tokens)

	a.Router = router
	return a, nil
}

func (a *App) openStores(cfg *config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case "memory":
		zap.L().Warn("using in-memory store, data is lost on restart")
		m := memstore.New()
		return stores{users: m, products: m, comments: m, carts: m, orders: m}, nil

	case "postgres", "":
		if err := config.RunMigrations(cfg); err != nil {
			return stores{}, err
		}
		pool, err := config.ConnectDB(cfg)
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, config.CloseDB)
		return stores{
			users:    repositories.NewUserRepository(pool),
			products: repositories.NewProductRepository(pool),
			comments: repositories.NewCommentRepository(pool),
			carts:    repositories.NewCartRepository(pool),
			orders:   repositories.NewOrderRepository(pool),
		}, nil

	default:
		return stores{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
