package http

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/intake"
	"github.com/vladislavdragonenkov/storefront/internal/service/resolution"
)

// Server собирает HTTP-обработчики витрины и админки поверх сервисов.
type Server struct {
	catalog *catalog.Service
	intake  *intake.Service
	engine  *resolution.Engine
	auth    *auth.Service
	tokens  *auth.TokenManager
	images  domain.ImageStore
	logger  *log.Entry
}

// NewServer создаёт HTTP-сервер. images может быть nil: тогда загрузка
// изображений отключена и /api/upload отвечает 503.
func NewServer(
	catalogSvc *catalog.Service,
	intakeSvc *intake.Service,
	engine *resolution.Engine,
	authSvc *auth.Service,
	tokens *auth.TokenManager,
	images domain.ImageStore,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	return &Server{
		catalog: catalogSvc,
		intake:  intakeSvc,
		engine:  engine,
		auth:    authSvc,
		tokens:  tokens,
		images:  images,
		logger:  logger,
	}
}

// Router строит gin-роутер с публичными и админскими маршрутами.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())

	api := router.Group("/api")
	{
		// Публичные маршруты витрины.
		api.GET("/shop/products", s.listShopProducts)
		api.GET("/products/:id", s.getProduct)
		api.GET("/categories", s.listCategories)
		api.POST("/orders", s.placeOrder)

		api.POST("/auth/login", s.login)
		api.POST("/auth/seed-admin", s.seedAdmin)

		// Админка: bearer-токен с признаком isAdmin.
		admin := api.Group("/")
		admin.Use(AuthMiddleware(s.tokens), AdminRequired())
		{
			admin.GET("/products", s.listProducts)
			admin.POST("/products", s.createProduct)
			admin.PUT("/products/:id", s.updateProduct)
			admin.DELETE("/products/:id", s.deleteProduct)
			admin.POST("/products/reorder", s.swapProduct)
			admin.POST("/admin/reorder-products", s.reindexProducts)

			admin.GET("/orders", s.listOrders)
			admin.DELETE("/orders/:id", s.resolveOrder)
			admin.GET("/orders/history", s.listHistory)

			admin.POST("/upload", s.uploadImage)
		}
	}

	return router
}
