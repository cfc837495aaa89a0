package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"buildnchill-server/internal/handler"
	"buildnchill-server/internal/middleware"
	"buildnchill-server/internal/service"
	"buildnchill-server/internal/storage"
)

type Server struct {
	echo           *echo.Echo
	authService    service.AuthService
	authHandler    *handler.AuthHandler
	shopHandler    *handler.ShopHandler
	ordersHandler  *handler.OrdersHandler
	walletHandler  *handler.WalletHandler
	catalogHandler *handler.CatalogHandler
	contentHandler *handler.ContentHandler
	eventsHandler  *handler.EventsHandler
}

func NewServer(
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	shopHandler *handler.ShopHandler,
	ordersHandler *handler.OrdersHandler,
	walletHandler *handler.WalletHandler,
	catalogHandler *handler.CatalogHandler,
	contentHandler *handler.ContentHandler,
	eventsHandler *handler.EventsHandler,
	uploads *storage.Store,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.Static("/uploads", uploads.Dir())

	s := &Server{
		echo:           e,
		authService:    authService,
		authHandler:    authHandler,
		shopHandler:    shopHandler,
		ordersHandler:  ordersHandler,
		walletHandler:  walletHandler,
		catalogHandler: catalogHandler,
		contentHandler: contentHandler,
		eventsHandler:  eventsHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- public --------
	api.POST("/auth/register", s.authHandler.Register)
	api.POST("/auth/login", s.authHandler.Login)

	api.GET("/news", s.contentHandler.ListNews)
	api.GET("/news/:slug", s.contentHandler.GetNews)
	api.GET("/carousel", s.contentHandler.ListCarousel)
	api.GET("/settings", s.contentHandler.GetSettings)
	api.GET("/server-status", s.contentHandler.GetServerStatus)
	api.POST("/contacts", s.contentHandler.SubmitContact)
	api.POST("/contacts/upload", s.contentHandler.UploadContactImage)

	api.GET("/shop/categories", s.shopHandler.ListCategories)
	api.GET("/shop/products", s.shopHandler.ListProducts)
	api.GET("/shop/top-donators", s.shopHandler.TopDonators)
	api.POST("/shop/orders", s.shopHandler.CreateOrder)

	// -------- signed-in users --------
	user := api.Group("", middleware.RequireAuth(s.authService))
	user.GET("/me", s.authHandler.Me)
	user.PUT("/me/password", s.authHandler.UpdatePassword)
	user.GET("/wallet", s.walletHandler.Balance)
	user.GET("/wallet/transactions", s.walletHandler.Transactions)
	user.POST("/recharges", s.walletHandler.SubmitRecharge)
	user.GET("/recharges", s.walletHandler.MyRecharges)
	user.POST("/shop/orders/wallet", s.shopHandler.PurchaseWithWallet)
	user.POST("/uploads/recharge-proof", s.contentHandler.UploadRechargeProof)
	user.GET("/events", s.eventsHandler.Stream)

	// -------- admin --------
	admin := api.Group("/admin", middleware.RequireAuth(s.authService), middleware.RequireAdmin())

	admin.GET("/dashboard", s.ordersHandler.Dashboard)

	admin.GET("/orders", s.ordersHandler.List)
	admin.GET("/orders/:id", s.ordersHandler.Get)
	admin.PUT("/orders/:id/status", s.ordersHandler.UpdateStatus)
	admin.DELETE("/orders/:id", s.ordersHandler.Delete)
	admin.GET("/commands", s.ordersHandler.PendingCommands)

	admin.GET("/recharges", s.walletHandler.ListRecharges)
	admin.POST("/recharges/:id/approve", s.walletHandler.ApproveRecharge)
	admin.POST("/recharges/:id/reject", s.walletHandler.RejectRecharge)
	admin.POST("/wallets/adjust", s.walletHandler.AdjustBalance)

	admin.GET("/users", s.authHandler.ListProfiles)
	admin.POST("/users/reset-password", s.authHandler.AdminResetPassword)

	admin.GET("/categories", s.catalogHandler.ListCategories)
	admin.POST("/categories", s.catalogHandler.CreateCategory)
	admin.PUT("/categories/:id", s.catalogHandler.UpdateCategory)
	admin.DELETE("/categories/:id", s.catalogHandler.DeleteCategory)
	admin.GET("/products", s.catalogHandler.ListProducts)
	admin.POST("/products", s.catalogHandler.CreateProduct)
	admin.PUT("/products/:id", s.catalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.catalogHandler.DeleteProduct)

	admin.POST("/news", s.contentHandler.AddNews)
	admin.PUT("/news/:id", s.contentHandler.UpdateNews)
	admin.DELETE("/news/:id", s.contentHandler.DeleteNews)

	admin.GET("/contacts", s.contentHandler.ListContacts)
	admin.POST("/contacts/:id/read", s.contentHandler.MarkContactRead)
	admin.PUT("/contacts/:id/status", s.contentHandler.SetContactStatus)
	admin.DELETE("/contacts/:id", s.contentHandler.DeleteContact)

	admin.POST("/carousel", s.contentHandler.AddCarouselImage)
	admin.PUT("/carousel/:id", s.contentHandler.UpdateCarouselImage)
	admin.DELETE("/carousel/:id", s.contentHandler.DeleteCarouselImage)

	admin.PUT("/settings", s.contentHandler.UpdateSettings)
	admin.PUT("/server-status", s.contentHandler.UpdateServerStatus)
	admin.POST("/server-status/refresh", s.contentHandler.RefreshServerStatus)

	admin.POST("/uploads/:bucket", s.contentHandler.Upload)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
