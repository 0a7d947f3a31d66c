package server

import (
	"github.com/gin-gonic/gin"

	"farmify/internal/auth"
	accounthandler "farmify/services/account/handler"
	biddinghandler "farmify/services/bidding/handler"
	checkouthandler "farmify/services/checkout/handler"
	listinghandler "farmify/services/listing/handler"
	statshandler "farmify/services/stats/handler"
)

// Services bundles everything the router needs.
type Services struct {
	Listings listinghandler.ListingServiceInterface
	Bids     biddinghandler.BiddingServiceInterface
	Accounts accounthandler.AccountServiceInterface
	Stats    statshandler.StatsServiceInterface
	Checkout checkouthandler.CheckoutServiceInterface
	Issuer   *auth.TokenIssuer
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svcs Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	listingHandler := listinghandler.NewListingHandler(svcs.Listings)
	biddingHandler := biddinghandler.NewBiddingHandler(svcs.Bids)
	accountHandler := accounthandler.NewAccountHandler(svcs.Accounts)
	statsHandler := statshandler.NewStatsHandler(svcs.Stats)
	checkoutHandler := checkouthandler.NewCheckoutHandler(svcs.Checkout)

	api := router.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", accountHandler.RegisterHandler)
		users.POST("/login", accountHandler.LoginHandler)
	}

	products := api.Group("/products")
	{
		products.POST("", listingHandler.CreateListingHandler)
		products.GET("", listingHandler.ListListingsHandler)
		products.GET("/:id", listingHandler.GetListingHandler)
	}

	bids := api.Group("/bids")
	{
		bids.POST("", biddingHandler.RecordBidHandler)
		bids.GET("", biddingHandler.ListBidsHandler)
		bids.GET("/:id", biddingHandler.GetBidHandler)
		bids.PUT("/:id", biddingHandler.RateBidHandler)
	}

	api.GET("/stats", statsHandler.OverviewHandler)

	// Everything below requires a valid session token.
	authed := api.Group("")
	authed.Use(auth.Middleware(svcs.Issuer))

	buyer := authed.Group("/buyer")
	{
		buyer.GET("/account", accountHandler.GetBuyerAccountHandler)
		buyer.PUT("/account", accountHandler.UpdateBuyerAccountHandler)
	}

	seller := authed.Group("/seller")
	{
		seller.GET("/account", accountHandler.GetSellerAccountHandler)
		seller.PUT("/account", accountHandler.UpdateSellerAccountHandler)
		seller.GET("/business", accountHandler.GetSellerAccountHandler)
		seller.PUT("/business", accountHandler.UpdateSellerBusinessHandler)
	}

	cards := authed.Group("/payment/cards")
	{
		cards.GET("", accountHandler.ListCardsHandler)
		cards.POST("", accountHandler.AddCardHandler)
		cards.PUT("/:id", accountHandler.UpdateCardHandler)
		cards.DELETE("/:id", accountHandler.DeleteCardHandler)
	}

	orders := authed.Group("/checkout/orders")
	{
		orders.POST("", checkoutHandler.CreateOrderHandler)
		orders.POST("/:id/complete", checkoutHandler.CompleteOrderHandler)
		orders.GET("/:id", checkoutHandler.GetOrderHandler)
	}

	authed.GET("/delivery/status/:id", checkoutHandler.DeliveryStatusHandler)

	return router
}
