package server

import (
	"gig-marketplace/internal/auth"
	handler "gig-marketplace/services/marketplace/handler"

	"github.com/gin-gonic/gin"
)

// Services is everything the HTTP layer calls into
type Services struct {
	Gigs          handler.GigServiceInterface
	Bids          handler.BidServiceInterface
	Hiring        handler.HireServiceInterface
	Notifications handler.NotificationServiceInterface
	Verifier      auth.Verifier
	// Realtime serves GET /ws; nil leaves the route unregistered
	Realtime gin.HandlerFunc
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	gigHandler := handler.NewGigHandler(svc.Gigs)
	bidHandler := handler.NewBidHandler(svc.Bids)
	hireHandler := handler.NewHireHandler(svc.Hiring)
	notificationHandler := handler.NewNotificationHandler(svc.Notifications)

	requireAuth := auth.Middleware(svc.Verifier)

	gigs := router.Group("/gigs")
	{
		gigs.GET("", gigHandler.ListGigsHandler)
		gigs.POST("", requireAuth, gigHandler.CreateGigHandler)
		gigs.GET("/:gig_id/bids", requireAuth, bidHandler.GetBidsForGigHandler)
	}

	bids := router.Group("/bids", requireAuth)
	{
		bids.POST("", bidHandler.PlaceBidHandler)
		bids.GET("/my", bidHandler.GetMyBidsHandler)
		bids.GET("/received", bidHandler.GetReceivedBidsHandler)
		bids.PATCH("/:bid_id/hire", hireHandler.HireBidHandler)
		bids.PATCH("/:bid_id/accept", bidHandler.AcceptBidHandler)
		bids.PATCH("/:bid_id/reject", bidHandler.RejectBidHandler)
	}

	notifications := router.Group("/notifications", requireAuth)
	{
		notifications.GET("", notificationHandler.ListNotificationsHandler)
		notifications.PUT("/:id/read", notificationHandler.MarkAsReadHandler)
	}

	if svc.Realtime != nil {
		router.GET("/ws", svc.Realtime)
	}

	return router
}
