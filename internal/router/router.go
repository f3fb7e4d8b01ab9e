package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ohsj/linkple-backend/config"
	"github.com/ohsj/linkple-backend/internal/app/controller"
	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	campaignController     *controller.CampaignController
	applicationController  *controller.ApplicationController
	chatController         *controller.ChatController
	reviewController       *controller.ReviewController
	favoriteController     *controller.FavoriteController
	notificationController *controller.NotificationController
	profileController      *controller.ProfileController
	uploadController       *controller.UploadController
	adminController        *controller.AdminController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	campaignController *controller.CampaignController,
	applicationController *controller.ApplicationController,
	chatController *controller.ChatController,
	reviewController *controller.ReviewController,
	favoriteController *controller.FavoriteController,
	notificationController *controller.NotificationController,
	profileController *controller.ProfileController,
	uploadController *controller.UploadController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		campaignController:     campaignController,
		applicationController:  applicationController,
		chatController:         chatController,
		reviewController:       reviewController,
		favoriteController:     favoriteController,
		notificationController: notificationController,
		profileController:      profileController,
		uploadController:       uploadController,
		adminController:        adminController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "LINKPLE API is running",
		})
	})

	influencerOnly := r.authMiddleware.RequireRole(string(model.RoleInfluencer))
	advertiserOnly := r.authMiddleware.RequireRole(string(model.RoleAdvertiser))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
			auth.POST("/role", r.authMiddleware.Authenticate(), r.authController.SelectRole)
		}

		campaigns := v1.Group("/campaigns")
		{
			// mine=true 조회를 위해 선택적 인증
			campaigns.GET("", r.authMiddleware.OptionalAuthenticate(), r.campaignController.GetCampaigns)

			// 임시 저장본은 /:id 보다 먼저 등록해야 라우팅이 충돌하지 않는다
			drafts := campaigns.Group("/drafts")
			drafts.Use(r.authMiddleware.Authenticate(), advertiserOnly)
			{
				drafts.GET("/me", r.campaignController.GetDraft)
				drafts.PUT("/me", r.campaignController.SaveDraft)
				drafts.DELETE("/me", r.campaignController.DeleteDraft)
			}

			campaigns.GET("/:id", r.campaignController.GetCampaign)
			campaigns.POST("",
				r.authMiddleware.Authenticate(),
				advertiserOnly,
				r.campaignController.CreateCampaign,
			)
			campaigns.PUT("/:id", r.authMiddleware.Authenticate(), r.campaignController.UpdateCampaign)
			campaigns.POST("/:id/close", r.authMiddleware.Authenticate(), r.campaignController.CloseCampaign)

			campaigns.POST("/:id/applications",
				r.authMiddleware.Authenticate(),
				influencerOnly,
				r.applicationController.Apply,
			)
			campaigns.GET("/:id/applications", r.authMiddleware.Authenticate(), r.applicationController.GetCampaignApplications)
			campaigns.PATCH("/:id/applications/:applicationId", r.authMiddleware.Authenticate(), r.applicationController.ChangeStatus)
			campaigns.DELETE("/:id/applications/:applicationId", r.authMiddleware.Authenticate(), r.applicationController.Cancel)
		}

		applications := v1.Group("/applications")
		applications.Use(r.authMiddleware.Authenticate())
		{
			applications.GET("/me", r.applicationController.GetMyApplications)
		}

		chats := v1.Group("/chats")
		chats.Use(r.authMiddleware.Authenticate())
		{
			chats.GET("", r.chatController.GetChats)
			chats.POST("/find", influencerOnly, r.chatController.FindChat)
			chats.POST("/invite", advertiserOnly, r.chatController.Invite)
			chats.POST("/proposal", influencerOnly, r.chatController.Propose)
			chats.GET("/:id", r.chatController.GetChat)
			chats.PATCH("/:id/status", r.chatController.UpdateStatus)
			chats.GET("/:id/messages", r.chatController.GetMessages)
			chats.POST("/:id/messages", r.chatController.SendMessage)
			chats.POST("/:id/read", r.chatController.MarkAsRead)
			chats.POST("/:id/join", r.chatController.JoinChat)
			chats.POST("/:id/leave", r.chatController.LeaveChat)
			chats.GET("/:id/typing", r.chatController.GetTypingUsers)
			chats.DELETE("/messages/:messageId", r.chatController.DeleteMessage)
		}

		// WebSocket은 쿼리 파라미터 토큰 인증
		v1.GET("/ws", r.authMiddleware.Authenticate(), r.chatController.WebSocketHandler)

		reviews := v1.Group("/reviews")
		{
			reviews.GET("/influencer/:id", r.reviewController.GetInfluencerReviews)
			reviews.GET("/stats/:influencerId", r.reviewController.GetStats)
			reviews.POST("",
				r.authMiddleware.Authenticate(),
				advertiserOnly,
				r.reviewController.CreateReview,
			)
			reviews.PATCH("/:id", r.authMiddleware.Authenticate(), r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.authMiddleware.Authenticate(), r.reviewController.DeleteReview)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(r.authMiddleware.Authenticate())
		{
			favorites.GET("", r.favoriteController.GetFavorites)
			favorites.POST("", r.favoriteController.AddFavorite)
			favorites.DELETE("/:campaignId", r.favoriteController.RemoveFavorite)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.POST("/:id/read", r.notificationController.MarkAsRead)
			notifications.POST("/read-all", r.notificationController.MarkAllAsRead)
		}

		profiles := v1.Group("/profiles")
		{
			influencer := profiles.Group("/influencer")
			{
				influencer.GET("/me", r.authMiddleware.Authenticate(), r.profileController.GetMyInfluencerProfile)
				influencer.PUT("/me",
					r.authMiddleware.Authenticate(),
					influencerOnly,
					r.profileController.UpsertInfluencerProfile,
				)
				influencer.GET("/:id", r.profileController.GetInfluencerProfile)
			}

			advertiser := profiles.Group("/advertiser")
			advertiser.Use(r.authMiddleware.Authenticate())
			{
				advertiser.GET("/me", r.profileController.GetMyAdvertiserProfile)
				advertiser.PUT("/me", advertiserOnly, r.profileController.UpsertAdvertiserProfile)
			}

			profiles.POST("/social", r.authMiddleware.Authenticate(), r.profileController.LinkSocialAccount)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
		{
			admin.GET("/users/pending", r.adminController.GetPendingUsers)
			admin.POST("/users/:id/approval", r.adminController.SetApproval)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
