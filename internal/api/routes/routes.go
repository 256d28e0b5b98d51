package routes

import (
	"time"

	"gradpolls/internal/adapters/kafka"
	"gradpolls/internal/api/handlers"
	"gradpolls/internal/api/middleware"
	"gradpolls/internal/config"
	"gradpolls/internal/repositories/postgres"
	"gradpolls/internal/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Router struct {
	engine            *gin.Engine
	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	followHandler     *handlers.FollowHandler
	pollHandler       *handlers.PollHandler
	commentHandler    *handlers.CommentHandler
	communityHandler  *handlers.CommunityHandler
	messageHandler    *handlers.MessageHandler
	universityHandler *handlers.UniversityHandler
	rateLimitMW       *middleware.RateLimitMiddleware
	authMW            *middleware.AuthMiddleware
}

func NewRouter(
	cfg *config.Config,
	db *gorm.DB,
	redisService *services.RedisService,
	producer *kafka.Producer,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	followRepo := postgres.NewFollowRepository(db)
	pollRepo := postgres.NewPollRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	communityRepo := postgres.NewCommunityRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Services
	universityService := services.NewUniversityService(
		cfg.University.DataFile,
		cfg.University.LookupURL,
		cfg.University.LookupTimeout,
	)
	userService := services.NewUserService(userRepo, followRepo, cfg.JWT.Secret, cfg.JWT.ExpirationTime)
	followService := services.NewFollowService(followRepo, userRepo, producer)
	pollService := services.NewPollService(pollRepo, universityService, producer)
	commentService := services.NewCommentService(commentRepo, pollRepo)
	communityService := services.NewCommunityService(communityRepo, producer)
	messageService := services.NewMessageService(messageRepo, followRepo, userRepo, producer)

	return &Router{
		engine:            engine,
		authHandler:       handlers.NewAuthHandler(userService),
		userHandler:       handlers.NewUserHandler(userService, followService),
		followHandler:     handlers.NewFollowHandler(followService),
		pollHandler:       handlers.NewPollHandler(pollService),
		commentHandler:    handlers.NewCommentHandler(commentService),
		communityHandler:  handlers.NewCommunityHandler(communityService),
		messageHandler:    handlers.NewMessageHandler(messageService),
		universityHandler: handlers.NewUniversityHandler(universityService),
		rateLimitMW:       middleware.NewRateLimitMiddleware(redisService),
		authMW:            middleware.NewAuthMiddleware(cfg.JWT.Secret),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	// Public routes (no authentication required)
	public := api.Group("/")
	{
		authRoutes := public.Group("/auth")
		authRoutes.Use(r.rateLimitMW.RateLimitIP(50, time.Minute))
		{
			authRoutes.POST("/register", r.authHandler.Register)
			authRoutes.POST("/login", r.authHandler.Login)
		}

		universities := public.Group("/universities")
		universities.Use(r.rateLimitMW.RateLimitIP(100, time.Minute))
		{
			universities.GET("/search", r.universityHandler.Search)
			universities.GET("/lookup", r.universityHandler.Lookup)
		}
	}

	// Poll browsing, creation and voting work with or without a token.
	open := api.Group("/")
	open.Use(r.authMW.OptionalAuth())
	open.Use(r.rateLimitMW.RateLimitIP(100, time.Minute))
	{
		open.GET("/polls", r.pollHandler.ListPolls)
		open.GET("/polls/archive", r.pollHandler.ListArchivedPolls)
		open.GET("/polls/:id", r.pollHandler.GetPoll)
		open.POST("/polls", r.pollHandler.CreatePoll)
		open.POST("/polls/:id/vote", r.pollHandler.Vote)
		open.GET("/polls/:id/comments", r.commentHandler.ListComments)
		open.GET("/comments/:id/replies", r.commentHandler.ListReplies)
		open.GET("/users/:id", r.userHandler.ViewUser)
	}

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	{
		engagement := auth.Group("/")
		engagement.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			engagement.POST("/polls/:id/upvote", r.pollHandler.ToggleUpvote)
			engagement.POST("/polls/:id/comments", r.commentHandler.CreateComment)
			engagement.DELETE("/comments/:id", r.commentHandler.DeleteComment)
		}

		users := auth.Group("/users")
		users.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			users.GET("/profile", r.userHandler.GetProfile)
			users.PUT("/profile", r.userHandler.UpdateProfile)
			users.PUT("/privacy", r.userHandler.TogglePrivacy)
			users.GET("/search", r.userHandler.SearchUsers)
			users.GET("/:id/followers", r.userHandler.ListFollowers)
			users.GET("/:id/following", r.userHandler.ListFollowing)
			users.POST("/:id/follow", r.followHandler.Follow)
			users.DELETE("/:id/follow", r.followHandler.Unfollow)
			users.GET("/:id/follow", r.followHandler.State)
		}

		requests := auth.Group("/follow-requests")
		requests.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			requests.GET("", r.followHandler.ListReceivedRequests)
			requests.GET("/sent", r.followHandler.ListSentRequests)
			requests.POST("/:id/accept", r.followHandler.AcceptRequest)
			requests.POST("/:id/reject", r.followHandler.RejectRequest)
		}

		communities := auth.Group("/communities")
		communities.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			communities.POST("", r.communityHandler.CreateCommunity)
			communities.GET("", r.communityHandler.ListCommunities)
			communities.GET("/pinned", r.communityHandler.ListPinned)
			communities.GET("/:id", r.communityHandler.GetCommunity)
			communities.POST("/:id/join", r.communityHandler.Join)
			communities.GET("/:id/messages", r.communityHandler.ListMessages)
			communities.POST("/:id/messages", r.communityHandler.PostMessage)
			communities.POST("/:id/pin", r.communityHandler.Pin)
			communities.DELETE("/:id/pin", r.communityHandler.Unpin)
		}

		messages := auth.Group("/messages")
		messages.Use(r.rateLimitMW.RateLimit(200, time.Minute))
		{
			messages.GET("", r.messageHandler.Conversations)
			messages.GET("/:id", r.messageHandler.History)
			messages.POST("/:id", r.messageHandler.Send)
			messages.POST("/:id/pin", r.messageHandler.PinConversation)
			messages.DELETE("/:id/pin", r.messageHandler.UnpinConversation)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
