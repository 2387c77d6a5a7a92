package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/rudro-dev/loopgram/backend/internal/handlers"
	"github.com/rudro-dev/loopgram/backend/internal/middleware"
	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/notifications"
	"github.com/rudro-dev/loopgram/backend/internal/realtime"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
	"github.com/rudro-dev/loopgram/backend/internal/stories"
	"github.com/rudro-dev/loopgram/backend/pkg/config"
)

// App bundles the long-running pieces the server needs a handle on
// after routing is set up.
type App struct {
	Registry *realtime.Registry
	Sweeper  *stories.Sweeper
}

// Setup wires repositories, services and handlers onto the echo
// instance and returns the background components for main to start.
func Setup(e *echo.Echo, db *config.DB, cfg *config.Config, authClient *auth.Client) (*App, error) {
	if err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.SavedContent{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		return nil, err
	}

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)

	users := repositories.NewPostgresUserRepository(db.Postgres)
	follows := repositories.NewPostgresFollowRepository(db.Postgres)
	saves := repositories.NewPostgresSavedContentRepository(db.Postgres)
	conversations := repositories.NewPostgresConversationRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	posts := repositories.NewMongoPostRepository(mongoDB)
	loops := repositories.NewMongoLoopRepository(mongoDB)
	storyRepo := repositories.NewMongoStoryRepository(mongoDB)

	registry := realtime.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry)
	notifier := notifications.NewService(notificationRepo, users, dispatcher)
	sweeper := stories.NewSweeper(storyRepo, users, cfg.StorySweepInterval)

	authHandler := handlers.NewAuthHandler(users, authClient, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(users, follows)
	followHandler := handlers.NewFollowHandler(follows, users, notifier)
	postHandler := handlers.NewContentHandler(models.ContentKindPost, posts, users, notifier, dispatcher)
	loopHandler := handlers.NewContentHandler(models.ContentKindLoop, loops, users, notifier, dispatcher)
	savedHandler := handlers.NewSavedContentHandler(saves, posts, loops, users)
	storyHandler := handlers.NewStoryHandler(storyRepo, users, follows)
	messageHandler := handlers.NewMessageHandler(conversations, users, notifier, dispatcher)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, users)
	healthHandler := handlers.NewHealthHandler()

	wsHandler := realtime.NewHandler(registry, func(c echo.Context, token string) (*models.User, error) {
		return middleware.ResolveToken(c, authClient, users, cfg.JWTSecret, token)
	})

	e.GET("/health", healthHandler.Check)
	e.GET("/ws", wsHandler.Serve)

	api := e.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/signin", authHandler.SignIn)
	authGroup.POST("/firebase-login", authHandler.FirebaseLogin)

	protected := api.Group("", middleware.AuthMiddleware(authClient, users, cfg.JWTSecret))

	protected.GET("/me", userHandler.Me)
	protected.PUT("/me", userHandler.UpdateProfile)
	protected.GET("/me/saved", savedHandler.ListSaved)
	protected.GET("/me/suggested", userHandler.Suggested)
	protected.GET("/me/chats", messageHandler.PreviousChats)

	protected.GET("/users/search", userHandler.Search)
	protected.GET("/users/:username", userHandler.GetByUserName)
	protected.GET("/users/:username/followers", userHandler.Followers)
	protected.GET("/users/:username/following", userHandler.Following)
	protected.GET("/users/:username/posts", postHandler.ListByUser)
	protected.GET("/users/:username/loops", loopHandler.ListByUser)
	protected.GET("/users/:username/story", storyHandler.GetByUserName)
	protected.POST("/follow/:id", followHandler.Toggle)

	protected.POST("/posts", postHandler.Create)
	protected.GET("/posts", postHandler.List)
	protected.GET("/posts/:id", postHandler.Get)
	protected.DELETE("/posts/:id", postHandler.Delete)
	protected.POST("/posts/:id/like", postHandler.ToggleLike)
	protected.POST("/posts/:id/comments", postHandler.AddComment)

	protected.POST("/loops", loopHandler.Create)
	protected.GET("/loops", loopHandler.List)
	protected.GET("/loops/:id", loopHandler.Get)
	protected.DELETE("/loops/:id", loopHandler.Delete)
	protected.POST("/loops/:id/like", loopHandler.ToggleLike)
	protected.POST("/loops/:id/comments", loopHandler.AddComment)

	protected.POST("/save/:kind/:id", savedHandler.Toggle)

	protected.POST("/stories", storyHandler.Create)
	protected.GET("/stories/feed", storyHandler.Feed)
	protected.POST("/stories/:id/view", storyHandler.View)
	protected.DELETE("/stories/:id", storyHandler.Delete)

	protected.POST("/chats/:userId/messages", messageHandler.Send)
	protected.GET("/chats/:userId/messages", messageHandler.GetMessages)
	protected.PUT("/messages/:id/reaction", messageHandler.React)
	protected.DELETE("/messages/:id", messageHandler.Delete)

	protected.GET("/notifications", notificationHandler.List)
	protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	protected.PUT("/notifications/read", notificationHandler.MarkRead)
	protected.DELETE("/notifications/:id", notificationHandler.Delete)

	return &App{Registry: registry, Sweeper: sweeper}, nil
}
