package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dogami567/noval-for-one/internal/ai"
	"github.com/dogami567/noval-for-one/internal/bootstrap"
	"github.com/dogami567/noval-for-one/internal/cache"
	"github.com/dogami567/noval-for-one/internal/chat"
	"github.com/dogami567/noval-for-one/internal/platform/rabbitmq"
	"github.com/dogami567/noval-for-one/internal/repository"
	"github.com/dogami567/noval-for-one/internal/transport/http/handler"
	"github.com/dogami567/noval-for-one/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.NoMethod(handler.MethodNotAllowed)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	var (
		placeRepo      *repository.PlaceRepository
		characterRepo  *repository.CharacterRepository
		storyRepo      *repository.StoryRepository
		timelineRepo   *repository.TimelineRepository
		worldStateRepo *repository.WorldStateRepository
	)
	if app.MySQL != nil {
		placeRepo = repository.NewPlaceRepository(app.MySQL)
		characterRepo = repository.NewCharacterRepository(app.MySQL)
		storyRepo = repository.NewStoryRepository(app.MySQL)
		timelineRepo = repository.NewTimelineRepository(app.MySQL)
		worldStateRepo = repository.NewWorldStateRepository(app.MySQL)
	}

	var catalogCache *cache.CatalogCache
	if app.Redis != nil {
		catalogCache = cache.NewCatalogCache(app.Redis, app.Config.CatalogTTL())
	}

	var contexts chat.ContextSource
	if app.MySQL != nil {
		contexts = chat.NewLoreContextBuilder(characterRepo, placeRepo, storyRepo, chat.DefaultLimits())
	}
	var chatLogs chat.LogPublisher
	if app.MQConn != nil {
		chatLogs = rabbitmq.NewChatLogPublisher(app.MQConn, app.Config.RabbitMQ.ChatLogQueue)
	}
	chatService := chat.NewService(nil, contexts, chatLogs, ai.ChatConfig{
		BaseURL:     app.Config.LLM.BaseURL,
		APIKey:      app.Config.LLM.APIKey,
		Model:       app.Config.LLM.Model,
		Temperature: app.Config.LLM.Temperature,
		MaxTokens:   app.Config.LLM.MaxTokens,
	}, chat.DefaultLimits())

	chatHandler := handler.NewChatHandler(chatService)
	catalogHandler := handler.NewCatalogHandler(placeRepo, characterRepo, storyRepo, timelineRepo, worldStateRepo, catalogCache)
	adminHandler := handler.NewAdminHandler(placeRepo, characterRepo, storyRepo, timelineRepo, catalogCache)
	uploadHandler := handler.NewUploadHandler(app.Storage)

	api := router.Group("/api")
	api.POST("/chat", chatHandler.Generate)

	api.GET("/places", catalogHandler.ListPlaces)
	api.GET("/places/map", catalogHandler.ListMapPlaces)
	api.GET("/places/:slug", catalogHandler.GetPlaceBySlug)
	api.GET("/characters", catalogHandler.ListCharacters)
	api.GET("/stories", catalogHandler.ListStories)
	api.GET("/stories/:slug", catalogHandler.GetStoryBySlug)
	api.GET("/timeline", catalogHandler.ListTimeline)
	api.GET("/world-state", catalogHandler.GetWorldState)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminToken(app.Config.Admin.EditToken))
	admin.GET("/places", adminHandler.ListPlaces)
	admin.POST("/places", adminHandler.CreatePlace)
	admin.PATCH("/places", adminHandler.UpdatePlace)
	admin.DELETE("/places", adminHandler.DeletePlace)
	admin.GET("/characters", adminHandler.ListCharacters)
	admin.POST("/characters", adminHandler.CreateCharacter)
	admin.PATCH("/characters", adminHandler.UpdateCharacter)
	admin.DELETE("/characters", adminHandler.DeleteCharacter)
	admin.GET("/stories", adminHandler.ListStories)
	admin.POST("/stories", adminHandler.CreateStory)
	admin.PATCH("/stories", adminHandler.UpdateStory)
	admin.DELETE("/stories", adminHandler.DeleteStory)
	admin.GET("/timeline", adminHandler.ListTimeline)
	admin.POST("/timeline", adminHandler.CreateTimelineEvent)
	admin.PATCH("/timeline", adminHandler.UpdateTimelineEvent)
	admin.DELETE("/timeline", adminHandler.DeleteTimelineEvent)
	admin.POST("/upload", uploadHandler.Upload)

	return router
}
