package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dogami567/noval-for-one/internal/cache"
	"github.com/dogami567/noval-for-one/internal/model"
	"github.com/dogami567/noval-for-one/internal/repository"
	"github.com/dogami567/noval-for-one/internal/transport/http/response"
)

// Catalog cache keys. Admin writes invalidate the keys they touch.
const (
	CacheKeyPlaces     = "places"
	CacheKeyMapPlaces  = "places:map"
	CacheKeyCharacters = "characters"
	CacheKeyStories    = "stories"
	CacheKeyTimeline   = "timeline"
)

// CatalogHandler serves the public read API backing the map, galleries and
// timeline views. Repositories may be nil when no data store is configured;
// the cache may be nil when redis is absent.
type CatalogHandler struct {
	places     *repository.PlaceRepository
	characters *repository.CharacterRepository
	stories    *repository.StoryRepository
	timeline   *repository.TimelineRepository
	worldState *repository.WorldStateRepository
	cache      *cache.CatalogCache
}

func NewCatalogHandler(
	places *repository.PlaceRepository,
	characters *repository.CharacterRepository,
	stories *repository.StoryRepository,
	timeline *repository.TimelineRepository,
	worldState *repository.WorldStateRepository,
	catalogCache *cache.CatalogCache,
) *CatalogHandler {
	return &CatalogHandler{
		places:     places,
		characters: characters,
		stories:    stories,
		timeline:   timeline,
		worldState: worldState,
		cache:      catalogCache,
	}
}

func (h *CatalogHandler) ListPlaces(c *gin.Context) {
	if h.places == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return
	}
	var cached []model.Place
	if h.cacheGet(c.Request.Context(), CacheKeyPlaces, &cached) {
		response.OK(c, cached)
		return
	}
	places, err := h.places.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list places failed")
		return
	}
	h.cacheSet(c.Request.Context(), CacheKeyPlaces, places)
	response.OK(c, places)
}

func (h *CatalogHandler) ListMapPlaces(c *gin.Context) {
	if h.places == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return
	}
	var cached []model.Place
	if h.cacheGet(c.Request.Context(), CacheKeyMapPlaces, &cached) {
		response.OK(c, cached)
		return
	}
	places, err := h.places.ListForMap(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list map places failed")
		return
	}
	h.cacheSet(c.Request.Context(), CacheKeyMapPlaces, places)
	response.OK(c, places)
}

func (h *CatalogHandler) GetPlaceBySlug(c *gin.Context) {
	if h.places == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return
	}
	ctx := c.Request.Context()
	place, err := h.places.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get place failed")
		return
	}
	if place == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "place not found")
		return
	}
	children, err := h.places.ListChildren(ctx, place.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get place failed")
		return
	}
	response.OK(c, gin.H{"place": place, "children": children})
}

func (h *CatalogHandler) ListCharacters(c *gin.Context) {
	if h.characters == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return
	}
	ctx := c.Request.Context()

	if locationID := c.Query("location"); locationID != "" {
		characters, err := h.characters.ListByLocation(ctx, locationID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list characters failed")
			return
		}
		response.OK(c, characters)
		return
	}

	var cached []model.Character
	if h.cacheGet(ctx, CacheKeyCharacters, &cached) {
		response.OK(c, cached)
		return
	}
	characters, err := h.characters.List(ctx)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list characters failed")
		return
	}
	h.cacheSet(ctx, CacheKeyCharacters, characters)
	response.OK(c, characters)
}

func (h *CatalogHandler) ListStories(c *gin.Context) {
	if h.stories == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return
	}
	var cached []model.Story
	if h.cacheGet(c.Request.Context(), CacheKeyStories, &cached) {
		response.OK(c, cached)
		return
	}
	stories, err := h.stories.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list stories failed")
		return
	}
	h.cacheSet(c.Request.Context(), CacheKeyStories, stories)
	response.OK(c, stories)
}

func (h *CatalogHandler) GetStoryBySlug(c *gin.Context) {
	if h.stories == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return
	}
	story, err := h.stories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get story failed")
		return
	}
	if story == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "story not found")
		return
	}
	response.OK(c, story)
}

func (h *CatalogHandler) ListTimeline(c *gin.Context) {
	if h.timeline == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return
	}
	var cached []model.TimelineEvent
	if h.cacheGet(c.Request.Context(), CacheKeyTimeline, &cached) {
		response.OK(c, cached)
		return
	}
	events, err := h.timeline.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list timeline failed")
		return
	}
	h.cacheSet(c.Request.Context(), CacheKeyTimeline, events)
	response.OK(c, events)
}

func (h *CatalogHandler) GetWorldState(c *gin.Context) {
	if h.worldState == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return
	}
	state, err := h.worldState.Get(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get world state failed")
		return
	}
	response.OK(c, state)
}

// Cache failures never fail a read; they only cost a database round trip.
func (h *CatalogHandler) cacheGet(ctx context.Context, key string, dest any) bool {
	if h.cache == nil {
		return false
	}
	hit, err := h.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("catalog cache get %s failed: %v", key, err)
		return false
	}
	return hit
}

func (h *CatalogHandler) cacheSet(ctx context.Context, key string, value any) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, value); err != nil {
		log.Printf("catalog cache set %s failed: %v", key, err)
	}
}
