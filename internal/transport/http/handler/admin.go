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

// AdminHandler is the CRUD backend for the admin console. PATCH merges the
// submitted fields over the stored row (absent JSON fields keep their
// values), matching how the console edits one form field at a time.
type AdminHandler struct {
	places     *repository.PlaceRepository
	characters *repository.CharacterRepository
	stories    *repository.StoryRepository
	timeline   *repository.TimelineRepository
	cache      *cache.CatalogCache
}

func NewAdminHandler(
	places *repository.PlaceRepository,
	characters *repository.CharacterRepository,
	stories *repository.StoryRepository,
	timeline *repository.TimelineRepository,
	catalogCache *cache.CatalogCache,
) *AdminHandler {
	return &AdminHandler{
		places:     places,
		characters: characters,
		stories:    stories,
		timeline:   timeline,
		cache:      catalogCache,
	}
}

func (h *AdminHandler) ready(c *gin.Context) bool {
	if h.places == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "数据库未配置")
		return false
	}
	return true
}

// ---- places ----

func (h *AdminHandler) ListPlaces(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	places, err := h.places.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list places failed")
		return
	}
	response.OK(c, places)
}

func (h *AdminHandler) CreatePlace(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var place model.Place
	if err := c.ShouldBindJSON(&place); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if err := h.places.Create(c.Request.Context(), &place); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create place failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyPlaces, CacheKeyMapPlaces)
	response.OK(c, place)
}

func (h *AdminHandler) UpdatePlace(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing id")
		return
	}
	place, err := h.places.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get place failed")
		return
	}
	if place == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "place not found")
		return
	}
	if err := c.ShouldBindJSON(place); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	place.ID = id
	if err := h.places.Update(c.Request.Context(), place); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update place failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyPlaces, CacheKeyMapPlaces)
	response.OK(c, place)
}

func (h *AdminHandler) DeletePlace(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing id")
		return
	}
	if err := h.places.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete place failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyPlaces, CacheKeyMapPlaces)
	response.OK(c, gin.H{"deleted_id": id})
}

// ---- characters ----

func (h *AdminHandler) ListCharacters(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	characters, err := h.characters.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list characters failed")
		return
	}
	response.OK(c, characters)
}

func (h *AdminHandler) CreateCharacter(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var character model.Character
	if err := c.ShouldBindJSON(&character); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if err := h.characters.Create(c.Request.Context(), &character); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create character failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyCharacters)
	response.OK(c, character)
}

func (h *AdminHandler) UpdateCharacter(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing id")
		return
	}
	character, err := h.characters.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get character failed")
		return
	}
	if character == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "character not found")
		return
	}
	if err := c.ShouldBindJSON(character); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	character.ID = id
	if err := h.characters.Update(c.Request.Context(), character); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update character failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyCharacters)
	response.OK(c, character)
}

func (h *AdminHandler) DeleteCharacter(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing id")
		return
	}
	if err := h.characters.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete character failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyCharacters)
	response.OK(c, gin.H{"deleted_id": id})
}

// ---- stories ----

// StoryPayload carries the story row plus the join rows to rewrite.
type StoryPayload struct {
	model.Story
	CharacterIDs []string `json:"character_ids"`
	PlaceIDs     []string `json:"place_ids"`
}

func (h *AdminHandler) ListStories(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	stories, err := h.stories.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list stories failed")
		return
	}
	response.OK(c, stories)
}

func (h *AdminHandler) CreateStory(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var payload StoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	ctx := c.Request.Context()
	if err := h.stories.Create(ctx, &payload.Story); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create story failed")
		return
	}
	if err := h.stories.ReplaceLinks(ctx, payload.Story.ID, payload.CharacterIDs, payload.PlaceIDs); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "link story failed")
		return
	}
	h.invalidate(ctx, CacheKeyStories)
	response.OK(c, payload.Story)
}

func (h *AdminHandler) UpdateStory(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing id")
		return
	}
	ctx := c.Request.Context()
	story, err := h.stories.GetByID(ctx, id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get story failed")
		return
	}
	if story == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "story not found")
		return
	}
	payload := StoryPayload{Story: *story}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	payload.Story.ID = id
	if err := h.stories.Update(ctx, &payload.Story); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update story failed")
		return
	}
	if payload.CharacterIDs != nil || payload.PlaceIDs != nil {
		if err := h.stories.ReplaceLinks(ctx, id, payload.CharacterIDs, payload.PlaceIDs); err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "link story failed")
			return
		}
	}
	h.invalidate(ctx, CacheKeyStories)
	response.OK(c, payload.Story)
}

func (h *AdminHandler) DeleteStory(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing id")
		return
	}
	if err := h.stories.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete story failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyStories)
	response.OK(c, gin.H{"deleted_id": id})
}

// ---- timeline ----

func (h *AdminHandler) ListTimeline(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	events, err := h.timeline.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list timeline failed")
		return
	}
	response.OK(c, events)
}

func (h *AdminHandler) CreateTimelineEvent(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	var event model.TimelineEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if err := h.timeline.Create(c.Request.Context(), &event); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create timeline event failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyTimeline)
	response.OK(c, event)
}

func (h *AdminHandler) UpdateTimelineEvent(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing id")
		return
	}
	event, err := h.timeline.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get timeline event failed")
		return
	}
	if event == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "timeline event not found")
		return
	}
	if err := c.ShouldBindJSON(event); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	event.ID = id
	if err := h.timeline.Update(c.Request.Context(), event); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update timeline event failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyTimeline)
	response.OK(c, event)
}

func (h *AdminHandler) DeleteTimelineEvent(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing id")
		return
	}
	if err := h.timeline.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete timeline event failed")
		return
	}
	h.invalidate(c.Request.Context(), CacheKeyTimeline)
	response.OK(c, gin.H{"deleted_id": id})
}

func (h *AdminHandler) invalidate(ctx context.Context, keys ...string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, keys...); err != nil {
		log.Printf("catalog cache invalidate failed: %v", err)
	}
}
