package chat

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dogami567/noval-for-one/internal/model"
)

// Limits gathers the clip budgets and fetch caps of the context pipeline.
// The numbers bound prompt size; they carry no other meaning.
type Limits struct {
	ShortField      int // description, excerpt
	LoreField       int // lore / lore_md
	BioField        int // bio
	AliasField      int // joined alias list
	LocationContext int // caller-supplied selected-location string
	Pack            int // whole assembled block
	MatchesPerPool  int
	StoryCandidates int
	StoriesRendered int
}

func DefaultLimits() Limits {
	return Limits{
		ShortField:      220,
		LoreField:       600,
		BioField:        400,
		AliasField:      120,
		LocationContext: 1200,
		Pack:            2400,
		MatchesPerPool:  4,
		StoryCandidates: 50,
		StoriesRendered: 6,
	}
}

type CharacterStore interface {
	ListCandidates(ctx context.Context) ([]model.Character, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Character, error)
}

type PlaceStore interface {
	ListCandidates(ctx context.Context) ([]model.Place, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Place, error)
}

type StoryStore interface {
	ListStoryIDsByCharacters(ctx context.Context, characterIDs []string) ([]string, error)
	ListStoryIDsByPlaces(ctx context.Context, placeIDs []string) ([]string, error)
	ListRecentByIDs(ctx context.Context, ids []string, limit int) ([]model.Story, error)
}

// LoreContextBuilder assembles the bounded lore block injected into the
// system prompt. It reports lookup failures to the caller instead of
// swallowing them; degrading to an empty pack is the caller's decision.
type LoreContextBuilder struct {
	characters CharacterStore
	places     PlaceStore
	stories    StoryStore
	limits     Limits
}

func NewLoreContextBuilder(characters CharacterStore, places PlaceStore, stories StoryStore, limits Limits) *LoreContextBuilder {
	return &LoreContextBuilder{
		characters: characters,
		places:     places,
		stories:    stories,
		limits:     limits,
	}
}

// Build matches the haystack against the character and place pools, fetches
// the winners' detail rows plus related stories, and renders one bounded
// block. With no configured data store it is a no-op returning "".
func (b *LoreContextBuilder) Build(ctx context.Context, haystack string) (string, error) {
	if b == nil || b.characters == nil || b.places == nil {
		return "", nil
	}
	if strings.TrimSpace(haystack) == "" {
		return "", nil
	}

	// The two candidate scans have no data dependency; run them together.
	var characterPool []model.Character
	var placePool []model.Place
	scan, scanCtx := errgroup.WithContext(ctx)
	scan.Go(func() error {
		rows, err := b.characters.ListCandidates(scanCtx)
		characterPool = rows
		return err
	})
	scan.Go(func() error {
		rows, err := b.places.ListCandidates(scanCtx)
		placePool = rows
		return err
	})
	if err := scan.Wait(); err != nil {
		return "", err
	}

	characterIDs := MatchCandidates(haystack, characterCandidates(characterPool), b.limits.MatchesPerPool)
	placeIDs := MatchCandidates(haystack, placeCandidates(placePool), b.limits.MatchesPerPool)
	if len(characterIDs) == 0 && len(placeIDs) == 0 {
		return "", nil
	}

	var characters []model.Character
	var places []model.Place
	var storyIDs []string
	fetch, fetchCtx := errgroup.WithContext(ctx)
	fetch.Go(func() error {
		rows, err := b.characters.ListByIDs(fetchCtx, characterIDs)
		characters = rows
		return err
	})
	fetch.Go(func() error {
		rows, err := b.places.ListByIDs(fetchCtx, placeIDs)
		places = rows
		return err
	})
	fetch.Go(func() error {
		ids, err := b.collectStoryIDs(fetchCtx, characterIDs, placeIDs)
		storyIDs = ids
		return err
	})
	if err := fetch.Wait(); err != nil {
		return "", err
	}

	var stories []model.Story
	if len(storyIDs) > 0 && b.stories != nil {
		rows, err := b.stories.ListRecentByIDs(ctx, storyIDs, b.limits.StoriesRendered)
		if err != nil {
			return "", err
		}
		stories = rows
	}

	pack := b.render(
		orderCharacters(characters, characterIDs),
		orderPlaces(places, placeIDs),
		stories,
	)
	return clipRunes(pack, b.limits.Pack), nil
}

// collectStoryIDs unions the story ids linked to any matched character or
// place, deduplicated, capped at the candidate limit.
func (b *LoreContextBuilder) collectStoryIDs(ctx context.Context, characterIDs, placeIDs []string) ([]string, error) {
	if b.stories == nil {
		return nil, nil
	}

	byCharacter, err := b.stories.ListStoryIDsByCharacters(ctx, characterIDs)
	if err != nil {
		return nil, err
	}
	byPlace, err := b.stories.ListStoryIDsByPlaces(ctx, placeIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, id := range append(byCharacter, byPlace...) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if len(ids) >= b.limits.StoryCandidates {
			break
		}
	}
	return ids, nil
}

func characterCandidates(rows []model.Character) []Candidate {
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, Candidate{ID: row.ID, Name: row.Name, Aliases: row.Aliases})
	}
	return candidates
}

func placeCandidates(rows []model.Place) []Candidate {
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, Candidate{ID: row.ID, Name: row.Name})
	}
	return candidates
}

// The bulk IN queries do not guarantee order; restore the matcher's ranking.
func orderCharacters(rows []model.Character, rankedIDs []string) []model.Character {
	byID := make(map[string]model.Character, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]model.Character, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered
}

func orderPlaces(rows []model.Place, rankedIDs []string) []model.Place {
	byID := make(map[string]model.Place, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]model.Place, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered
}

func (b *LoreContextBuilder) render(characters []model.Character, places []model.Place, stories []model.Story) string {
	var out strings.Builder

	if len(characters) > 0 {
		out.WriteString("【角色】\n")
		for _, character := range characters {
			out.WriteString("- ")
			out.WriteString(character.Name)
			suffix := characterSuffix(character)
			if suffix != "" {
				out.WriteString("（" + suffix + "）")
			}
			out.WriteString("\n")
			if aliases := clipField(strings.Join(character.Aliases, "、"), b.limits.AliasField); aliases != "" {
				out.WriteString("  别名：" + aliases + "\n")
			}
			if description := clipField(character.Description, b.limits.ShortField); description != "" {
				out.WriteString("  简介：" + description + "\n")
			}
			if lore := clipField(character.Lore, b.limits.LoreField); lore != "" {
				out.WriteString("  传记：" + lore + "\n")
			}
			if bio := clipField(character.Bio, b.limits.BioField); bio != "" {
				out.WriteString("  生平：" + bio + "\n")
			}
		}
	}

	if len(places) > 0 {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString("【地点】\n")
		for _, place := range places {
			out.WriteString("- ")
			out.WriteString(place.Name)
			if kind := strings.TrimSpace(place.Kind); kind != "" {
				out.WriteString("（" + kind + "）")
			}
			out.WriteString("\n")
			if description := clipField(place.Description, b.limits.ShortField); description != "" {
				out.WriteString("  简介：" + description + "\n")
			}
			if lore := clipField(place.LoreMD, b.limits.LoreField); lore != "" {
				out.WriteString("  风物志：" + lore + "\n")
			}
		}
	}

	if len(stories) > 0 {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString("【相关短篇】\n")
		for _, story := range stories {
			out.WriteString("- " + clipField(story.Title, b.limits.ShortField))
			if excerpt := clipField(story.Excerpt, b.limits.ShortField); excerpt != "" {
				out.WriteString("：" + excerpt)
			}
			out.WriteString("\n")
		}
	}

	return strings.TrimRight(out.String(), "\n")
}

func characterSuffix(character model.Character) string {
	var parts []string
	if title := strings.TrimSpace(character.Title); title != "" {
		parts = append(parts, title)
	}
	if faction := strings.TrimSpace(character.Faction); faction != "" {
		parts = append(parts, faction)
	}
	return strings.Join(parts, "·")
}
