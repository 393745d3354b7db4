package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dogami567/noval-for-one/internal/model"
)

type fakeCharacterStore struct {
	candidates []model.Character
	details    []model.Character
	scanErr    error
	fetchCalls int
}

func (f *fakeCharacterStore) ListCandidates(ctx context.Context) ([]model.Character, error) {
	return f.candidates, f.scanErr
}

func (f *fakeCharacterStore) ListByIDs(ctx context.Context, ids []string) ([]model.Character, error) {
	f.fetchCalls++
	var rows []model.Character
	for _, id := range ids {
		for _, row := range f.details {
			if row.ID == id {
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

type fakePlaceStore struct {
	candidates []model.Place
	details    []model.Place
}

func (f *fakePlaceStore) ListCandidates(ctx context.Context) ([]model.Place, error) {
	return f.candidates, nil
}

func (f *fakePlaceStore) ListByIDs(ctx context.Context, ids []string) ([]model.Place, error) {
	var rows []model.Place
	for _, id := range ids {
		for _, row := range f.details {
			if row.ID == id {
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

type fakeStoryStore struct {
	byCharacter []string
	byPlace     []string
	stories     []model.Story
}

func (f *fakeStoryStore) ListStoryIDsByCharacters(ctx context.Context, characterIDs []string) ([]string, error) {
	return f.byCharacter, nil
}

func (f *fakeStoryStore) ListStoryIDsByPlaces(ctx context.Context, placeIDs []string) ([]string, error) {
	return f.byPlace, nil
}

func (f *fakeStoryStore) ListRecentByIDs(ctx context.Context, ids []string, limit int) ([]model.Story, error) {
	if len(f.stories) > limit {
		return f.stories[:limit], nil
	}
	return f.stories, nil
}

func TestLoreContextBuilder_NilBuilderIsNoop(t *testing.T) {
	var b *LoreContextBuilder
	pack, err := b.Build(context.Background(), "anything")
	if err != nil || pack != "" {
		t.Fatalf("nil builder must be a no-op, got %q, %v", pack, err)
	}
}

func TestLoreContextBuilder_BlankHaystack(t *testing.T) {
	b := NewLoreContextBuilder(&fakeCharacterStore{}, &fakePlaceStore{}, &fakeStoryStore{}, DefaultLimits())
	pack, err := b.Build(context.Background(), "   \n\t ")
	if err != nil || pack != "" {
		t.Fatalf("blank haystack must yield empty pack, got %q, %v", pack, err)
	}
}

func TestLoreContextBuilder_NoMatchesSkipsDetailFetch(t *testing.T) {
	characters := &fakeCharacterStore{
		candidates: []model.Character{{ID: "c1", Name: "Mel"}},
	}
	b := NewLoreContextBuilder(characters, &fakePlaceStore{}, &fakeStoryStore{}, DefaultLimits())
	pack, err := b.Build(context.Background(), "unrelated question")
	if err != nil || pack != "" {
		t.Fatalf("expected empty pack, got %q, %v", pack, err)
	}
	if characters.fetchCalls != 0 {
		t.Fatalf("detail fetch must be skipped with no matches, got %d calls", characters.fetchCalls)
	}
}

func TestLoreContextBuilder_ScanErrorPropagates(t *testing.T) {
	scanErr := errors.New("connection refused")
	b := NewLoreContextBuilder(&fakeCharacterStore{scanErr: scanErr}, &fakePlaceStore{}, &fakeStoryStore{}, DefaultLimits())
	pack, err := b.Build(context.Background(), "who is mel?")
	if !errors.Is(err, scanErr) {
		t.Fatalf("expected scan error, got %v", err)
	}
	if pack != "" {
		t.Fatalf("failed build must not return a partial pack, got %q", pack)
	}
}

func TestLoreContextBuilder_RendersMatchedSections(t *testing.T) {
	characters := &fakeCharacterStore{
		candidates: []model.Character{
			{ID: "c1", Name: "Mel", Aliases: []string{"The Void Walker"}},
			{ID: "c2", Name: "Orrin"},
		},
		details: []model.Character{
			{
				ID:          "c1",
				Name:        "Mel",
				Title:       "虚空行者",
				Faction:     "远征议会",
				Aliases:     []string{"The Void Walker"},
				Description: "穿行于位面裂隙的旅人。",
				Lore:        "传说她曾踏入虚空之心并活着回来。",
			},
		},
	}
	places := &fakePlaceStore{
		candidates: []model.Place{{ID: "p1", Name: "Emberfall"}},
		details: []model.Place{
			{ID: "p1", Name: "Emberfall", Kind: "城市", Description: "灰烬之城。"},
		},
	}
	stories := &fakeStoryStore{
		byCharacter: []string{"s1"},
		stories:     []model.Story{{ID: "s1", Title: "裂隙之夜", Excerpt: "那一夜裂隙张开。"}},
	}

	b := NewLoreContextBuilder(characters, places, stories, DefaultLimits())
	pack, err := b.Build(context.Background(), "Tell me about the Void Walker and Emberfall")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(pack, "【角色】") {
		t.Fatal("missing character section")
	}
	if !strings.Contains(pack, "- Mel（虚空行者·远征议会）") {
		t.Fatalf("character line wrong:\n%s", pack)
	}
	if !strings.Contains(pack, "别名：The Void Walker") {
		t.Fatal("missing alias line")
	}
	if !strings.Contains(pack, "【地点】") || !strings.Contains(pack, "- Emberfall（城市）") {
		t.Fatalf("place section wrong:\n%s", pack)
	}
	if !strings.Contains(pack, "【相关短篇】") || !strings.Contains(pack, "- 裂隙之夜：那一夜裂隙张开。") {
		t.Fatalf("story section wrong:\n%s", pack)
	}
	if strings.Contains(pack, "Orrin") {
		t.Fatal("unmatched candidate leaked into the pack")
	}
}

func TestLoreContextBuilder_RestoresRankedOrder(t *testing.T) {
	characters := &fakeCharacterStore{
		candidates: []model.Character{
			{ID: "short", Name: "Ash"},
			{ID: "long", Name: "Ashenvale Reach"},
		},
		// Details arrive in id order, not match order.
		details: []model.Character{
			{ID: "long", Name: "Ashenvale Reach"},
			{ID: "short", Name: "Ash"},
		},
	}
	b := NewLoreContextBuilder(characters, &fakePlaceStore{}, &fakeStoryStore{}, DefaultLimits())
	pack, err := b.Build(context.Background(), "crossing the ashenvale reach")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(pack, "\n")
	long, short := -1, -1
	for i, line := range lines {
		switch line {
		case "- Ashenvale Reach":
			long = i
		case "- Ash":
			short = i
		}
	}
	if long < 0 || short < 0 {
		t.Fatalf("missing entries:\n%s", pack)
	}
	if long > short {
		t.Fatalf("best match must render first:\n%s", pack)
	}
}

func TestLoreContextBuilder_ClipsLongFields(t *testing.T) {
	limits := DefaultLimits()
	characters := &fakeCharacterStore{
		candidates: []model.Character{{ID: "c1", Name: "Mel"}},
		details: []model.Character{
			{ID: "c1", Name: "Mel", Lore: strings.Repeat("史", limits.LoreField+300)},
		},
	}
	b := NewLoreContextBuilder(characters, &fakePlaceStore{}, &fakeStoryStore{}, limits)
	pack, err := b.Build(context.Background(), "mel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(pack, "史") != limits.LoreField {
		t.Fatalf("lore not clipped to %d runes, counted %d", limits.LoreField, strings.Count(pack, "史"))
	}
	if !strings.Contains(pack, "…") {
		t.Fatal("clipped field must carry the ellipsis marker")
	}
}

func TestLoreContextBuilder_WholePackBounded(t *testing.T) {
	limits := DefaultLimits()
	var candidates, details []model.Character
	names := []string{"Aldric", "Brenna", "Caldus", "Dareth"}
	for i, name := range names {
		id := string(rune('a' + i))
		candidates = append(candidates, model.Character{ID: id, Name: name})
		details = append(details, model.Character{
			ID:   id,
			Name: name,
			Lore: strings.Repeat("年", limits.LoreField),
			Bio:  strings.Repeat("事", limits.BioField),
		})
	}
	b := NewLoreContextBuilder(&fakeCharacterStore{candidates: candidates, details: details}, &fakePlaceStore{}, &fakeStoryStore{}, limits)
	pack, err := b.Build(context.Background(), strings.ToLower(strings.Join(names, " ")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len([]rune(pack)); got > limits.Pack+1 {
		t.Fatalf("pack exceeds budget: %d runes", got)
	}
}
