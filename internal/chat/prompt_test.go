package chat

import (
	"strings"
	"testing"

	"github.com/dogami567/noval-for-one/internal/ai"
)

func TestComposeUserText_PlaceholderWithAttachments(t *testing.T) {
	attachments := NormalizedAttachments{
		Texts: []TextAttachment{{Filename: "notes.txt", ContentType: "text/plain", Text: "hello"}},
	}
	got := ComposeUserText("", attachments)
	want := "请阅读附件并回答。\n\n【附件：notes.txt】\nhello"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestComposeUserText_MessagePlusAttachments(t *testing.T) {
	attachments := NormalizedAttachments{
		Texts: []TextAttachment{
			{Filename: "a.txt", Text: "first"},
			{Filename: "b.md", Text: "second"},
		},
	}
	got := ComposeUserText("  总结一下  ", attachments)
	want := "总结一下\n\n【附件：a.txt】\nfirst\n\n【附件：b.md】\nsecond"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestComposeUserText_NoPlaceholderWithoutAttachments(t *testing.T) {
	if got := ComposeUserText("", NormalizedAttachments{}); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestNormalizeHistory_CoercesAndCaps(t *testing.T) {
	raw := []Turn{
		{Role: "system", Content: "drop my role"},
		{Role: "user", Content: ""},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "u2"},
		{Role: "assistant", Content: "a2"},
		{Role: "user", Content: "u3"},
		{Role: "assistant", Content: "a3"},
		{Role: "user", Content: "u4"},
	}
	got := NormalizeHistory(raw)
	if len(got) != historyLimit {
		t.Fatalf("expected %d turns, got %d", historyLimit, len(got))
	}
	if got[0].Content != "a1" || got[len(got)-1].Content != "u4" {
		t.Fatalf("must keep the most recent turns, got %+v", got)
	}
	for _, turn := range got {
		if turn.Role != "user" && turn.Role != "assistant" {
			t.Fatalf("unexpected role %q", turn.Role)
		}
	}
}

func TestBuildMessages_TextOnly(t *testing.T) {
	messages := BuildMessages("讲讲这片大陆", "", "", nil, NormalizedAttachments{}, DefaultLimits())
	if len(messages) != 2 {
		t.Fatalf("expected system + user, got %d messages", len(messages))
	}
	if messages[0].Role != "system" {
		t.Fatalf("first message must be the system prompt, got %q", messages[0].Role)
	}
	system, ok := messages[0].Content.(string)
	if !ok {
		t.Fatalf("system content must be a string, got %T", messages[0].Content)
	}
	if !strings.Contains(system, "编年史守护者") {
		t.Fatal("missing persona")
	}
	if !strings.Contains(system, "当前选中地点信息（如有）：无。") {
		t.Fatal("empty location context must render as 无")
	}
	if strings.Contains(system, "【世界档案】") {
		t.Fatal("lore label must be absent when the pack is empty")
	}
	if content, ok := messages[1].Content.(string); !ok || content != "讲讲这片大陆" {
		t.Fatalf("user turn wrong: %v", messages[1].Content)
	}
}

func TestBuildMessages_LoreBlockInjected(t *testing.T) {
	messages := BuildMessages("mel?", "", "【角色】\n- Mel", nil, NormalizedAttachments{}, DefaultLimits())
	system := messages[0].Content.(string)
	idx := strings.Index(system, "【世界档案】")
	if idx < 0 {
		t.Fatal("missing lore label")
	}
	if !strings.Contains(system[idx:], "- Mel") {
		t.Fatal("pack content must follow the label")
	}
}

func TestBuildMessages_LocationContextClipped(t *testing.T) {
	limits := DefaultLimits()
	long := strings.Repeat("城", limits.LocationContext+100)
	messages := BuildMessages("hi", long, "", nil, NormalizedAttachments{}, limits)
	system := messages[0].Content.(string)
	if strings.Count(system, "城") != limits.LocationContext {
		t.Fatalf("location context not clipped, counted %d", strings.Count(system, "城"))
	}
}

func TestBuildMessages_HistoryBetweenSystemAndUser(t *testing.T) {
	history := []Turn{{Role: "user", Content: "先前的问题"}, {Role: "assistant", Content: "先前的回答"}}
	messages := BuildMessages("新问题", "", "", history, NormalizedAttachments{}, DefaultLimits())
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if messages[1].Content != "先前的问题" || messages[2].Content != "先前的回答" {
		t.Fatalf("history turns out of place: %+v", messages[1:3])
	}
	if messages[3].Content != "新问题" {
		t.Fatalf("current turn must come last, got %v", messages[3].Content)
	}
}

func TestBuildMessages_ImagesProduceMultipartTurn(t *testing.T) {
	attachments := NormalizedAttachments{
		Images: []ImageAttachment{
			{Filename: "map.png", ContentType: "image/png", Base64: "aGVsbG8="},
			{Filename: "crest.webp", ContentType: "image/webp", Base64: "d29ybGQ="},
		},
	}
	messages := BuildMessages("看看这两张图", "", "", nil, attachments, DefaultLimits())
	last := messages[len(messages)-1]

	parts, ok := last.Content.([]ai.ContentPart)
	if !ok {
		t.Fatalf("expected multipart content, got %T", last.Content)
	}
	if len(parts) != 3 {
		t.Fatalf("expected text part + 2 image parts, got %d", len(parts))
	}
	if parts[0].Type != "text" || parts[0].Text != "看看这两张图" {
		t.Fatalf("first part must be the user text, got %+v", parts[0])
	}
	if parts[1].ImageURL == nil || parts[1].ImageURL.URL != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("image data uri wrong: %+v", parts[1])
	}
	if parts[2].ImageURL == nil || parts[2].ImageURL.URL != "data:image/webp;base64,d29ybGQ=" {
		t.Fatalf("second image data uri wrong: %+v", parts[2])
	}
}
