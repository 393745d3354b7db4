package chat

import (
	"strings"

	"github.com/dogami567/noval-for-one/internal/ai"
)

// BlankMessagePlaceholder stands in for the user text when the message is
// empty but attachments are present; the provider never sees an empty turn.
const BlankMessagePlaceholder = "请阅读附件并回答。"

const historyLimit = 6

const loreBlockLabel = "【世界档案】"

// Turn is one prior exchange line, client-held and forwarded per request.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NormalizeHistory coerces roles to user/assistant, drops empty turns and
// keeps only the most recent entries. The client already caps its history;
// capping again here keeps the bound at the trust boundary.
func NormalizeHistory(raw []Turn) []Turn {
	history := make([]Turn, 0, len(raw))
	for _, turn := range raw {
		if turn.Content == "" {
			continue
		}
		role := "user"
		if turn.Role == "assistant" {
			role = "assistant"
		}
		history = append(history, Turn{Role: role, Content: turn.Content})
	}
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	return history
}

// BuildMessages produces the ordered provider message list: persona system
// prompt (with selected-location context and the lore block when non-empty),
// prior turns verbatim, then the current turn. The current turn is multi-part
// when image attachments are present.
func BuildMessages(message, locationContext, contextPack string, history []Turn, attachments NormalizedAttachments, limits Limits) []ai.ChatMessage {
	messages := make([]ai.ChatMessage, 0, len(history)+2)
	messages = append(messages, ai.ChatMessage{
		Role:    "system",
		Content: buildSystemPrompt(locationContext, contextPack, limits),
	})
	for _, turn := range history {
		messages = append(messages, ai.ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	userText := ComposeUserText(message, attachments)
	if len(attachments.Images) == 0 {
		messages = append(messages, ai.ChatMessage{Role: "user", Content: userText})
		return messages
	}

	parts := make([]ai.ContentPart, 0, len(attachments.Images)+1)
	parts = append(parts, ai.TextPart(userText))
	for _, image := range attachments.Images {
		parts = append(parts, ai.ImagePart("data:"+image.ContentType+";base64,"+image.Base64))
	}
	messages = append(messages, ai.ChatMessage{Role: "user", Content: parts})
	return messages
}

func buildSystemPrompt(locationContext, contextPack string, limits Limits) string {
	location := clipRunes(strings.TrimSpace(locationContext), limits.LocationContext)
	if location == "" {
		location = "无"
	}

	var b strings.Builder
	b.WriteString("你是「编年史守护者」，一位栖居在奇幻大陆地图中的古老智能。\n")
	b.WriteString("口吻睿智、略带史诗感，但保持友好与简洁。\n\n")
	b.WriteString("当前选中地点信息（如有）：" + location + "。\n")
	if contextPack != "" {
		b.WriteString("\n" + loreBlockLabel + "\n")
		b.WriteString(contextPack)
		b.WriteString("\n")
	}
	b.WriteString("\n回答要求：\n")
	b.WriteString("- 80 字以内，中文输出。\n")
	b.WriteString("- 若被问及地点/角色，结合已知信息进行沉浸式扩写，但不要胡编完全违背设定的事实。\n")
	b.WriteString("- 如果用户想继续探索，引导其查看地图或英雄群像。")
	return b.String()
}

// ComposeUserText builds the effective text of the current turn: the trimmed
// message (or the placeholder when blank with attachments present) followed
// by each text-attachment body as a labeled section.
func ComposeUserText(message string, attachments NormalizedAttachments) string {
	text := strings.TrimSpace(message)
	if text == "" && !attachments.Empty() {
		text = BlankMessagePlaceholder
	}
	var b strings.Builder
	b.WriteString(text)
	for _, attachment := range attachments.Texts {
		b.WriteString("\n\n【附件：" + attachment.Filename + "】\n" + attachment.Text)
	}
	return b.String()
}
