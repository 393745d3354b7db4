package chat

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/dogami567/noval-for-one/internal/ai"
	"github.com/dogami567/noval-for-one/internal/model"
)

// FallbackReply is the only provider-failure text a client ever sees.
const FallbackReply = "档案馆暂时无法回应，请稍后再试。"

var (
	ErrEmptyRequest = errors.New("message and attachments are both empty")
	ErrLLMConfig    = errors.New("llm provider is not configured")
)

// Completer is the single chat-completion capability this pipeline consumes.
type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// ContextSource yields the lore block for a request's combined text, or an
// error the service may choose to degrade on.
type ContextSource interface {
	Build(ctx context.Context, haystack string) (string, error)
}

// LogPublisher records completed exchanges out-of-band; failures are ignored.
type LogPublisher interface {
	Publish(ctx context.Context, entry model.ChatLog) error
}

type Request struct {
	Message     string
	Context     string // selected-location context string from the client
	History     []Turn
	Attachments []AttachmentDescriptor
}

type Result struct {
	Text     string
	Degraded bool
}

// Service orchestrates one chat request: normalize attachments, assemble
// lore context, build the prompt, call the provider, map failures to the
// fixed fallback. Stateless; every invocation is independent.
type Service struct {
	completer Completer
	contexts  ContextSource
	publisher LogPublisher
	llm       ai.ChatConfig
	limits    Limits
}

func NewService(completer Completer, contexts ContextSource, publisher LogPublisher, llm ai.ChatConfig, limits Limits) *Service {
	if completer == nil {
		completer = ai.NewOpenAICompatibleClient()
	}
	return &Service{
		completer: completer,
		contexts:  contexts,
		publisher: publisher,
		llm:       llm,
		limits:    limits,
	}
}

func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if s.llm.BaseURL == "" || s.llm.APIKey == "" || s.llm.Model == "" {
		return Result{}, ErrLLMConfig
	}
	if strings.TrimSpace(req.Message) == "" && len(req.Attachments) == 0 {
		return Result{}, ErrEmptyRequest
	}

	attachments, err := NormalizeAttachments(req.Attachments)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.Message) == "" && attachments.Empty() {
		// Everything the client sent was dropped; nothing left to answer.
		return Result{}, ErrEmptyRequest
	}

	// Context assembly is best-effort: a failed lookup degrades to an empty
	// pack, never to a failed request.
	pack, err := s.contextPack(ctx, req, attachments)
	if err != nil {
		log.Printf("[chat] context build failed: %v", truncateError(err))
		pack = ""
	}

	messages := BuildMessages(req.Message, req.Context, pack, NormalizeHistory(req.History), attachments, s.limits)

	reply, err := s.completer.Complete(ctx, s.llm, messages)
	degraded := false
	if err != nil {
		log.Printf("[chat] provider call failed: %v", truncateError(err))
		reply = FallbackReply
		degraded = true
	}

	if len(attachments.Warnings) > 0 {
		reply = reply + "\n\n" + strings.Join(attachments.Warnings, "\n")
	}

	s.publishLog(ctx, req.Message, reply, degraded)
	return Result{Text: reply, Degraded: degraded}, nil
}

// contextPack feeds the matcher with the user message plus every
// text-attachment body.
func (s *Service) contextPack(ctx context.Context, req Request, attachments NormalizedAttachments) (string, error) {
	if s.contexts == nil {
		return "", nil
	}
	var haystack strings.Builder
	haystack.WriteString(req.Message)
	for _, attachment := range attachments.Texts {
		haystack.WriteString("\n")
		haystack.WriteString(attachment.Text)
	}
	return s.contexts.Build(ctx, haystack.String())
}

func (s *Service) publishLog(ctx context.Context, message, reply string, degraded bool) {
	if s.publisher == nil {
		return
	}
	entry := model.ChatLog{
		Message:  strings.TrimSpace(message),
		Reply:    reply,
		Degraded: degraded,
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		log.Printf("[chat] publish chat log failed: %v", err)
	}
}

const errLogLimit = 300

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > errLogLimit {
		return msg[:errLogLimit]
	}
	return msg
}
