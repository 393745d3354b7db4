package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dogami567/noval-for-one/internal/chat"
)

// ChatHandler fronts the chat pipeline. Its wire format is the original
// widget contract: a bare {"text": ...} body on every status.
type ChatHandler struct {
	chatService *chat.Service
}

type ChatRequest struct {
	Message     string                      `json:"message"`
	Context     string                      `json:"context"`
	History     []chat.Turn                 `json:"history"`
	Attachments []chat.AttachmentDescriptor `json:"attachments"`
}

type ChatResponse struct {
	Text string `json:"text"`
}

func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Generate(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ChatResponse{Text: "缺少 message"})
		return
	}

	result, err := h.chatService.Generate(c.Request.Context(), chat.Request{
		Message:     req.Message,
		Context:     req.Context,
		History:     req.History,
		Attachments: req.Attachments,
	})
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyRequest):
			c.JSON(http.StatusBadRequest, ChatResponse{Text: "缺少 message"})
		case errors.Is(err, chat.ErrAttachmentsTooLarge):
			c.JSON(http.StatusBadRequest, ChatResponse{Text: "附件过大，请压缩后重试（单个不超过 2MB，总计不超过 4MB）。"})
		case errors.Is(err, chat.ErrLLMConfig):
			c.JSON(http.StatusInternalServerError, ChatResponse{Text: "后端未配置 LLM 环境变量"})
		default:
			c.JSON(http.StatusInternalServerError, ChatResponse{Text: chat.FallbackReply})
		}
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Text: result.Text})
}

// MethodNotAllowed answers non-POST verbs on registered routes.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ChatResponse{Text: "仅支持 POST 请求"})
}
