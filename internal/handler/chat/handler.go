package chat

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	faqservice "github.com/zhouzirui/wave-chatbot/backend/internal/service/faq"
	"github.com/zhouzirui/wave-chatbot/backend/pkg/utils"
)

// 对外固定的错误文案
const (
	MsgQueryRequired    = "Query is required"
	MsgMethodNotAllowed = "Method not allowed"
	MsgSearchFailed     = "Error initializing search"
	MsgInvalidBody      = "invalid request body"
)

// Resolver 将问题解析为答案
type Resolver interface {
	Resolve(ctx context.Context, query string) (faqservice.Result, error)
}

// Request 是 /api/chat 的请求体
type Request struct {
	Query string `json:"query"`
}

// Response 是 /api/chat 的成功响应体
type Response struct {
	Answer string `json:"answer"`
}

// Handler 问答接口的HTTP处理器
type Handler struct {
	resolver Resolver
	upgrader websocket.Upgrader
}

// New 创建问答处理器
func New(resolver Resolver) *Handler {
	return &Handler{
		resolver: resolver,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册问答相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	// 方法校验在处理器内完成，以便非 POST 请求得到 JSON 格式的 405。
	r.HandleFunc("/chat", h.handleChat)
	r.Get("/chat/ws", h.handleWebSocket)
}

// handleChat 处理 POST /api/chat
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		utils.RespondError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	var payload Request
	if err := utils.DecodeJSON(w, r, &payload); err != nil && !errors.Is(err, utils.ErrEmptyBody) {
		utils.RespondError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	status, body := h.answer(r.Context(), payload.Query)
	utils.RespondJSON(w, status, body)
}

// answer 执行一次查询并给出状态码与响应体，HTTP 与 WebSocket 共用
func (h *Handler) answer(ctx context.Context, query string) (int, interface{}) {
	if strings.TrimSpace(query) == "" {
		return http.StatusBadRequest, utils.ErrorBody{Error: MsgQueryRequired}
	}

	result, err := h.resolver.Resolve(ctx, query)
	switch {
	case err == nil:
		return http.StatusOK, Response{Answer: result.Answer}
	case errors.Is(err, faqservice.ErrEmptyQuery):
		return http.StatusBadRequest, utils.ErrorBody{Error: MsgQueryRequired}
	default:
		log.Printf("[chat] resolve failed: %v", err)
		return http.StatusInternalServerError, utils.ErrorBody{Error: MsgSearchFailed}
	}
}
