package faq

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	faqmodel "github.com/zhouzirui/wave-chatbot/backend/internal/model/faq"
	"github.com/zhouzirui/wave-chatbot/backend/pkg/utils"
)

// QuestionsResponse 是 GET /api/questions 的响应体
type QuestionsResponse struct {
	Questions []string `json:"questions"`
}

// Handler 语料查询的HTTP处理器
type Handler struct {
	store faqmodel.Store
}

// New 创建语料处理器
func New(store faqmodel.Store) *Handler {
	return &Handler{
		store: store,
	}
}

// RegisterRoutes 注册语料相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/questions", h.handleListQuestions)
}

// handleListQuestions 列出所有可供推荐的问题
func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, QuestionsResponse{Questions: h.store.Questions()})
}
