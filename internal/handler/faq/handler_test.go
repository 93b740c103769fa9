package faq

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	faqmodel "github.com/zhouzirui/wave-chatbot/backend/internal/model/faq"
)

func TestListQuestions(t *testing.T) {
	store := faqmodel.NewMemoryStore([]faqmodel.Entry{
		{Question: "How do I install the chatbot?", Answer: "a"},
		{Question: "What technologies are used in this chatbot?", Answer: "b"},
	})
	r := chi.NewRouter()
	New(store).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/questions", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body QuestionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Questions) != 2 || body.Questions[1] != "What technologies are used in this chatbot?" {
		t.Fatalf("unexpected questions: %v", body.Questions)
	}
}
