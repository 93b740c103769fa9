package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	faqservice "github.com/zhouzirui/wave-chatbot/backend/internal/service/faq"
)

func dialChatSocket(t *testing.T, h http.Handler) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketAnswersEachFrame(t *testing.T) {
	svc, entries := newCorpusService(t)
	conn := dialChatSocket(t, setupRouter(svc))

	queries := []struct {
		query  string
		answer string
		status int
		err    string
	}{
		{query: entries[0].Question, answer: entries[0].Answer, status: http.StatusOK},
		{query: "qwxzv jjkkp", answer: faqservice.FallbackAnswer, status: http.StatusOK},
		{query: "", status: http.StatusBadRequest, err: MsgQueryRequired},
	}

	for _, q := range queries {
		if err := conn.WriteJSON(Request{Query: q.query}); err != nil {
			t.Fatalf("write: %v", err)
		}
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read: %v", err)
		}
		if frame.Status != q.status || frame.Answer != q.answer || frame.Error != q.err {
			t.Fatalf("query %q: unexpected frame %+v", q.query, frame)
		}
	}
}

func TestWebSocketMalformedFrameKeepsConnection(t *testing.T) {
	svc, entries := newCorpusService(t)
	conn := dialChatSocket(t, setupRouter(svc))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Status != http.StatusBadRequest || frame.Error != MsgInvalidBody {
		t.Fatalf("unexpected frame %+v", frame)
	}

	if err := conn.WriteJSON(Request{Query: entries[1].Question}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Answer != entries[1].Answer {
		t.Fatalf("unexpected answer %q", frame.Answer)
	}
}
