package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhouzirui/wave-chatbot/backend/pkg/utils"
)

const (
	wsReadLimit    = 1 << 16
	wsWriteTimeout = 10 * time.Second
)

// Frame 是 WebSocket 上的出站消息，Answer 与 Error 二选一
type Frame struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
	Status int    `json:"status"`
}

// handleWebSocket 每收到一个 {"query"} 帧，回复恰好一个结果帧
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	ctx := r.Context()
	log.Printf("[ws] connection opened remote=%s", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read failed: %v", err)
			}
			log.Printf("[ws] connection closed remote=%s", r.RemoteAddr)
			return
		}

		var frame Frame
		var payload Request
		if err := json.Unmarshal(data, &payload); err != nil {
			frame = Frame{Status: http.StatusBadRequest, Error: MsgInvalidBody}
		} else {
			status, body := h.answer(ctx, payload.Query)
			frame = Frame{Status: status}
			switch v := body.(type) {
			case Response:
				frame.Answer = v.Answer
			case utils.ErrorBody:
				frame.Error = v.Error
			}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("[ws] write failed: %v", err)
			return
		}
	}
}
