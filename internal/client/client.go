// Package client talks to the Wave answer resolver over HTTP or WebSocket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/zhouzirui/wave-chatbot/backend/internal/config"
)

// StatusError describes a non-2xx answer. Ask returns it only when the body cannot be
// decoded; Questions returns it for any non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("resolver returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("resolver returned status %d: %s", e.StatusCode, e.Message)
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type questionsResponse struct {
	Questions []string `json:"questions"`
}

// Client is safe for concurrent use. WebSocket calls are serialized on one connection.
type Client struct {
	baseURL   string
	transport config.Transport
	http      *http.Client
	dialer    *websocket.Dialer
	logger    *log.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithLogger sets the destination for non-2xx answers, which are not returned as errors.
func WithLogger(logger *log.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// WithTransport selects HTTP (default) or WebSocket for Ask.
func WithTransport(t config.Transport) Option {
	return func(cl *Client) {
		cl.transport = t
	}
}

// New creates a client for the resolver rooted at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: config.TransportHTTP,
		http:      &http.Client{},
		dialer:    websocket.DefaultDialer,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask sends one query and returns the resolver's answer text. A decodable error body
// (e.g. 400 or 500 {"error": ...}) yields an empty answer and a nil error.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	if c.transport == config.TransportWebSocket {
		return c.askWebSocket(ctx, query)
	}
	return c.askHTTP(ctx, query)
}

func (c *Client) askHTTP(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(askRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post query: %w", err)
	}
	defer resp.Body.Close()

	var payload askResponse
	if err := decode(resp.Body, &payload); err != nil {
		if resp.StatusCode >= 300 {
			return "", &StatusError{StatusCode: resp.StatusCode}
		}
		return "", err
	}
	// 能解析的错误体也是一次应答，只是没有答案，由调用方换成兜底回复
	if resp.StatusCode >= 300 {
		c.logStatus(resp.StatusCode, payload.Error)
	}
	return payload.Answer, nil
}

func (c *Client) askWebSocket(ctx context.Context, query string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	// 零值表示不设超时
	deadline, _ := ctx.Deadline()
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err := conn.WriteJSON(askRequest{Query: query}); err != nil {
		c.resetLocked()
		return "", fmt.Errorf("send query: %w", err)
	}

	var frame askResponse
	if err := conn.ReadJSON(&frame); err != nil {
		c.resetLocked()
		return "", fmt.Errorf("read answer: %w", err)
	}
	if frame.Error != "" || frame.Status >= 300 {
		c.logStatus(frame.Status, frame.Error)
	}
	return frame.Answer, nil
}

func (c *Client) logStatus(code int, message string) {
	c.logger.Printf("[client] %v", &StatusError{StatusCode: code, Message: message})
}

func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	url := c.baseURL + "/api/chat/ws"
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}

	conn, resp, err := c.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c.conn = conn
	return conn, nil
}

func (c *Client) resetLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Questions fetches the corpus questions used as suggestions.
func (c *Client) Questions(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/questions", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var payload questionsResponse
	if err := decode(resp.Body, &payload); err != nil {
		return nil, err
	}
	return payload.Questions, nil
}

// Close releases the WebSocket connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.resetLocked()
	return err
}

func decode(r io.Reader, dst interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r, 1<<20)).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
