package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	FAQ    FAQConfig
	Widget WidgetConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	faq, err := loadFAQConfig()
	if err != nil {
		return nil, err
	}

	widget, err := loadWidgetConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, FAQ: faq, Widget: widget}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址与 CORS 来源。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	origins := parseListEnv("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// FAQConfig 描述问答语料与匹配参数。
type FAQConfig struct {
	// CorpusPath 为空时使用内置数据集。
	CorpusPath string
	// Threshold 越大匹配越宽松，0 表示只接受完全匹配。
	Threshold float64
}

func loadFAQConfig() (FAQConfig, error) {
	threshold := 0.4
	override, err := parseOptionalFloatEnv("FAQ_MATCH_THRESHOLD")
	if err != nil {
		return FAQConfig{}, err
	}
	if override != nil {
		if *override < 0 || *override > 1 {
			return FAQConfig{}, fmt.Errorf("invalid FAQ_MATCH_THRESHOLD value %v: must be within [0, 1]", *override)
		}
		threshold = *override
	}

	return FAQConfig{
		CorpusPath: strings.TrimSpace(os.Getenv("FAQ_CORPUS_PATH")),
		Threshold:  threshold,
	}, nil
}

// Transport 选择组件与服务端之间的通信方式。
type Transport string

const (
	TransportHTTP      Transport = "http"
	TransportWebSocket Transport = "ws"
)

// WidgetConfig 描述终端聊天组件的配置。
type WidgetConfig struct {
	APIURL        string
	Transport     Transport
	ExtraBlocked  []string
	LogFile       string
	FetchQuestion bool
}

func loadWidgetConfig() (WidgetConfig, error) {
	apiURL := getEnvOrDefault("CHATBOT_API_URL", "http://localhost:8080")
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return WidgetConfig{}, fmt.Errorf("invalid CHATBOT_API_URL value: %q", apiURL)
	}

	transport, err := ParseTransport(getEnvOrDefault("CHATBOT_TRANSPORT", string(TransportHTTP)))
	if err != nil {
		return WidgetConfig{}, err
	}

	fetch, err := parseBoolEnv("CHATBOT_FETCH_QUESTIONS", false)
	if err != nil {
		return WidgetConfig{}, err
	}

	return WidgetConfig{
		APIURL:        strings.TrimRight(apiURL, "/"),
		Transport:     transport,
		ExtraBlocked:  parseListEnv("CHATBOT_PROFANITY_EXTRA"),
		LogFile:       strings.TrimSpace(os.Getenv("WIDGET_LOG_FILE")),
		FetchQuestion: fetch,
	}, nil
}

// ParseTransport 校验传输方式名称。
func ParseTransport(raw string) (Transport, error) {
	switch Transport(strings.ToLower(strings.TrimSpace(raw))) {
	case TransportHTTP:
		return TransportHTTP, nil
	case TransportWebSocket, "websocket":
		return TransportWebSocket, nil
	default:
		return "", fmt.Errorf("invalid transport %q: expected http or ws", raw)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
