package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "FAQ_CORPUS_PATH", "FAQ_MATCH_THRESHOLD",
		"CHATBOT_API_URL", "CHATBOT_TRANSPORT", "CHATBOT_PROFANITY_EXTRA",
		"CHATBOT_FETCH_QUESTIONS", "WIDGET_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	require.Equal(t, 0.4, cfg.FAQ.Threshold)
	require.Empty(t, cfg.FAQ.CorpusPath)
	require.Equal(t, "http://localhost:8080", cfg.Widget.APIURL)
	require.Equal(t, TransportHTTP, cfg.Widget.Transport)
	require.False(t, cfg.Widget.FetchQuestion)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FAQ_MATCH_THRESHOLD", "0.25")
	t.Setenv("FAQ_CORPUS_PATH", "/data/faq.yaml")
	t.Setenv("CHATBOT_API_URL", "https://faq.example/")
	t.Setenv("CHATBOT_TRANSPORT", "WebSocket")
	t.Setenv("CHATBOT_PROFANITY_EXTRA", "darn,heck")
	t.Setenv("CHATBOT_FETCH_QUESTIONS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	require.Equal(t, 0.25, cfg.FAQ.Threshold)
	require.Equal(t, "/data/faq.yaml", cfg.FAQ.CorpusPath)
	require.Equal(t, "https://faq.example", cfg.Widget.APIURL)
	require.Equal(t, TransportWebSocket, cfg.Widget.Transport)
	require.Equal(t, []string{"darn", "heck"}, cfg.Widget.ExtraBlocked)
	require.True(t, cfg.Widget.FetchQuestion)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                "80 80",
		"FAQ_MATCH_THRESHOLD": "1.5",
		"CHATBOT_API_URL":     "not a url",
		"CHATBOT_TRANSPORT":   "carrier-pigeon",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}
