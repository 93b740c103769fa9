package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/wave-chatbot/backend/internal/handler"
	faqModel "github.com/zhouzirui/wave-chatbot/backend/internal/model/faq"
	faqService "github.com/zhouzirui/wave-chatbot/backend/internal/service/faq"
	"github.com/zhouzirui/wave-chatbot/backend/internal/widget"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	entries, err := faqModel.Default()
	require.NoError(t, err)
	store := faqModel.NewMemoryStore(entries)

	r, err := faqService.NewRetriever(store, faqService.DefaultThreshold)
	require.NoError(t, err)

	srv := httptest.NewServer(handler.NewRouter(handler.Dependencies{
		Store:          store,
		Resolver:       faqService.NewService(r, nil),
		AllowedOrigins: []string{"*"},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHATBOT_API_URL", "")
	t.Setenv("CHATBOT_TRANSPORT", "")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAskPrintsAnswer(t *testing.T) {
	srv := newServer(t)
	entries, err := faqModel.Default()
	require.NoError(t, err)

	for _, transport := range []string{"http", "ws"} {
		t.Run(transport, func(t *testing.T) {
			out, err := execute(t, "ask", "--api-url", srv.URL, "--transport", transport, entries[0].Question)
			require.NoError(t, err)
			require.Equal(t, entries[0].Answer, strings.TrimSpace(out))
		})
	}
}

func TestAskUnknownQuestionPrintsFallback(t *testing.T) {
	srv := newServer(t)

	out, err := execute(t, "ask", "--api-url", srv.URL, "qwxzv", "jjkkp")
	require.NoError(t, err)
	require.Equal(t, widget.FallbackAnswer, strings.TrimSpace(out))
}

func TestAskBlockedWordPrintsWarning(t *testing.T) {
	srv := newServer(t)

	out, err := execute(t, "ask", "--api-url", srv.URL, "--block", "frobnicate", "please", "frobnicate", "this")
	require.NoError(t, err)
	require.Equal(t, widget.WarningMessage, strings.TrimSpace(out))
}

func TestAskUnreachableServerFails(t *testing.T) {
	srv := newServer(t)
	url := srv.URL
	srv.Close()

	_, err := execute(t, "ask", "--api-url", url, "hello")
	require.Error(t, err)
}

func TestQuestionsListsCorpus(t *testing.T) {
	srv := newServer(t)
	entries, err := faqModel.Default()
	require.NoError(t, err)

	out, err := execute(t, "questions", "--api-url", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, "1. "+entries[0].Question)
	require.Equal(t, len(entries), strings.Count(out, "\n"))
}

func TestInvalidTransportFlag(t *testing.T) {
	_, err := execute(t, "ask", "--transport", "carrier-pigeon", "hello")
	require.ErrorContains(t, err, "invalid transport")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, Version)
}
