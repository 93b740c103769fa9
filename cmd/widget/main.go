// Package main provides the Wave chat widget: a terminal client for the FAQ
// answer resolver.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/wave-chatbot/backend/internal/analysis/profanity"
	"github.com/zhouzirui/wave-chatbot/backend/internal/client"
	"github.com/zhouzirui/wave-chatbot/backend/internal/config"
	"github.com/zhouzirui/wave-chatbot/backend/internal/widget"
)

const (
	Version = "0.1.0"
	appName = "wave"
)

// options 为命令行覆盖项，未设置时沿用环境变量配置
type options struct {
	apiURL    string
	transport string
	fetch     bool
	blocked   []string
	timeout   time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
	}

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	chat := func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, &opts)
	}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Wave FAQ chat widget",
		Long: `Wave is a small FAQ chatbot. The widget keeps an in-memory transcript,
screens messages for offensive language and sends everything else to the
answer resolver over HTTP or WebSocket.`,
		SilenceUsage: true,
		RunE:         chat,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "Resolver base URL (default $CHATBOT_API_URL or http://localhost:8080)")
	flags.StringVar(&opts.transport, "transport", "", "Transport to the resolver: http or ws")
	flags.BoolVar(&opts.fetch, "fetch-questions", false, "Load suggested questions from the server")
	flags.StringSliceVar(&opts.blocked, "block", nil, "Extra words to treat as offensive")
	flags.DurationVar(&opts.timeout, "timeout", 15*time.Second, "Per-request timeout for ask and questions")

	cmd.AddCommand(&cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat window",
		RunE:  chat,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, &opts, strings.Join(args, " "))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "questions",
		Short: "List the questions the resolver can answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuestions(cmd, &opts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// loadConfig 合并环境变量与命令行参数
func loadConfig(cmd *cobra.Command, opts *options) (config.WidgetConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.WidgetConfig{}, fmt.Errorf("load configuration: %w", err)
	}
	widgetCfg := cfg.Widget

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		widgetCfg.APIURL = strings.TrimRight(opts.apiURL, "/")
	}
	if flags.Changed("transport") {
		t, err := config.ParseTransport(opts.transport)
		if err != nil {
			return config.WidgetConfig{}, err
		}
		widgetCfg.Transport = t
	}
	if flags.Changed("fetch-questions") {
		widgetCfg.FetchQuestion = opts.fetch
	}
	widgetCfg.ExtraBlocked = append(widgetCfg.ExtraBlocked, opts.blocked...)
	return widgetCfg, nil
}

func runChat(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	// TUI 占用终端，日志只能写文件
	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, appName)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(cfg.APIURL, client.WithTransport(cfg.Transport), client.WithLogger(logger))
	defer c.Close()

	w := widget.New(c, profanity.NewFilter(cfg.ExtraBlocked...), widget.WithLogger(logger))
	logger.Printf("[widget] session %s started api=%s transport=%s", w.SessionID(), cfg.APIURL, cfg.Transport)

	var questions widget.QuestionSource
	if cfg.FetchQuestion {
		questions = func(ctx context.Context) ([]string, error) {
			ctx, cancel := context.WithTimeout(ctx, opts.timeout)
			defer cancel()
			return c.Questions(ctx)
		}
	}

	return widget.Run(ctx, w, questions)
}

// runAsk 走与交互窗口相同的提交流程，只打印机器人的回复
func runAsk(cmd *cobra.Command, opts *options, question string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	c := client.New(cfg.APIURL, client.WithTransport(cfg.Transport), client.WithLogger(logger))
	defer c.Close()

	w := widget.New(c, profanity.NewFilter(cfg.ExtraBlocked...), widget.WithLogger(logger))

	before := len(w.Messages())
	w.Submit(ctx, question)
	if status := w.Status(); status != "" {
		return errors.New(status)
	}

	messages := w.Messages()
	if len(messages) == before {
		return errors.New("nothing to send")
	}
	last := messages[len(messages)-1]
	if !last.IsBot() {
		return errors.New("no answer received")
	}
	fmt.Fprintln(cmd.OutOrStdout(), last.Text)
	return nil
}

func runQuestions(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	c := client.New(cfg.APIURL, client.WithTransport(cfg.Transport))
	defer c.Close()

	questions, err := c.Questions(ctx)
	if err != nil {
		return err
	}
	for i, q := range questions {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, q)
	}
	return nil
}
