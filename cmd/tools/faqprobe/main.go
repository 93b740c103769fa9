package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/joho/godotenv"
	"github.com/zhouzirui/wave-chatbot/backend/internal/config"
	faqmodel "github.com/zhouzirui/wave-chatbot/backend/internal/model/faq"
	faqservice "github.com/zhouzirui/wave-chatbot/backend/internal/service/faq"
)

// faqprobe 在本地对语料打分，用于调整 FAQ_MATCH_THRESHOLD
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	query := flag.String("query", "", "待检索的问题")
	corpusPath := flag.String("corpus", cfg.FAQ.CorpusPath, "语料文件路径 (JSON 或 YAML)，留空使用内置语料")
	threshold := flag.Float64("threshold", cfg.FAQ.Threshold, "匹配阈值，分数不大于阈值视为命中")
	topK := flag.Int("top", 5, "最多显示的候选条数")
	all := flag.Bool("all", false, "忽略阈值，显示所有条目的分数")
	timeout := flag.Duration("timeout", 5*time.Second, "检索超时时间")

	flag.Parse()

	if strings.TrimSpace(*query) == "" {
		*query = strings.Join(flag.Args(), " ")
	}
	if strings.TrimSpace(*query) == "" {
		flag.Usage()
		log.Fatal("请通过 -query 或位置参数提供问题")
	}

	entries, err := loadEntries(*corpusPath)
	if err != nil {
		log.Fatalf("语料加载失败: %v", err)
	}
	store := faqmodel.NewMemoryStore(entries)

	r, err := faqservice.NewRetriever(store, *threshold)
	if err != nil {
		log.Fatalf("检索器初始化失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := []retriever.Option{retriever.WithTopK(*topK)}
	if *all {
		opts = append(opts, retriever.WithScoreThreshold(1))
	}

	log.Printf("开始检索: query=%q entries=%d threshold=%.2f", *query, store.Len(), *threshold)

	docs, err := r.Retrieve(ctx, *query, opts...)
	if err != nil {
		log.Fatalf("检索失败: %v", err)
	}

	if len(docs) == 0 {
		log.Printf("没有命中条目，将返回兜底回复: %s", faqservice.FallbackAnswer)
		return
	}
	printDocs(docs, *threshold)
}

func loadEntries(path string) ([]faqmodel.Entry, error) {
	if path == "" {
		return faqmodel.Default()
	}
	return faqmodel.LoadFile(path)
}

func printDocs(docs []*schema.Document, threshold float64) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tMATCH\tFIELD\tQUESTION")
	for i, doc := range docs {
		match := "yes"
		if doc.Score() > threshold {
			match = "no"
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%s\t%v\t%v\n", i+1, doc.Score(), match, doc.MetaData[faqservice.MetaField], doc.MetaData[faqservice.MetaQuestion])
	}
	_ = tw.Flush()
}
