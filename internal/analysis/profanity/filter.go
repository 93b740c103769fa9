package profanity

import (
	"strings"
	"unicode"

	goaway "github.com/TwiN/go-away"
)

// Detector 判断一段文本是否包含不当用语。
type Detector interface {
	IsOffensive(text string) bool
}

// Filter 基于 go-away 词库的 Detector 实现，并支持追加自定义屏蔽词。
type Filter struct {
	detector *goaway.ProfanityDetector
	extra    map[string]struct{}
}

// NewFilter 创建过滤器。extra 中的词按整词匹配，不区分大小写。
func NewFilter(extra ...string) *Filter {
	words := make(map[string]struct{}, len(extra))
	for _, word := range extra {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		words[word] = struct{}{}
	}

	return &Filter{
		detector: goaway.NewProfanityDetector().WithSanitizeLeetSpeak(true).WithSanitizeSpecialCharacters(true),
		extra:    words,
	}
}

// IsOffensive 实现 Detector。
func (f *Filter) IsOffensive(text string) bool {
	normalized := strings.TrimSpace(text)
	if normalized == "" {
		return false
	}

	if f.detector.IsProfane(normalized) {
		return true
	}

	if len(f.extra) == 0 {
		return false
	}
	for _, token := range tokenize(normalized) {
		if _, blocked := f.extra[token]; blocked {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
