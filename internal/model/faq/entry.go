package faq

// Entry is a single question/answer pair of the static corpus.
type Entry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}
