package faq

// Store exposes the read-only corpus to services and HTTP handlers.
type Store interface {
	List() []Entry
	Questions() []string
	Len() int
}

// MemoryStore implements Store with an in-memory slice loaded once at startup.
type MemoryStore struct {
	items []Entry
}

// NewMemoryStore returns a MemoryStore holding a private copy of the supplied entries.
func NewMemoryStore(items []Entry) *MemoryStore {
	return &MemoryStore{items: append([]Entry(nil), items...)}
}

// List returns the corpus in dataset order.
func (s *MemoryStore) List() []Entry {
	return append([]Entry(nil), s.items...)
}

// Questions returns the stored questions in dataset order.
func (s *MemoryStore) Questions() []string {
	questions := make([]string, 0, len(s.items))
	for _, item := range s.items {
		questions = append(questions, item.Question)
	}
	return questions
}

// Len reports how many entries the corpus holds.
func (s *MemoryStore) Len() int {
	return len(s.items)
}
