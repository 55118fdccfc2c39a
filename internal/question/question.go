package question

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
)

// OptionCount is fixed: every quiz shows exactly four choices.
const OptionCount = 4

type Question struct {
	Text       string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("question %q has %d options, want %d", q.Text, len(q.Options), OptionCount)
	}
	if q.Answer == "" {
		return fmt.Errorf("question %q has no answer", q.Text)
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return fmt.Errorf("question %q answer %q is not among its options", q.Text, q.Answer)
}

// cacheKeyPayload pins the exact field set the cache key is derived from.
// Cosmetic render choices (hook, theme, music) never feed into it, so
// re-renders of the same question content hit the same cached video.
type cacheKeyPayload struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

func CacheKey(q Question) string {
	payload := cacheKeyPayload{
		Question:   q.Text,
		Options:    q.Options,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}

	raw, _ := json.Marshal(payload)
	sum := sha1.Sum(raw)
	return fmt.Sprintf("%x", sum)[:16]
}
