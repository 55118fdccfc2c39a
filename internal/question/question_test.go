package question

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sampleQuestion() Question {
	return Question{
		Text:       "Capital of France?",
		Options:    []string{"Paris", "Lyon", "Nice", "Tours"},
		Answer:     "Paris",
		Category:   "general",
		Difficulty: "easy",
	}
}

func TestCacheKeyStable(t *testing.T) {
	a := CacheKey(sampleQuestion())
	b := CacheKey(sampleQuestion())

	if a != b {
		t.Errorf("identical questions produced different keys: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("key length = %d, want 16", len(a))
	}
}

func TestCacheKeySensitivity(t *testing.T) {
	base := sampleQuestion()

	tests := []struct {
		name   string
		mutate func(q *Question)
	}{
		{name: "answer", mutate: func(q *Question) { q.Answer = "Lyon" }},
		{name: "questionText", mutate: func(q *Question) { q.Text = "Capital of Spain?" }},
		{name: "optionOrder", mutate: func(q *Question) { q.Options = []string{"Lyon", "Paris", "Nice", "Tours"} }},
		{name: "category", mutate: func(q *Question) { q.Category = "geography" }},
		{name: "difficulty", mutate: func(q *Question) { q.Difficulty = "hard" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sampleQuestion()
			tt.mutate(&q)
			if CacheKey(q) == CacheKey(base) {
				t.Errorf("changing %s did not change the cache key", tt.name)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *Question)
		wantErr bool
	}{
		{name: "valid", mutate: func(q *Question) {}, wantErr: false},
		{name: "emptyText", mutate: func(q *Question) { q.Text = "" }, wantErr: true},
		{name: "threeOptions", mutate: func(q *Question) { q.Options = q.Options[:3] }, wantErr: true},
		{name: "noAnswer", mutate: func(q *Question) { q.Answer = "" }, wantErr: true},
		{name: "answerNotAnOption", mutate: func(q *Question) { q.Answer = "Berlin" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sampleQuestion()
			tt.mutate(&q)
			if err := q.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func writeBank(t *testing.T, dir string, bank []Question) (string, string) {
	t.Helper()
	dataPath := filepath.Join(dir, "questions.json")
	data, err := json.Marshal(bank)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dataPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	return dataPath, filepath.Join(dir, ".used.json")
}

func TestPickerAvoidsRepeats(t *testing.T) {
	bank := []Question{sampleQuestion()}
	second := sampleQuestion()
	second.Text = "Capital of Italy?"
	second.Answer = "Rome"
	second.Options = []string{"Rome", "Milan", "Turin", "Naples"}
	bank = append(bank, second)

	dataPath, usedPath := writeBank(t, t.TempDir(), bank)
	picker := NewPicker(dataPath, usedPath)

	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		q, err := picker.Pick()
		if err != nil {
			t.Fatalf("Pick() error = %v", err)
		}
		if seen[q.Text] {
			t.Fatalf("question %q picked twice before bank exhausted", q.Text)
		}
		seen[q.Text] = true
	}
}

func TestPickerResetsWhenExhausted(t *testing.T) {
	dataPath, usedPath := writeBank(t, t.TempDir(), []Question{sampleQuestion()})
	picker := NewPicker(dataPath, usedPath)

	for i := 0; i < 3; i++ {
		q, err := picker.Pick()
		if err != nil {
			t.Fatalf("Pick() #%d error = %v", i, err)
		}
		if q.Text != "Capital of France?" {
			t.Errorf("Pick() #%d = %q", i, q.Text)
		}
	}
}

func TestPickerEmptyBank(t *testing.T) {
	dataPath, usedPath := writeBank(t, t.TempDir(), []Question{})
	picker := NewPicker(dataPath, usedPath)

	if _, err := picker.Pick(); err == nil {
		t.Error("Pick() on empty bank should fail")
	}
}
