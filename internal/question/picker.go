package question

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
)

// Picker selects unused questions from a static bank. Used question texts are
// persisted to a sidecar file; when every question has been used the set
// resets and the rotation starts over.
type Picker struct {
	dataPath string
	usedPath string
}

func NewPicker(dataPath, usedPath string) *Picker {
	return &Picker{dataPath: dataPath, usedPath: usedPath}
}

func (p *Picker) Pick() (Question, error) {
	bank, err := p.loadBank()
	if err != nil {
		return Question{}, err
	}
	if len(bank) == 0 {
		return Question{}, fmt.Errorf("question bank %s is empty", p.dataPath)
	}

	used := p.loadUsed()

	candidates := make([]Question, 0, len(bank))
	for _, q := range bank {
		if !used[q.Text] {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		// Bank exhausted: reset the cycle.
		used = make(map[string]bool)
		candidates = bank
	}

	q := candidates[rand.Intn(len(candidates))]
	used[q.Text] = true
	if err := p.saveUsed(used); err != nil {
		return Question{}, fmt.Errorf("save used set: %w", err)
	}

	return q, nil
}

func (p *Picker) loadBank() ([]Question, error) {
	data, err := os.ReadFile(p.dataPath)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var bank []Question
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	for _, q := range bank {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("invalid question bank entry: %w", err)
		}
	}

	return bank, nil
}

func (p *Picker) loadUsed() map[string]bool {
	data, err := os.ReadFile(p.usedPath)
	if err != nil {
		return make(map[string]bool)
	}

	var texts []string
	if err := json.Unmarshal(data, &texts); err != nil {
		return make(map[string]bool)
	}

	used := make(map[string]bool, len(texts))
	for _, t := range texts {
		used[t] = true
	}
	return used
}

func (p *Picker) saveUsed(used map[string]bool) error {
	texts := make([]string, 0, len(used))
	for t := range used {
		texts = append(texts, t)
	}
	sort.Strings(texts)

	data, err := json.Marshal(texts)
	if err != nil {
		return err
	}
	return os.WriteFile(p.usedPath, data, 0644)
}
