// Package titlegen punches up upload titles with an LLM. The pipeline works
// fine without it: no API key means the platform's template title is used
// unchanged.
package titlegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/groq-go"

	"quizreel/internal/question"
)

const systemPrompt = "You write punchy titles for short-form quiz videos. " +
	"Reply with the title only, no quotes, no explanations, at most 90 characters."

type Generator struct {
	client *groq.Client
	model  groq.ChatModel
}

func New(apiKey, model string) (*Generator, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}
	return &Generator{client: client, model: groq.ChatModel(model)}, nil
}

// Title generates an upload title for the question. fallback comes back on
// any API problem so a generation hiccup never blocks an upload.
func (g *Generator) Title(ctx context.Context, q question.Question, fallback string) string {
	prompt := fmt.Sprintf(
		"Category: %s\nDifficulty: %s\nQuestion: %s\n\nWrite a title that teases the question without revealing the answer. Include #shorts.",
		q.Category, q.Difficulty, q.Text)

	resp, err := g.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: g.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: prompt},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return fallback
	}

	title := CleanTitle(resp.Choices[0].Message.Content)
	if title == "" {
		return fallback
	}
	return title
}

// CleanTitle strips the quoting and chatter models wrap titles in.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'")

	if idx := strings.Index(title, "\n"); idx > 0 {
		title = title[:idx]
	}

	title = strings.TrimSpace(title)
	if len(title) > 100 {
		title = title[:100]
	}
	return title
}
