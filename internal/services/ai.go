package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// MaxSuggestedTasks caps the number of titles returned by SuggestTasks.
const MaxSuggestedTasks = 20

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrSuggestionTextRequired = errors.New("text is required")
	ErrAINoTasksGenerated     = errors.New("AI did not suggest any tasks")
)

// TaskSuggester turns free text into candidate task titles.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, text string) ([]string, error)
}

type AIService struct {
	client *openai.Client
	model  string
}

// NewAIService returns an OpenAI-backed suggester.
func NewAIService(apiKey, model string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewAIServiceWithConfig allows pointing the client at another endpoint.
func NewAIServiceWithConfig(cfg openai.ClientConfig, model string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// SuggestTasks asks the model to split text into short, actionable task
// titles. Nothing is persisted.
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrSuggestionTextRequired
	}

	prompt := fmt.Sprintf(`You extract personal to-do items from text.

Text:
%s

Return a JSON array of strings, each one a short task title (at most 80 characters).
Return [] when the text contains no tasks. Return only the JSON array.`, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseSuggestions(resp.Choices[0].Message.Content)
}

// parseSuggestions decodes the model output, tolerating a fenced code block,
// and returns trimmed, de-duplicated titles.
func parseSuggestions(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	titles := make([]string, 0, len(raw))
	for _, title := range raw {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		titles = append(titles, title)
		if len(titles) == MaxSuggestedTasks {
			break
		}
	}

	if len(titles) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return titles, nil
}
