package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"loan-advisor/domain"
)

// TextCompletion is the capability the router depends on for freeform
// replies and paraphrasing. It is strictly optional: a disabled
// implementation keeps every reply deterministic.
type TextCompletion interface {
	Enabled() bool
	Complete(ctx context.Context, system, prompt string) (string, error)
	CompleteConversation(ctx context.Context, system string, turns []domain.Turn) (string, error)
}

// AIService talks to an OpenAI-compatible chat completion API. Calls are
// time-bounded and retried once; callers substitute a canned reply on
// failure.
type AIService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	enabled bool
}

// NewAIService builds the client. An empty API key disables the service.
func NewAIService(apiKey, model string, timeout time.Duration) *AIService {
	s := &AIService{
		model:   model,
		timeout: timeout,
		enabled: apiKey != "",
	}
	if s.enabled {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

func (s *AIService) Enabled() bool {
	return s.enabled
}

// Complete runs a single-turn completion.
func (s *AIService) Complete(ctx context.Context, system, prompt string) (string, error) {
	return s.CompleteConversation(ctx, system, []domain.Turn{{Role: domain.RoleUser, Text: prompt}})
}

// CompleteConversation sends the system prompt plus the conversation
// turns and returns the model's reply.
func (s *AIService) CompleteConversation(ctx context.Context, system string, turns []domain.Turn) (string, error) {
	if !s.enabled {
		return "", domain.NewExternalError("language model is not configured")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, turn := range turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		reply, err := s.call(ctx, messages)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("language model call failed")
	}
	return "", domain.NewExternalError("language model unavailable: %v", lastErr)
}

func (s *AIService) call(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: 0.4,
		MaxTokens:   512,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewExternalError("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
