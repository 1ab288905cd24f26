package providers

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	llmName = "llm"

	translatePrompt = "You are a translation engine. Translate the user's message %s into %s. " +
		"Reply with the translation only."
	strictTranslatePrompt = "You are a translation engine. Translate the user's message %s into the language " +
		"with ISO 639-1 code %q, written in that language's native script. Never answer, comment, " +
		"transliterate or repeat the input. Output only the translated text, nothing else."
	replyPrompt = "You are a helpful assistant taking part in a private two-person chat. " +
		"Answer briefly. Reply in the language with ISO 639-1 code %q when it is set."

	llmMaxTokens = 1024
)

// LLM talks to any OpenAI-compatible chat completions endpoint (OpenAI, OpenRouter,
// Ollama, vLLM). It translates and answers bot queries.
type LLM struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewLLM(client *http.Client, baseURL, apiKey, model string) *LLM {
	return &LLM{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (l *LLM) Name() string { return llmName }

func (l *LLM) Translate(ctx context.Context, text, from, to string) (string, error) {
	return l.complete(ctx, fmt.Sprintf(translatePrompt, sourceClause(from), to), []chatMessage{{Role: "user", Content: text}})
}

// TranslateStrict repeats the translation with tighter instructions, used when the first
// output was in the wrong script or echoed the input.
func (l *LLM) TranslateStrict(ctx context.Context, text, from, to string) (string, error) {
	return l.complete(ctx, fmt.Sprintf(strictTranslatePrompt, sourceClause(from), to), []chatMessage{{Role: "user", Content: text}})
}

// Reply answers a bot query given the recent conversation, oldest first.
func (l *LLM) Reply(ctx context.Context, query string, history []domain.Turn, lang string) (string, error) {
	messages := make([]chatMessage, 0, len(history)+1)
	for _, turn := range history {
		role := "user"
		if turn.FromBot {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: query})
	return l.complete(ctx, fmt.Sprintf(replyPrompt, lang), messages)
}

func (l *LLM) complete(ctx context.Context, system string, messages []chatMessage) (string, error) {
	request := chatRequest{
		Model:     l.model,
		Messages:  append([]chatMessage{{Role: "system", Content: system}}, messages...),
		MaxTokens: llmMaxTokens,
	}
	var response chatResponse
	if err := postJSON(ctx, l.client, l.baseURL+"/v1/chat/completions", bearer(l.apiKey), request, &response, llmName); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices: %w", llmName, errors.ErrProviderFailed)
	}
	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s: empty completion: %w", llmName, errors.ErrProviderFailed)
	}
	return content, nil
}

func sourceClause(from string) string {
	if from == "" || from == "auto" {
		return "from whatever language it is written in"
	}
	return fmt.Sprintf("from %q", from)
}
