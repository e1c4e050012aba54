package translate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ChatClient is the part of the OpenAI client used here.
type ChatClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI translates with a chat completion model.
type OpenAI struct {
	client ChatClient
	model  string
}

func NewOpenAI(httpClient *http.Client, token, model string) *OpenAI {
	config := openai.DefaultConfig(token)
	config.HTTPClient = httpClient

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Translate(ctx context.Context, text, target string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("Translate the user's text into %s. Reply with the translation only, without quotes or notes.",
					languageName(target)),
			},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoTranslation
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func languageName(target string) string {
	tag, err := language.Parse(target)
	if err != nil {
		return target
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return target
}
