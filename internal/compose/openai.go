package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/getsitespark/sitespark/internal/microsite"
)

// LLMClient is the seam between the composer and the external text service.
type LLMClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// openAIClient implements LLMClient using the official openai-go SDK
// (chat completions).
type openAIClient struct {
	model string
	opts  []option.RequestOption
}

func newOpenAIClient(apiKey, model, baseURL string) *openAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openAIClient{model: model, opts: opts}
}

func (o *openAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

const systemPrompt = `You write concise B2B marketing copy. Respond with a single JSON object and nothing else. Shape:
{
  "headline": string,
  "subheadline": string,
  "value_props": [{"title": string, "description": string, "icon": string}],
  "solutions": [{"name": string, "description": string, "benefits": [string], "roi": string}],
  "pitch": [string],
  "call_to_action": string
}
Use 3 value_props, 1-3 solutions chosen from the provided catalog, and 2-3 pitch paragraphs.`

// userPrompt embeds the extracted profile and the fixed solution catalog.
func userPrompt(profile microsite.CompanyProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target company: %s\n", profile.Name)
	fmt.Fprintf(&b, "Industry: %s\n", profile.Industry)
	fmt.Fprintf(&b, "Company size: %s\n", profile.CompanySize)
	fmt.Fprintf(&b, "What they do: %s\n", profile.Description)
	if len(profile.TechStack) > 0 {
		fmt.Fprintf(&b, "Detected technology: %s\n", strings.Join(profile.TechStack, ", "))
	}
	fmt.Fprintf(&b, "Observed pain points:\n")
	for _, p := range profile.PainPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	fmt.Fprintf(&b, "\nSolution catalog (choose only from these):\n")
	for _, s := range catalogNames() {
		fmt.Fprintf(&b, "- %s: %s (ROI: %s)\n", s.Name, s.Description, s.ROI)
	}
	b.WriteString("\nWrite personalized marketing copy pitching the relevant solutions to this company.")
	return b.String()
}
