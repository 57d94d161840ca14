package openai

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Generate answers a question grounded in the given context passages using a
// plain (non-JSON) chat completion.
func (p *Provider) Generate(ctx context.Context, question string, contexts []string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(generateSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildGenerationPrompt(question, contexts)),
			},
		},
	}

	response, err := p.chat.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		p.logger.Error("generation call failed", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", errNoChoices
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// buildGenerationPrompt assembles the user message: retrieved context blocks
// separated by rulers, then the question.
func buildGenerationPrompt(question string, contexts []string) string {
	contextStr := "No relevant context found."
	if len(contexts) > 0 {
		contextStr = strings.Join(contexts, "\n\n---\n\n")
	}

	var b strings.Builder
	b.WriteString("Context from your memory:\n")
	b.WriteString(contextStr)
	b.WriteString("\n\n---\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nPlease answer based on the context above.")
	return b.String()
}
