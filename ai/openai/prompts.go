package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/exocortex/ai"
)

const enrichResponseSchema = `{
    "intents": ["decision", "commitment", ...],
    "confidence": 0.92,
    "entities": [{"name": "...", "type": "person|company|project|date|amount", "confidence": 0.95, "normalized": "..."}],
    "commitments": [{"from_party": "...", "to_party": "...", "description": "...", "due_date": "YYYY-MM-DD or null", "status": "open"}],
    "summary": "One paragraph summary",
    "topics": ["topic1", "topic2"]
}`

const enrichPromptTemplate = `You are an expert at analyzing conversations and documents to extract structured information.

Your task is to analyze the provided text and extract:
1. **Intents**: Classify each segment (decision, commitment, question, idea, task, unclassified)
2. **Entities**: Named entities, typically one of: %s
3. **Commitments**: Promises made (who promised what to whom, and when)
4. **Summary**: A concise one-paragraph summary, at most 500 characters
5. **Topics**: 1-5 topic tags

Be precise and only extract information that is clearly stated or strongly implied.

Return your response as valid JSON with this exact structure:
%s

The JSON must parse without errors; no trailing commas, no extra keys, and no text outside the object.`

const generateSystemPrompt = `You are a personal memory assistant with access to the user's past conversations, notes, and documents.

Your role is to:
1. Answer questions based on the provided context
2. Cite specific sources when possible
3. Highlight any commitments or action items
4. Be concise but complete

If the context doesn't contain enough information to answer, say so clearly.`

// enrichSystemPrompt builds the enrichment instruction with the suggested
// entity categories embedded.
func enrichSystemPrompt() string {
	return fmt.Sprintf(enrichPromptTemplate,
		strings.Join(ai.EntityTypes, ", "),
		enrichResponseSchema)
}
