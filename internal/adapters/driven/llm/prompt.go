// Package llm holds prompt construction shared by the LLM provider
// adapters.
package llm

import "fmt"

// DefaultSystemPrompt is the instruction used when the caller does not
// supply one.
const DefaultSystemPrompt = `You are a medical information assistant. Answer questions accurately ` +
	`using the reference material provided. If the reference material does not cover the ` +
	`question, say so and answer from general medical knowledge. Do not provide diagnoses; ` +
	`recommend consulting a healthcare professional for personal medical decisions.`

// BuildUserPrompt assembles the user-facing prompt from a query and an
// optional retrieved context block. An empty contextBlock produces the
// bare query, letting the model answer from its own knowledge.
func BuildUserPrompt(query, contextBlock string) string {
	if contextBlock == "" {
		return query
	}
	return fmt.Sprintf(
		"Use the following reference information to answer the question.\n\n"+
			"Reference information:\n%s\n\nQuestion: %s",
		contextBlock, query,
	)
}

// SystemPrompt returns the override if set, the default otherwise.
func SystemPrompt(override string) string {
	if override != "" {
		return override
	}
	return DefaultSystemPrompt
}
