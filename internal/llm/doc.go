// Package llm provides the language model collaborator used for field
// extraction. It supports Gemini, OpenAI and Anthropic completions, request
// rate limiting, the extraction prompt template, and parsing of the
// "Field: Value" text the model returns.
package llm
