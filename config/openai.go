package config

import "os"

const defaultChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

type OpenAIConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
}

// GetOpenAIConfig reads the text-generation settings. A missing API key is
// not an error: the explainer degrades to placeholder content so the rest of
// the pipeline stays usable offline.
func GetOpenAIConfig() *OpenAIConfig {
	apiUrl := os.Getenv("OPENAI_API_URL")
	if apiUrl == "" {
		apiUrl = defaultChatCompletionsURL
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIConfig{
		ApiUrl: apiUrl,
		ApiKey: os.Getenv("OPENAI_API_KEY"),
		Model:  model,
	}
}
