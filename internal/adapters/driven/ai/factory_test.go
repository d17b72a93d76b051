package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEmbeddingService_DefaultsToOllama(t *testing.T) {
	svc, err := CreateEmbeddingService(Settings{})
	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()

	assert.Equal(t, "nomic-embed-text", svc.ModelName())
}

func TestCreateEmbeddingService_OpenAIRequiresKey(t *testing.T) {
	_, err := CreateEmbeddingService(Settings{Provider: ProviderOpenAI})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestCreateEmbeddingService_UnknownProvider(t *testing.T) {
	_, err := CreateEmbeddingService(Settings{Provider: "azure"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown embedding provider")
}

func TestCreateLLMService_DefaultsToOllama(t *testing.T) {
	svc, err := CreateLLMService(Settings{})
	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()

	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestCreateLLMService_CustomModel(t *testing.T) {
	svc, err := CreateLLMService(Settings{Provider: ProviderOllama, Model: "mistral"})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "mistral", svc.ModelName())
}

func TestCreateLLMService_AnthropicRequiresKey(t *testing.T) {
	_, err := CreateLLMService(Settings{Provider: ProviderAnthropic})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestCreateLLMService_UnknownProvider(t *testing.T) {
	_, err := CreateLLMService(Settings{Provider: "bedrock"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}
