package di

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaia-agent/internal/infrastructure/llm/anthropic"
	"gaia-agent/internal/infrastructure/prompts"
)

type mapConfig map[string]string

func (m mapConfig) Get(key string) string { return m[key] }

func (m mapConfig) MustGet(key string) string {
	v, ok := m[key]
	if !ok {
		panic("missing " + key)
	}
	return v
}

func (m mapConfig) GetWithDefault(key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return def
}

func (m mapConfig) GetBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(m[key]); err == nil {
		return v
	}
	return def
}

func (m mapConfig) GetInt(key string, def int) int {
	if v, err := strconv.Atoi(m[key]); err == nil {
		return v
	}
	return def
}

func (m mapConfig) GetDuration(key string, def time.Duration) time.Duration {
	if ms, err := strconv.Atoi(m[key]); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := ConfigFromEnv(mapConfig{
		"TAVILY_API_KEY":        "tv",
		"OPENROUTER_API_KEY":    "or",
		"OPENROUTER_MODEL_NAME": "anthropic/claude-sonnet-4",
	})

	assert.Equal(t, ProviderOpenRouter, cfg.Provider)
	assert.Equal(t, "validation", cfg.Split)
	assert.Equal(t, 1, cfg.Level)
	assert.Equal(t, 30, cfg.MaxSteps)
	assert.Equal(t, 5*time.Second, cfg.TurnDelay)
	assert.Equal(t, "medium", cfg.ReasoningEffort)
	assert.Equal(t, "answers.json", cfg.AnswersFile)
}

func TestConfigFromEnv_Anthropic(t *testing.T) {
	cfg := ConfigFromEnv(mapConfig{
		"MODEL_PROVIDER":     "anthropic",
		"TAVILY_API_KEY":     "tv",
		"ANTHROPIC_API_KEY":  "ak",
		"TURN_DELAY_MS":      "0",
		"GAIA_LEVEL":         "2",
		"SYSTEM_PROMPT_FILE": "prompts/system.tmpl",
	})

	assert.Equal(t, "ak", cfg.AnthropicAPIKey)
	assert.Equal(t, anthropic.DefaultModel, cfg.AnthropicModel)
	assert.Empty(t, cfg.OpenRouterAPIKey)
	assert.Zero(t, cfg.TurnDelay)
	assert.Equal(t, 2, cfg.Level)
	assert.Equal(t, "prompts/system.tmpl", cfg.SystemPromptFile)
}

func TestNewContainer_Wires(t *testing.T) {
	dir := t.TempDir()
	c, err := NewContainer(Config{
		Provider:         ProviderOpenRouter,
		OpenRouterAPIKey: "or",
		OpenRouterModel:  "m",
		TavilyAPIKey:     "tv",
		DataDir:          filepath.Join(dir, "data"),
		AnswersFile:      filepath.Join(dir, "answers.json"),
		LogDir:           filepath.Join(dir, "log"),
		LogLevel:         "error",
	})
	require.NoError(t, err)
	defer c.Close()

	var names []string
	for _, tl := range c.Tools.All() {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{"add", "subtract", "multiply", "divide", "tavily_search", "submit_final_answer"}, names)
	assert.Equal(t, filepath.Join(dir, "answers.json"), c.Answers.Path())
	assert.NotNil(t, c.Runner)
	assert.Equal(t, prompts.DefaultSystemPrompt, c.SystemPrompt)
}

func TestNewContainer_SystemPromptFile(t *testing.T) {
	dir := t.TempDir()
	promptFile := filepath.Join(dir, "system.tmpl")
	require.NoError(t, os.WriteFile(promptFile, []byte("Use {{len .Tools}} tools within {{.MaxSteps}} steps."), 0o644))

	c, err := NewContainer(Config{
		Provider:         ProviderAnthropic,
		AnthropicAPIKey:  "ak",
		TavilyAPIKey:     "tv",
		DataDir:          filepath.Join(dir, "data"),
		AnswersFile:      filepath.Join(dir, "answers.json"),
		LogDir:           filepath.Join(dir, "log"),
		LogLevel:         "error",
		SystemPromptFile: promptFile,
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "Use 6 tools within 30 steps.", c.SystemPrompt)
}

func TestNewContainer_BadSystemPromptFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewContainer(Config{
		Provider:         ProviderOpenRouter,
		OpenRouterAPIKey: "or",
		OpenRouterModel:  "m",
		TavilyAPIKey:     "tv",
		LogDir:           filepath.Join(dir, "log"),
		SystemPromptFile: filepath.Join(dir, "missing.tmpl"),
	})
	assert.ErrorContains(t, err, "read system prompt")
}

func TestNewContainer_UnknownProvider(t *testing.T) {
	_, err := NewContainer(Config{Provider: "mystery", LogDir: t.TempDir()})
	assert.ErrorContains(t, err, "unknown model provider")
}
