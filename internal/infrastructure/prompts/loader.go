package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed system.txt
var DefaultSystemPrompt string

//go:embed user.tmpl
var UserTemplate string

// SystemPromptData is what a system prompt file may reference.
type SystemPromptData struct {
	Tools    []string
	MaxSteps int
}

// LoadSystemPrompt renders the template at path, or returns the built-in
// prompt when path is empty.
func LoadSystemPrompt(path string, data SystemPromptData) (string, error) {
	if path == "" {
		return DefaultSystemPrompt, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	prompt, err := GeneratePrompt(filepath.Base(path), string(raw), data)
	if err != nil {
		return "", fmt.Errorf("render system prompt %s: %w", path, err)
	}
	return prompt, nil
}
