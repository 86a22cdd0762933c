package prompts

import (
	"bytes"
	"fmt"
	"text/template"
)

type UserPromptData struct {
	Question string
	// Document is the extracted attachment text; empty when the question has none.
	Document string
}

var userTemplate = template.Must(template.New("user").Parse(UserTemplate))

func BuildUserPrompt(data UserPromptData) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render user prompt: %w", err)
	}
	return buf.String(), nil
}

// GeneratePrompt renders an arbitrary prompt template.
func GeneratePrompt(name, baseTemplate string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
