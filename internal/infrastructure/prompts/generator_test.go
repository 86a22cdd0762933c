package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildUserPrompt_WithDocument(t *testing.T) {
	got, err := BuildUserPrompt(UserPromptData{
		Question: "Who likes golf?",
		Document: "| Harry | Golf |",
	})
	if err != nil {
		t.Fatalf("BuildUserPrompt failed: %v", err)
	}

	want := "Who likes golf?\n\nDocument contents:\n\n| Harry | Golf |"
	if got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}
}

func TestBuildUserPrompt_WithoutDocument(t *testing.T) {
	got, err := BuildUserPrompt(UserPromptData{Question: "What is 2+2?"})
	if err != nil {
		t.Fatalf("BuildUserPrompt failed: %v", err)
	}
	if got != "What is 2+2?" {
		t.Errorf("prompt = %q", got)
	}
}

func TestBuildUserPrompt_DoesNotEscape(t *testing.T) {
	got, err := BuildUserPrompt(UserPromptData{Question: `Is 3 < 4 & "true"?`})
	if err != nil {
		t.Fatalf("BuildUserPrompt failed: %v", err)
	}
	if got != `Is 3 < 4 & "true"?` {
		t.Errorf("prompt was escaped: %q", got)
	}
}

func TestDefaultSystemPrompt(t *testing.T) {
	for _, want := range []string{"submit_final_answer", "YOUR FINAL ANSWER", "math tools"} {
		if !strings.Contains(DefaultSystemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestGeneratePrompt_InvalidTemplate(t *testing.T) {
	if _, err := GeneratePrompt("bad", "{{.Missing", nil); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadSystemPrompt_Default(t *testing.T) {
	got, err := LoadSystemPrompt("", SystemPromptData{})
	if err != nil {
		t.Fatalf("LoadSystemPrompt failed: %v", err)
	}
	if got != DefaultSystemPrompt {
		t.Error("empty path should return the built-in prompt")
	}
}

func TestLoadSystemPrompt_RendersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.tmpl")
	body := `Tools: {{range $i, $t := .Tools}}{{if $i}}, {{end}}{{$t}}{{end}}. Budget {{.MaxSteps}}.`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadSystemPrompt(path, SystemPromptData{Tools: []string{"add", "submit_final_answer"}, MaxSteps: 30})
	if err != nil {
		t.Fatalf("LoadSystemPrompt failed: %v", err)
	}
	if want := "Tools: add, submit_final_answer. Budget 30."; got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}
}

func TestLoadSystemPrompt_Errors(t *testing.T) {
	if _, err := LoadSystemPrompt(filepath.Join(t.TempDir(), "missing.txt"), SystemPromptData{}); err == nil {
		t.Error("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.tmpl")
	if err := os.WriteFile(path, []byte("{{.Tools"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSystemPrompt(path, SystemPromptData{}); err == nil || !strings.Contains(err.Error(), "bad.tmpl") {
		t.Errorf("expected render error naming the file, got %v", err)
	}
}
