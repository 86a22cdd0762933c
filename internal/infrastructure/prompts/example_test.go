package prompts_test

import (
	"fmt"

	"gaia-agent/internal/infrastructure/prompts"
)

func ExampleBuildUserPrompt() {
	prompt, _ := prompts.BuildUserPrompt(prompts.UserPromptData{
		Question: "How many rows mention burgers?",
		Document: "=== Sheet: Sales ===\nRow 1: Burgers | 12",
	})
	fmt.Println(prompt)
	// Output:
	// How many rows mention burgers?
	//
	// Document contents:
	//
	// === Sheet: Sales ===
	// Row 1: Burgers | 12
}
