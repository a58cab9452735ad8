package ui

import (
	"fmt"
	"strings"
)

// PromptInput prompts the user for input with a default value
func PromptInput(prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf(ColorSection("%s [default: %s]: "), prompt, ColorHighlight(defaultValue))
	} else {
		fmt.Printf(ColorSection("%s: "), prompt)
	}

	var input string
	fmt.Scanln(&input)

	if input == "" && defaultValue != "" {
		return defaultValue
	}
	return input
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(prompt string) bool {
	response := strings.ToLower(PromptInput(prompt+" (y/n)", "n"))
	return response == "y" || response == "yes"
}
