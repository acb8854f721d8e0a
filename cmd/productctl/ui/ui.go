package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptPassword asks for a password twice without echoing it.
func PromptPassword(minLen int) (string, error) {
	var pw, confirm string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&pw).
				Validate(func(s string) error {
					if len(s) < minLen {
						return fmt.Errorf("password must be at least %d characters", minLen)
					}
					return nil
				}),

			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errors.New("passwords do not match")
	}

	return pw, nil
}

// PrintTitle prints a section heading.
func PrintTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

// PrintField prints an aligned key/value line.
func PrintField(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s %s\n", subtleStyle.Render(key+":"+strings.Repeat(" ", max(0, 10-len(key)))), value)
}

// PrintSuccess prints a success line.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+msg))
}
