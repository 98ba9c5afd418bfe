package cli

import (
	"fmt"
	"strings"

	"github.com/mrz1836/forge/internal/clarify"
	"github.com/mrz1836/forge/internal/tui"
)

// useDefaultsReply is the answer sent when the user picks the defaults.
const useDefaultsReply = "use defaults"

// otherAnswer is the menu value that switches a question to free text.
const otherAnswer = "\x00other"

// bundleMarkdown renders a question bundle for the terminal.
func bundleMarkdown(b *clarify.Bundle) string {
	if b == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Before I start\n\n")
	for i, q := range b.Questions {
		options := make([]string, len(q.Options))
		for j, opt := range q.Options {
			options[j] = "`" + opt + "`"
		}
		fmt.Fprintf(&sb, "%d. %s %s (default **%s**)\n", i+1, q.Prompt, strings.Join(options, ", "), q.Default)
	}
	sb.WriteString("\nAnswer with `--answer \"...\"` or accept every default with `--defaults`.\n")
	return sb.String()
}

// askBundle asks every question of the bundle with a selection menu and joins
// the picks into one reply. Choosing the defaults up front skips the rest. A
// question without options, or an "other" pick, is answered as free text.
func askBundle(p Prompter, b *clarify.Bundle) (string, error) {
	choice, err := p.Select("How do you want to continue?", []tui.Option{
		{Label: "Answer the questions", Value: "answer"},
		{Label: "Use the suggested defaults", Value: useDefaultsReply},
	})
	if err != nil {
		return "", err
	}
	if choice == useDefaultsReply {
		return useDefaultsReply, nil
	}

	picks := make([]string, 0, len(b.Questions))
	for _, q := range b.Questions {
		pick, err := askQuestion(p, q)
		if err != nil {
			return "", err
		}
		picks = append(picks, pick)
	}
	return strings.Join(picks, ", "), nil
}

func askQuestion(p Prompter, q clarify.Question) (string, error) {
	if len(q.Options) > 0 {
		options := make([]tui.Option, 0, len(q.Options)+1)
		for _, opt := range q.Options {
			label := tui.Title(opt)
			if opt == q.Default {
				label += " (default)"
			}
			options = append(options, tui.Option{Label: label, Value: opt})
		}
		options = append(options, tui.Option{Label: "Something else", Description: "type it", Value: otherAnswer})

		pick, err := p.Select(q.Prompt, options)
		if err != nil || pick != otherAnswer {
			return pick, err
		}
	}

	text, err := p.Input(q.Prompt, q.Default)
	if err != nil {
		return "", err
	}
	if text = strings.TrimSpace(text); text == "" {
		return q.Default, nil
	}
	return text, nil
}
