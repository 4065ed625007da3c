// Package prompt holds the fixed system prompts attached to each command.
//
// The templates are embedded at build time and loaded once; there is no
// runtime mutation path.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCommand indicates a command with no registered system prompt.
var ErrUnknownCommand = errors.New("unknown command")

//go:embed templates/query.md
var queryPrompt string

//go:embed templates/plan.md
var planPrompt string

//go:embed templates/code.md
var codePrompt string

//go:embed templates/review.md
var reviewPrompt string

var systemPrompts = map[string]string{
	"query":  queryPrompt,
	"plan":   planPrompt,
	"code":   codePrompt,
	"review": reviewPrompt,
}

// System returns the system prompt text for the given command. It returns
// ErrUnknownCommand wrapped with the command name for commands outside the
// fixed set.
func System(command string) (string, error) {
	text, ok := systemPrompts[command]
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: %v)", ErrUnknownCommand, command, Commands())
	}
	return text, nil
}

// Commands returns the supported command names in sorted order.
func Commands() []string {
	out := make([]string, 0, len(systemPrompts))
	for name := range systemPrompts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
