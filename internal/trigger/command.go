package trigger

import "strings"

// Command is a directed keyword the bot answers without the generator.
type Command int

const (
	// CommandNone means the text should be used as a generation seed.
	CommandNone Command = iota
	CommandCorrection
	CommandJoke
	CommandRepo
	CommandWords
)

var keywords = map[string]Command{
	"jabber": CommandCorrection,
	"dad":    CommandJoke,
	"repo":   CommandRepo,
	"code":   CommandRepo,
	"words":  CommandWords,
}

// ResolveCommand matches the whole text, case-folded and trimmed, against the
// command keywords.
func ResolveCommand(text string) Command {
	if c, ok := keywords[strings.ToLower(strings.TrimSpace(text))]; ok {
		return c
	}
	return CommandNone
}
