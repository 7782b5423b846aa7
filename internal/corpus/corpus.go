// Package corpus is the bot's static reference data: the joke list, the
// protocol-identity correction and the repository link.
package corpus

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keshon/ash/internal/random"
)

// Correction is the canned reply to anyone calling the protocol "Jabber".
const Correction = "I'd just like to interject for a moment. What you're referring to as Jabber, is in fact, XMPP, " +
	"or as I've recently taken to calling it, XMPP not Jabber. Jabber is not an internet protocol unto itself, " +
	"but rather another proprietary product owned by Cisco. XMPP instead is a fully functioning free protocol " +
	"made useful by standardization and extensibility."

// RepoURL is where the bot's source lives.
const RepoURL = "https://github.com/keshon/ash"

// WordsReply formats the vocabulary size answer.
func WordsReply(n int) string {
	return fmt.Sprintf("I know %d words!", n)
}

//go:embed jokes.yaml
var builtinJokes []byte

var ErrEmpty = errors.New("joke corpus is empty")

type Corpus struct {
	Jokes []string `yaml:"jokes"`
}

// Default returns the built-in corpus.
func Default() (*Corpus, error) {
	return Parse(builtinJokes)
}

// Load reads a corpus file, or the built-in one when path is empty.
func Load(path string) (*Corpus, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jokes file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML document with a top-level "jokes" list. Blank entries are dropped.
func Parse(data []byte) (*Corpus, error) {
	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid jokes yaml: %w", err)
	}
	jokes := c.Jokes[:0]
	for _, j := range c.Jokes {
		if j = strings.TrimSpace(j); j != "" {
			jokes = append(jokes, j)
		}
	}
	if len(jokes) == 0 {
		return nil, ErrEmpty
	}
	c.Jokes = jokes
	return &c, nil
}

// Joke picks one joke uniformly.
func (c *Corpus) Joke(src random.Source) (string, bool) {
	return random.Choose(src, c.Jokes)
}
