// Package prompt abstracts blocking operator choice prompts behind a
// capability interface so interactive control flow can be replayed
// deterministically in tests.
package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Option is one selectable answer to a prompt.
type Option struct {
	Key   string
	Label string
}

// Prompter reads a single choice from the operator. Implementations return
// def when the operator answers with an empty line.
type Prompter interface {
	Choose(question string, options []Option, def string) (string, error)
}

// Readline prompts on the controlling terminal via chzyer/readline.
type Readline struct{}

// Choose renders the question with its options and reads one line. An
// answer that matches no option key is re-prompted; Ctrl-C and EOF surface
// as errors to the caller.
func (Readline) Choose(question string, options []Option, def string) (string, error) {
	labels := make([]string, 0, len(options))
	valid := make(map[string]bool, len(options))
	for _, o := range options {
		label := fmt.Sprintf("%s: %s", o.Key, o.Label)
		if o.Key == def {
			label += " (default)"
		}
		labels = append(labels, label)
		valid[o.Key] = true
	}

	rl, err := readline.New(fmt.Sprintf("%s (%s) ", question, strings.Join(labels, ", ")))
	if err != nil {
		return "", fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return "", fmt.Errorf("prompt closed: %w", err)
			}
			return "", fmt.Errorf("read choice: %w", err)
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			return def, nil
		}
		if valid[answer] {
			return answer, nil
		}
		fmt.Printf("unknown choice %q\n", answer)
	}
}

// Scripted replays a fixed sequence of answers. Once the sequence is
// exhausted every further prompt gets the default. The zero value answers
// everything with the default.
type Scripted struct {
	Answers   []string
	Questions []string // every question asked, in order
	next      int
}

func (s *Scripted) Choose(question string, options []Option, def string) (string, error) {
	s.Questions = append(s.Questions, question)
	if s.next >= len(s.Answers) {
		return def, nil
	}
	answer := s.Answers[s.next]
	s.next++
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
