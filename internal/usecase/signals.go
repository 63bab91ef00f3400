package usecase

import (
	"regexp"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// Evidence is what test signals inspect.
type Evidence struct {
	Diff   string
	Labels []domain.Label
}

// TestSignal is one piece of evidence that a pull request ships tests.
type TestSignal interface {
	Name() string
	Match(e Evidence) bool
}

type addedLineSignal struct {
	name string
	re   *regexp.Regexp
}

// AddedLine matches when any added diff line matches expr. expr is anchored
// right after the leading "+".
func AddedLine(name, expr string) TestSignal {
	return &addedLineSignal{name: name, re: regexp.MustCompile(`(?m)^\+` + expr)}
}

func (s *addedLineSignal) Name() string { return s.name }

func (s *addedLineSignal) Match(e Evidence) bool {
	return s.re.MatchString(e.Diff)
}

type labelSignal struct {
	name  string
	label string
}

// LabelPresent matches when the pull request carries label, compared exactly.
func LabelPresent(name, label string) TestSignal {
	return &labelSignal{name: name, label: label}
}

func (s *labelSignal) Name() string { return s.name }

func (s *labelSignal) Match(e Evidence) bool {
	return hasLabel(e.Labels, s.label)
}

// DefaultSignals returns the has-tests signals in evaluation order.
func DefaultSignals() []TestSignal {
	return []TestSignal{
		AddedLine("test keyword", `(?:.*Test|`+standalone("tests?")+`)`),
		AddedLine("spec keyword", `(?:.*RSpec|`+standalone("specs?")+`)`),
		LabelPresent("end to end label", EndToEndTestedLabel),
		AddedLine("inline test block", `\s*(?:it|describe|context|test|scenario)\s*\(?\s*['"]`),
	}
}

// standalone matches word only when it is not part of a longer word, so
// "_test.go", "/spec/" and "unit test" match while "latest" and "inspect" do not.
func standalone(word string) string {
	return `(?:.*[^a-zA-Z\n])?` + word + `(?:[^a-zA-Z]|$)`
}
