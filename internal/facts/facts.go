// Package facts picks a random space fact for the startup banner.
package facts

import "math/rand/v2"

var builtin = []string{
	"NASA's Hubble Space Telescope has been in operation for over 30 years, capturing stunning images of the universe.",
	"A day on Venus is longer than a year on Venus due to its slow rotation.",
	"Neutron stars are so dense that a sugar-cube-sized amount of neutron star material would weigh about a billion tons on Earth.",
	"The largest volcano in the solar system is Olympus Mons on Mars, which is about 13.6 miles high.",
	"Saturn's rings are made up of countless small particles, ranging from micrometers to meters in size.",
}

// List returns a copy of the built-in facts.
func List() []string {
	out := make([]string, len(builtin))
	copy(out, builtin)
	return out
}

// Target receives the chosen fact.
type Target interface {
	SetText(text string)
}

// Picker writes one random fact into its target.
type Picker struct {
	facts  []string
	intn   func(n int) int
	target Target
}

// Option customizes a Picker.
type Option func(*Picker)

// WithFacts replaces the fact list. An empty list keeps the built-in one.
func WithFacts(list []string) Option {
	return func(p *Picker) {
		if len(list) > 0 {
			p.facts = append([]string(nil), list...)
		}
	}
}

// WithIntn replaces the random source; intn must return a value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(p *Picker) {
		if intn != nil {
			p.intn = intn
		}
	}
}

// NewPicker builds a Picker that writes into target.
func NewPicker(target Target, opts ...Option) *Picker {
	p := &Picker{
		facts:  builtin,
		intn:   rand.IntN,
		target: target,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DisplayRandomFact chooses a fact uniformly at random, hands it to the target and
// returns it.
func (p *Picker) DisplayRandomFact() string {
	idx := p.intn(len(p.facts))
	if idx < 0 || idx >= len(p.facts) {
		idx = 0
	}
	fact := p.facts[idx]
	if p.target != nil {
		p.target.SetText(fact)
	}
	return fact
}

// TextTarget is a Target that simply stores the last text it was given.
type TextTarget struct {
	text string
}

// SetText implements Target.
func (t *TextTarget) SetText(text string) {
	t.text = text
}

// Text returns the stored text.
func (t *TextTarget) Text() string {
	if t == nil {
		return ""
	}
	return t.text
}
