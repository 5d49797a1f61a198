// Package extract turns free-form Brazilian prospect text into structured
// contacts. Raw input is segmented into per-contact chunks by a pluggable
// strategy, a builder runs ordered field matchers over each chunk, and the
// batch is deduplicated by email or phone identity.
package extract

import (
	"errors"
	"unicode/utf8"
)

// DefaultMaxInputLen is the rune ceiling applied when Options.MaxInputLen is
// zero.
const DefaultMaxInputLen = 100_000

var (
	// ErrInputTooLarge is returned before any segmentation when the input
	// exceeds the configured ceiling.
	ErrInputTooLarge = errors.New("input text exceeds the maximum allowed size")
	// ErrNoContactsFound is returned when segmentation and matching yield
	// zero acceptable contacts.
	ErrNoContactsFound = errors.New("no contacts found in the input text")
)

// Options configure a Pipeline. The zero value is usable: paragraph strategy,
// any-identity acceptance, suffix-based company heuristic, default size
// ceiling.
type Options struct {
	Strategy     Strategy
	Accept       AcceptPolicy
	Company      CompanyHeuristic
	MaxInputLen  int
	WindowRadius int
}

// Pipeline runs segmentation, building and acceptance as one deterministic
// pass. It is safe for concurrent use.
type Pipeline struct {
	opts    Options
	seg     Segmenter
	builder *Builder
}

func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.MaxInputLen <= 0 {
		opts.MaxInputLen = DefaultMaxInputLen
	}
	seg, err := SegmenterFor(opts.Strategy, opts.WindowRadius)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		opts:    opts,
		seg:     seg,
		builder: NewBuilder(opts.Strategy, opts.Accept, opts.Company),
	}, nil
}

// Extract returns the contacts found in raw, in chunk order. It returns
// ErrInputTooLarge when raw exceeds the ceiling and ErrNoContactsFound when
// nothing acceptable was found.
func (p *Pipeline) Extract(raw string) ([]Contact, error) {
	if utf8.RuneCountInString(raw) > p.opts.MaxInputLen {
		return nil, ErrInputTooLarge
	}
	var contacts []Contact
	for _, chunk := range p.seg.Segment(raw) {
		if contact, ok := p.builder.Build(chunk); ok {
			contacts = append(contacts, contact)
		}
	}
	if len(contacts) == 0 {
		return nil, ErrNoContactsFound
	}
	return contacts, nil
}
