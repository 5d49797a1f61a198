package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownStrategy is returned when a strategy name has no segmenter.
var ErrUnknownStrategy = errors.New("unknown extraction strategy")

// Strategy selects how raw text is segmented into per-contact chunks before
// field matching.
type Strategy string

const (
	// StrategyParagraph splits on blank lines and tab runs; good for text
	// pasted from spreadsheets or loosely formatted lists.
	StrategyParagraph Strategy = "paragraph"
	// StrategyHeader starts a new chunk at every company-header line; good
	// for registry dumps where each record opens with "Empresa LTDA".
	StrategyHeader Strategy = "header"
	// StrategyWindow cuts a fixed window of lines around every email
	// address; good for noisy text where emails are the only reliable
	// anchor.
	StrategyWindow Strategy = "window"
)

// defaultWindowRadius is the number of lines taken on each side of an email
// anchor by StrategyWindow.
const defaultWindowRadius = 5

// Chunk is a contiguous run of non-empty lines believed to describe a single
// contact.
type Chunk struct {
	Lines []string
	Raw   string
}

// Segmenter cuts raw text into candidate chunks. Implementations must be
// deterministic: the same input always yields the same chunks in the same
// order.
type Segmenter interface {
	Segment(text string) []Chunk
}

// SegmenterFor maps a strategy name to its implementation.
func SegmenterFor(s Strategy, windowRadius int) (Segmenter, error) {
	switch s {
	case StrategyParagraph:
		return paragraphSegmenter{}, nil
	case StrategyHeader:
		return headerSegmenter{}, nil
	case StrategyWindow:
		if windowRadius <= 0 {
			windowRadius = defaultWindowRadius
		}
		return windowSegmenter{radius: windowRadius}, nil
	case "":
		return paragraphSegmenter{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, s)
	}
}

var paragraphSplit = regexp.MustCompile(`\n\s*\n|\t{2,}`)

type paragraphSegmenter struct{}

func (paragraphSegmenter) Segment(text string) []Chunk {
	var chunks []Chunk
	for _, block := range paragraphSplit.Split(text, -1) {
		lines := cleanLines(block)
		if len(lines) == 0 {
			continue
		}
		// Raw keeps the literal block so the stored source text matches
		// what was pasted.
		chunks = append(chunks, Chunk{Lines: lines, Raw: strings.TrimSpace(block)})
	}
	return chunks
}

type headerSegmenter struct{}

func (headerSegmenter) Segment(text string) []Chunk {
	lines := cleanLines(text)
	var chunks []Chunk
	var current []string
	seenHeader := false
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, Chunk{Lines: current, Raw: strings.Join(current, "\n")})
			current = nil
		}
	}
	for _, line := range lines {
		if isCompanyHeader(line) {
			flush()
			seenHeader = true
		}
		// Lines before the first company header are noise, not a record.
		if !seenHeader {
			continue
		}
		current = append(current, line)
	}
	flush()
	return chunks
}

type windowSegmenter struct {
	radius int
}

func (s windowSegmenter) Segment(text string) []Chunk {
	lines := cleanLines(text)
	var chunks []Chunk
	for i, line := range lines {
		if isExcludedLine(line) || matchEmail(line) == "" {
			continue
		}
		lo := i - s.radius
		if lo < 0 {
			lo = 0
		}
		hi := i + s.radius + 1
		if hi > len(lines) {
			hi = len(lines)
		}
		window := lines[lo:hi]
		chunks = append(chunks, Chunk{Lines: window, Raw: strings.Join(window, "\n")})
	}
	return chunks
}

// cleanLines splits text into trimmed, non-empty lines.
func cleanLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
