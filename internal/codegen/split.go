package codegen

import (
	"fmt"

	"github.com/mwarren/staticforge/internal/scan"
)

// SplitStrategy decides where the generator breaks the embedded table into
// sibling source files. Splitting keeps individual generated files at a size
// the compiler handles comfortably on very large asset trees; most builds
// leave it off and emit a single file.
type SplitStrategy interface {
	// Register accounts for the next resource.
	Register(res scan.Resource)

	// ShouldSplit reports whether the current set file is full.
	ShouldSplit() bool

	// Reset clears internal counters after a split.
	Reset()

	// String describes the strategy and its parameters; change detection
	// folds it into the build fingerprint.
	String() string
}

// SplitByCount starts a new set file after max resources.
type SplitByCount struct {
	current int
	max     int
}

// NewSplitByCount creates a count-based split strategy.
func NewSplitByCount(max int) *SplitByCount {
	return &SplitByCount{max: max}
}

func (s *SplitByCount) Register(scan.Resource) { s.current++ }
func (s *SplitByCount) ShouldSplit() bool      { return s.current >= s.max }
func (s *SplitByCount) Reset()                 { s.current = 0 }
func (s *SplitByCount) String() string         { return fmt.Sprintf("count:%d", s.max) }

// SplitBySize starts a new set file once the accumulated content exceeds
// maxBytes.
type SplitBySize struct {
	current  int
	maxBytes int
}

// NewSplitBySize creates a size-based split strategy.
func NewSplitBySize(maxBytes int) *SplitBySize {
	return &SplitBySize{maxBytes: maxBytes}
}

func (s *SplitBySize) Register(res scan.Resource) { s.current += len(res.Content) }
func (s *SplitBySize) ShouldSplit() bool          { return s.current >= s.maxBytes }
func (s *SplitBySize) Reset()                     { s.current = 0 }
func (s *SplitBySize) String() string             { return fmt.Sprintf("size:%d", s.maxBytes) }
