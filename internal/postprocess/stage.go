package postprocess

import "github.com/alnah/go-tex2html/internal/document"

// Capability is a tag a stage provides for later stages to require.
type Capability string

// Capabilities produced by the default stages.
const (
	CapLayout         Capability = "layout"
	CapHead           Capability = "head"
	CapStyles         Capability = "styles"
	CapMetadata       Capability = "metadata"
	CapCode           Capability = "code"
	CapFigures        Capability = "figures"
	CapMath           Capability = "math"
	CapHeadings       Capability = "headings"
	CapAppendix       Capability = "appendix"
	CapFootnotes      Capability = "footnotes"
	CapFootnoteList   Capability = "footnote-list"
	CapBibliography   Capability = "bibliography"
	CapAppendixLayout Capability = "appendix-layout"
	CapTypography     Capability = "typography"
	CapNonBreaking    Capability = "non-breaking"
	CapHoverBoxes     Capability = "hover-boxes"
	CapTables         Capability = "tables"
	CapLists          Capability = "lists"
	CapLinks          Capability = "links"
	CapContainer      Capability = "container"
)

// Stage is one named transformation of the document.
type Stage interface {
	Name() string
	Requires() []Capability
	Provides() []Capability
	Run(doc *document.Document, st *State) error
}

// StageFunc adapts a function to a Stage.
type StageFunc struct {
	StageName string
	Needs     []Capability
	Gives     []Capability
	Fn        func(doc *document.Document, st *State) error
}

// NewStage builds a Stage from a function.
func NewStage(name string, requires, provides []Capability, fn func(*document.Document, *State) error) *StageFunc {
	return &StageFunc{StageName: name, Needs: requires, Gives: provides, Fn: fn}
}

// Name implements Stage.
func (s *StageFunc) Name() string { return s.StageName }

// Requires implements Stage.
func (s *StageFunc) Requires() []Capability { return s.Needs }

// Provides implements Stage.
func (s *StageFunc) Provides() []Capability { return s.Gives }

// Run implements Stage.
func (s *StageFunc) Run(doc *document.Document, st *State) error { return s.Fn(doc, st) }

func caps(c ...Capability) []Capability { return c }

// Compile-time interface check.
var _ Stage = (*StageFunc)(nil)
