package postprocess

import "golang.org/x/net/html"

// State is the per-run record shared by all stages. Each field names the
// stage that writes it; only stages later in the order may read it.
type State struct {
	// Stylesheets lists the names of inlined stylesheets. Written by styles.
	Stylesheets []string

	// Title, Authors, Abstract and Date are written by metadata and read by
	// headings (to skip the document title) and container.
	Title    string
	Authors  []Author
	Abstract string
	Date     string

	// CodeBlocks counts highlighted listings. Written by code.
	CodeBlocks int

	// MathFragments counts emitted math placeholders. Written by math.
	MathFragments int

	// Labels maps element ids to their display label. Written by figures,
	// math, headings, bibliography and tables; read by links.
	Labels map[string]Label

	// Headings is the section outline in document order. Written by headings,
	// read by appendix.
	Headings []Heading

	// Appendix is the appendix container, nil until a stage needs one.
	// Created by appendix, components.footnote or bibliography.
	Appendix *html.Node

	// AppendixSections holds ids of sections moved into the appendix.
	// Written by appendix.
	AppendixSections []string

	// Footnotes are written by footnotes and read by components.footnote
	// and components.hoverbox.
	Footnotes []Footnote

	// References are written by bibliography and read by components.hoverbox.
	References []Reference

	// Citations counts citation links. Written by bibliography.
	Citations int

	// Tables counts wrapped tabulars. Written by tables.
	Tables int
}

// NewState returns an empty State.
func NewState() *State {
	return &State{Labels: make(map[string]Label)}
}

func (s *State) setLabel(id string, l Label) {
	if id == "" {
		return
	}
	if s.Labels == nil {
		s.Labels = make(map[string]Label)
	}
	s.Labels[id] = l
}

// Author is one document author.
type Author struct {
	Name         string
	Affiliations []string
	Email        string
}

// Label is the display name of a numbered element, e.g. "Figure 3".
type Label struct {
	Kind   string
	Number string
}

func (l Label) String() string {
	if l.Number == "" {
		return l.Kind
	}
	return l.Kind + " " + l.Number
}

// Heading is one entry of the section outline.
type Heading struct {
	ID       string
	Level    int
	Number   string
	Text     string
	Appendix bool
}

// Footnote is a footnote lifted out of the text.
type Footnote struct {
	Number string
	HTML   string
}

// ID returns the anchor id of the footnote list entry.
func (f Footnote) ID() string { return "fn-" + f.Number }

// RefID returns the anchor id of the footnote marker.
func (f Footnote) RefID() string { return "fnref-" + f.Number }

// Reference is one bibliography entry.
type Reference struct {
	ID     string
	Number string
	HTML   string
	Text   string
}
