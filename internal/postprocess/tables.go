package postprocess

import (
	"strings"

	"github.com/go-shiori/dom"

	"github.com/alnah/go-tex2html/internal/document"
)

var cellAlignments = map[string]string{
	"ltx_align_left":    "left",
	"ltx_align_center":  "center",
	"ltx_align_right":   "right",
	"ltx_align_justify": "justify",
}

// tablesStage numbers table captions and places them above the table,
// wraps tabulars for horizontal scrolling and turns LaTeXML alignment
// classes into inline styles.
func tablesStage() Stage {
	return NewStage("tables", caps(CapHoverBoxes), caps(CapTables), func(doc *document.Document, st *State) error {
		for _, fig := range doc.QueryAll("figure.ltx_table") {
			caption := directChild(fig, "figcaption")
			if caption == nil {
				continue
			}
			number := numberCaption(caption, ".ltx_tag_table", "Table")
			document.Prepend(fig, caption)
			st.setLabel(dom.GetAttribute(fig, "id"), Label{Kind: "Table", Number: number})
		}

		for _, table := range doc.QueryAll("table.ltx_tabular") {
			if document.HasClass(table.Parent, "table-wrapper") {
				continue
			}
			document.Wrap(table, document.Element("div", "class", "table-wrapper"))
			st.Tables++

			for _, cell := range dom.QuerySelectorAll(table, "td, th") {
				for _, c := range document.Classes(cell) {
					align, ok := cellAlignments[c]
					if !ok {
						continue
					}
					style := strings.TrimSpace(dom.GetAttribute(cell, "style"))
					if style != "" && !strings.HasSuffix(style, ";") {
						style += ";"
					}
					dom.SetAttribute(cell, "style", strings.TrimSpace(style+" text-align:"+align+";"))
					break
				}
			}
		}
		return nil
	})
}
