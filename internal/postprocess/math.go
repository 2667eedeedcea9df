package postprocess

import (
	"fmt"

	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"github.com/alnah/go-tex2html/internal/document"
	"github.com/alnah/go-tex2html/internal/mathrender"
)

const mathPlaceholderClass = mathrender.PlaceholderClass

// mathStage restructures numbered equations and replaces every <math>
// element with a placeholder holding its TeX source. The placeholders are
// typeset after the pipeline by mathrender.
func mathStage() Stage {
	return NewStage("math", caps(CapFigures), caps(CapMath), func(doc *document.Document, st *State) error {
		article := doc.Article()
		for _, table := range doc.QueryAll("table.ltx_equationgroup, table.ltx_equation") {
			if !within(table, article) {
				continue
			}
			if err := restructureEquation(table, st); err != nil {
				return err
			}
		}

		for i, m := range doc.QueryAll("math") {
			tex, ok := attr(m, "alttext")
			if !ok {
				return missing(fmt.Sprintf("alttext on math element %d", i+1))
			}
			display := mathrender.Inline
			if dom.GetAttribute(m, "display") == "block" {
				display = mathrender.Block
			}
			document.Replace(m, placeholder(tex, display))
			st.MathFragments++
		}
		return nil
	})
}

// restructureEquation turns a LaTeXML equation table into div.equation
// with one row per numbered line.
func restructureEquation(table *html.Node, st *State) error {
	eq := document.Element("div", "class", "equation")
	tableID := dom.GetAttribute(table, "id")
	if tableID != "" {
		dom.SetAttribute(eq, "id", tableID)
	}

	for _, tr := range dom.QuerySelectorAll(table, "tr") {
		maths := dom.QuerySelectorAll(tr, "math")
		if len(maths) == 0 {
			continue
		}
		row := document.Element("div", "class", "equation-row")
		rowID := dom.GetAttribute(tr, "id")
		if rowID != "" && rowID != tableID {
			dom.SetAttribute(row, "id", rowID)
		}
		for _, m := range maths {
			dom.SetAttribute(m, "display", "block")
			document.Append(row, m)
		}

		if tag := dom.QuerySelector(tr, ".ltx_tag_equation"); tag != nil {
			number := tagNumber(document.TextOf(tag))
			num := document.Element("span", "class", "equation-number")
			document.SetText(num, "("+number+")")
			row.AppendChild(num)

			label := Label{Kind: "Equation", Number: number}
			st.setLabel(rowID, label)
			if _, ok := st.Labels[tableID]; !ok {
				st.setLabel(tableID, label)
			}
		}
		eq.AppendChild(row)
	}

	if eq.FirstChild == nil {
		return missing(fmt.Sprintf("math in equation %q", tableID))
	}
	document.Replace(table, eq)
	return nil
}

func placeholder(tex string, display mathrender.Display) *html.Node {
	span := document.Element("span", "class", mathPlaceholderClass, "data-display", string(display))
	span.AppendChild(document.Text(tex))
	return span
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// within reports whether n is a descendant of ancestor.
func within(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
