// Package latexml drives the LaTeXML command-line converter (latexmlc).
//
// Runner.Convert turns one .tex file into an HTML5 document with math kept
// as MathML carrying TeX alttext, which the postprocess pipeline relies on.
// Converter output is streamed line by line to the logger while the tool
// runs. Cleanup removes the auxiliary files LaTeXML leaves next to the
// output.
package latexml
