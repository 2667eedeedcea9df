// Package mathrender typesets the math placeholders left in a document by
// the postprocess pipeline.
//
// A placeholder is a span of the form
//
//	<span class="tex2html-math" data-display="inline">TeX source</span>
//
// Typesetter finds every placeholder, renders the fragments concurrently
// with a bounded number of workers and splices the results back in document
// order. Two renderers are provided: MathMLRenderer converts TeX to MathML
// in-process, MathJaxRenderer drives MathJax in headless Chrome and emits
// SVG.
package mathrender
