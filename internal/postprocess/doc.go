// Package postprocess restructures LaTeXML HTML into the final article.
//
// The work is split into named stages run by a Driver in a fixed order
// against one document.Document and one State:
//
//  1. layout               - unwrap LaTeXML page chrome
//  2. components.html      - head normalization (charset, viewport, lang)
//  3. styles               - inline article and code stylesheets
//  4. metadata             - title, authors, abstract into State and <head>
//  5. code                 - highlight listings with chroma
//  6. figures              - figure captions and labels
//  7. math                 - replace <math> with typesetting placeholders
//  8. headings             - section numbers, anchors, table of contents
//  9. appendix             - move appendix sections into the appendix
//  10. footnotes           - collect footnotes, leave markers
//  11. components.footnote - footnote list and marker links
//  12. bibliography        - reference list and citations
//  13. components.appendix - appendix ordering
//  14. components.typeset  - typographic punctuation
//  15. typeset             - non-breaking spaces before references
//  16. components.hoverbox - hover boxes for citations and footnotes
//  17. tables              - table wrappers and alignment
//  18. lists               - list label cleanup
//  19. links               - cross-reference titles, external links
//  20. container           - wrap the body in the delivery container
//
// Each stage declares the capabilities it requires and provides. NewDriver
// rejects a stage list where a requirement is not provided by an earlier
// stage, so reordering mistakes surface when the pipeline is built rather
// than as a silently wrong document.
//
// The pipeline is single-pass: running it again over its own output wraps
// the container a second time.
package postprocess
