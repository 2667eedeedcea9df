package postprocess

import "github.com/alnah/go-tex2html/internal/document"

// containerStage moves the whole body into one delivery container. It is
// not idempotent: a second run wraps the container again.
func containerStage(opts Options) Stage {
	class := opts.ContainerClass
	return NewStage("container", caps(CapLinks), caps(CapContainer), func(doc *document.Document, st *State) error {
		body := doc.Body()
		if body == nil {
			return missing("body")
		}
		if !doc.Attached() {
			return missing("article root")
		}

		container := document.Element("div", "class", class)
		document.MoveChildren(container, body)
		body.AppendChild(container)
		return nil
	})
}
