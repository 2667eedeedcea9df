package postprocess

import (
	"strings"
	"testing"

	"github.com/go-shiori/dom"

	"github.com/alnah/go-tex2html/internal/document"
)

func TestTypeset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "nothing to do", "nothing to do"},
		{"em dash", "a---b", "a—b"},
		{"en dash", "1--2", "1–2"},
		{"tex quotes", "``quoted''", "“quoted”"},
		{"double quotes", `say "hi"`, "say “hi”"},
		{"apostrophe", "it's", "it’s"},
		{"single quotes", "a 'word' here", "a ‘word’ here"},
		{"quote after paren", `("x")`, "(“x”)"},
		{"leading quote", `"start`, "“start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := typeset(tt.in); got != tt.want {
				t.Errorf("typeset(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTypesetComponent_SkipsLiteralContent(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body><article class="ltx_document">`+
		`<p>"a"</p><code>"b"</code><span class="tex2html-math" data-display="inline">x''</span>`+
		`<pre class="ltx_verbatim">--c</pre></article></body></html>`)

	if err := typesetComponent().Run(doc, NewState()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out, _ := doc.String()
	for _, want := range []string{"<p>“a”</p>", `<code>"b"</code>`, "x&#39;&#39;</span>", "--c</pre>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestTagNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Figure 2: ", "2"},
		{"(3)", "3"},
		{"[12]", "12"},
		{"Appendix B ", "B"},
		{"1.2 ", "1.2"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := tagNumber(tt.in); got != tt.want {
				t.Errorf("tagNumber(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "short text", 20, "short text"},
		{"exact", "abcde", 5, "abcde"},
		{"cuts at word", "one two three four", 10, "one two…"},
		{"multibyte", "éééé ééé", 6, "éééé…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}

func TestAnchorSafe(t *testing.T) {
	t.Parallel()

	if got := anchorSafe("bib.bib1:x y"); got != "bib-bib1-x-y" {
		t.Errorf("anchorSafe() = %q", got)
	}
}

func TestDropListStyleNone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style string
		want  string
	}{
		{"only none", "list-style-type:none;", ""},
		{"spaced", "list-style-type: none", ""},
		{"keeps others", "color:red; list-style-type:none;", "color:red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := document.Element("li", "style", tt.style)
			dropListStyleNone(n)
			if got := dom.GetAttribute(n, "style"); got != tt.want {
				t.Errorf("style = %q, want %q", got, tt.want)
			}
			if tt.want == "" && dom.HasAttribute(n, "style") {
				t.Error("empty style attribute should be removed")
			}
		})
	}
}

func TestCodeCSS_UnknownThemeFallsBack(t *testing.T) {
	t.Parallel()

	css, err := codeCSS("no-such-theme")
	if err != nil {
		t.Fatalf("codeCSS() error = %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("codeCSS() = %q, want chroma rules", css)
	}
}

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	if got := sanitizeCSS("a{}</style><script>"); got != `a{}<\/style><script>` {
		t.Errorf("sanitizeCSS() = %q", got)
	}
}
