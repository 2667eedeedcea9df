package mathrender

import (
	"context"

	"github.com/wyatt915/treeblood"
)

// MathMLRenderer converts TeX to MathML in-process.
type MathMLRenderer struct{}

// Render returns a <math> element for f.
func (MathMLRenderer) Render(ctx context.Context, f Fragment) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return treeblood.TexToMML(f.TeX, nil, f.Display == Block, false)
}
