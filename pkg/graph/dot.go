// Package graph renders a blueprint's package-manager hierarchy as a
// Graphviz diagram: managers are boxes, packages are ellipses, and
// edges follow installation order.
package graph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
	"github.com/jodiecunningham/blueprint/pkg/errors"
)

// Options configures hierarchy rendering.
type Options struct {
	// Packages includes leaf package nodes. When false only the
	// manager hierarchy is drawn.
	Packages bool
}

// ToDOT converts the blueprint's manager hierarchy to Graphviz DOT
// format. The resulting string can be rendered with [RenderSVG].
func ToDOT(b *blueprint.Blueprint, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph managers {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [fillcolor=lightblue];\n", blueprint.DefaultManager)
	b.Walk(blueprint.Hooks{
		OnPackage: func(m *blueprint.Manager, pkg, version string) {
			if pkg == m.Name() {
				return
			}
			if _, isManager := b.Packages[pkg]; isManager {
				fmt.Fprintf(&buf, "  %q [fillcolor=lightblue];\n", pkg)
				fmt.Fprintf(&buf, "  %q -> %q;\n", m.Name(), pkg)
				return
			}
			if opts.Packages {
				fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n", m.Name()+"/"+pkg, pkg+" "+version)
				fmt.Fprintf(&buf, "  %q -> %q;\n", m.Name(), m.Name()+"/"+pkg)
			}
		},
	})

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return buf.Bytes(), nil
}
