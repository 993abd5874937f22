// Package render draws a finished inspection tree. It is a pure consumer:
// glyph and color decisions happen here and never leak into tree nodes.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"lsapi/internal/inspect"
)

// Glyphs are the four drawing elements of one tree style.
type Glyphs struct {
	Line string // continuation under a non-final child
	Fork string // branch to a non-final child
	Stop string // branch to the final child
	Open string // continuation under the final child
}

var (
	Unicode = Glyphs{Line: "│ ", Fork: "├─", Stop: "└─", Open: "  "}
	ASCII   = Glyphs{Line: "| ", Fork: "|-", Stop: "+-", Open: "  "}
	Space   = Glyphs{Line: "  ", Fork: "  ", Stop: "  ", Open: "  "}
)

var (
	packageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	funcStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	methodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Renderer writes one tree in a fixed style.
type Renderer struct {
	Glyphs Glyphs
	Color  bool
}

func New(glyphs Glyphs, color bool) *Renderer {
	return &Renderer{Glyphs: glyphs, Color: color}
}

// Render writes the root line and the whole subtree beneath it.
func (r *Renderer) Render(w io.Writer, root *inspect.Node) {
	fmt.Fprintln(w, r.line(root))
	if root.Truncated {
		fmt.Fprintln(w, r.Glyphs.Stop+r.paint("[...]", noteStyle))
		return
	}
	r.children(w, root, "")
}

func (r *Renderer) children(w io.Writer, node *inspect.Node, tab string) {
	for i, child := range node.Children {
		fork, cont := r.Glyphs.Fork, r.Glyphs.Line
		if i == len(node.Children)-1 {
			fork, cont = r.Glyphs.Stop, r.Glyphs.Open
		}
		fmt.Fprintln(w, tab+fork+r.line(child))
		if child.Truncated {
			fmt.Fprintln(w, tab+cont+r.Glyphs.Stop+r.paint("[...]", noteStyle))
			continue
		}
		r.children(w, child, tab+cont)
	}
}

// line formats one node as name(signature)::type plus any annotation.
func (r *Renderer) line(n *inspect.Node) string {
	name := n.Name
	if n.Signature != "" {
		name += n.Signature
	}
	text := r.paint(name, r.styleFor(n)) + "::" + n.TypeName

	switch {
	case n.IsAlias:
		return text + " " + r.paint(fmt.Sprintf("[see %s]", n.Ref), noteStyle)
	case n.External:
		return text + " " + r.paint(fmt.Sprintf("[external %s %s]", n.TypeName, n.Ref), noteStyle)
	default:
		return text
	}
}

func (r *Renderer) styleFor(n *inspect.Node) lipgloss.Style {
	switch n.Kind {
	case inspect.KindNamespace:
		if n.TypeName == "package" {
			return packageStyle
		}
		return typeStyle
	case inspect.KindCallable:
		if n.TypeName == "method" {
			return methodStyle
		}
		return funcStyle
	default:
		return valueStyle
	}
}

func (r *Renderer) paint(s string, style lipgloss.Style) string {
	if !r.Color {
		return s
	}
	return style.Render(s)
}
