package render

import (
	"bytes"
	"strings"
	"testing"

	"lsapi/internal/inspect"
)

func renderToString(t *testing.T, g Glyphs, root *inspect.Node) string {
	t.Helper()
	var buf bytes.Buffer
	New(g, false).Render(&buf, root)
	return buf.String()
}

func sampleTree() *inspect.Node {
	return &inspect.Node{
		Name: "app", Path: "app", Kind: inspect.KindNamespace, TypeName: "package",
		Children: []*inspect.Node{
			{
				Name: "sub", Path: "app.sub", Kind: inspect.KindNamespace, TypeName: "package", Depth: 1,
				Children: []*inspect.Node{
					{Name: "Leaf", Path: "app.sub.Leaf", Kind: inspect.KindValue, TypeName: "int", Depth: 2},
				},
			},
			{Name: "Run", Path: "app.Run", Kind: inspect.KindCallable, TypeName: "func", Depth: 1},
		},
	}
}

func TestRenderASCII(t *testing.T) {
	got := renderToString(t, ASCII, sampleTree())
	want := strings.Join([]string{
		"app::package",
		"|-sub::package",
		"| +-Leaf::int",
		"+-Run::func",
		"",
	}, "\n")
	if got != want {
		t.Errorf("rendered tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderUnicode(t *testing.T) {
	got := renderToString(t, Unicode, sampleTree())
	want := strings.Join([]string{
		"app::package",
		"├─sub::package",
		"│ └─Leaf::int",
		"└─Run::func",
		"",
	}, "\n")
	if got != want {
		t.Errorf("rendered tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSpaceGlyphs(t *testing.T) {
	got := renderToString(t, Space, sampleTree())
	if strings.ContainsAny(got, "|+└├│") {
		t.Errorf("space glyph render still contains tree glyphs:\n%s", got)
	}
}

func TestRenderSignature(t *testing.T) {
	root := &inspect.Node{
		Name: "app", Kind: inspect.KindNamespace, TypeName: "package",
		Children: []*inspect.Node{
			{Name: "Run", Kind: inspect.KindCallable, TypeName: "func",
				Signature: "(ctx Context) error", Depth: 1},
		},
	}
	got := renderToString(t, ASCII, root)
	if !strings.Contains(got, "+-Run(ctx Context) error::func") {
		t.Errorf("signature not inlined:\n%s", got)
	}
}

func TestRenderAnnotations(t *testing.T) {
	root := &inspect.Node{
		Name: "app", Kind: inspect.KindNamespace, TypeName: "package",
		Children: []*inspect.Node{
			{Name: "again", Kind: inspect.KindNamespace, TypeName: "package",
				IsAlias: true, Ref: "app.first", Depth: 1},
			{Name: "fmt", Kind: inspect.KindNamespace, TypeName: "package",
				External: true, Ref: "fmt", Depth: 1},
		},
	}
	got := renderToString(t, ASCII, root)
	if !strings.Contains(got, "again::package [see app.first]") {
		t.Errorf("alias annotation missing:\n%s", got)
	}
	if !strings.Contains(got, "fmt::package [external package fmt]") {
		t.Errorf("external annotation missing:\n%s", got)
	}
}

func TestRenderTruncation(t *testing.T) {
	root := &inspect.Node{
		Name: "app", Kind: inspect.KindNamespace, TypeName: "package",
		Children: []*inspect.Node{
			{Name: "deep", Kind: inspect.KindNamespace, TypeName: "package",
				Truncated: true, Depth: 1},
		},
	}
	got := renderToString(t, ASCII, root)
	want := strings.Join([]string{
		"app::package",
		"+-deep::package",
		"  +-[...]",
		"",
	}, "\n")
	if got != want {
		t.Errorf("truncated render:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderTruncatedRoot(t *testing.T) {
	root := &inspect.Node{
		Name: "app", Kind: inspect.KindNamespace, TypeName: "package",
		Truncated: true,
	}
	got := renderToString(t, ASCII, root)
	want := "app::package\n+-[...]\n"
	if got != want {
		t.Errorf("truncated root render:\n%s\nwant:\n%s", got, want)
	}
}
