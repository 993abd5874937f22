package inspect

import (
	"log/slog"
	"sort"
	"strings"

	"lsapi/internal/util"
)

// Options control a single tree build.
type Options struct {
	Filter     Filter
	Canonical  bool // place names under their defining namespace, mark imports as aliases
	External   bool // expand namespaces outside the root package's path
	Signatures bool // capture callable signatures at build time
	Aliases    bool // emit alias edges as marked nodes instead of omitting them
	MaxDepth   int  // root is depth 0; negative means unbounded

	// OnSkip, when set, observes every member skipped because it could not
	// be read. Skips are recovered failures: logged, reported, never fatal.
	OnSkip func(namespace, name string, err error)
}

// UnboundedDepth is the MaxDepth value meaning no cutoff.
const UnboundedDepth = -1

// Node is one entry of the finished tree. Nodes carry no presentation
// state; renderers decide glyphs and color.
type Node struct {
	Name      string
	Path      string
	Kind      Kind
	Class     Class
	TypeName  string
	Depth     int
	Signature string

	// IsAlias marks a non-expanding cross-reference to a namespace or
	// binding already placed elsewhere; Ref holds the canonical path.
	IsAlias bool

	// External marks a leaf reference to a namespace outside the root
	// package that was not expanded; Ref holds its declared path.
	External bool

	// Ref is the referenced path for alias and external nodes.
	Ref string

	// Truncated marks a namespace listed at the max-depth boundary whose
	// children were cut.
	Truncated bool

	Children []*Node
}

// Walk visits the node and all descendants depth-first in child order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree, including n itself.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) { total++ })
	return total
}

// Build walks the root namespace under the given options and returns the
// fully materialized tree. The whole structure exists before any rendering
// so that renderers can make width and alignment decisions. The visited
// set lives and dies with this call.
func Build(root Namespace, opts Options) *Node {
	b := &builder{
		opts:     opts,
		seen:     newVisitedSet(),
		rootPath: root.Path(),
	}
	node := &Node{
		Name:     lastSegment(root.Path()),
		Path:     root.Path(),
		Kind:     KindNamespace,
		TypeName: "package",
	}
	b.seen.Begin(root.Identity(), root.Path())
	if opts.MaxDepth == 0 {
		node.Truncated = true
	} else {
		b.expand(node, root)
	}
	b.seen.Finish(root.Identity())
	return node
}

type builder struct {
	opts     Options
	seen     *visitedSet
	rootPath string
}

func (b *builder) expand(parent *Node, ns Namespace) {
	for _, name := range b.orderedNames(ns) {
		class := b.classOf(ns, name)
		if !b.opts.Filter.Admits(class) {
			continue
		}
		member, err := ns.Member(name)
		if err != nil {
			slog.Debug("skipping unreadable member",
				"namespace", ns.Path(), "name", name, "error", err)
			if b.opts.OnSkip != nil {
				b.opts.OnSkip(ns.Path(), name, err)
			}
			continue
		}
		if node := b.bind(parent, ns, name, member, class); node != nil {
			parent.Children = append(parent.Children, node)
		}
	}
}

// bind turns a single (namespace, name, member) edge into a tree node, or
// nil when the binding is filtered out by canonical or dedup policy.
func (b *builder) bind(parent *Node, ns Namespace, name string, member Member, class Class) *Node {
	depth := parent.Depth + 1
	if b.opts.MaxDepth >= 0 && depth > b.opts.MaxDepth {
		return nil
	}

	node := &Node{
		Name:     name,
		Path:     parent.Path + "." + name,
		Kind:     member.Kind(),
		Class:    class,
		TypeName: member.TypeName(),
		Depth:    depth,
	}

	// Canonical mode: a binding whose target records a different defining
	// namespace is an import, not a definition. Missing or self metadata
	// falls back to treating the current namespace as canonical.
	if b.opts.Canonical {
		if def, ok := member.DefinedIn(); ok && def != ns.Path() {
			if !b.opts.Aliases {
				return nil
			}
			node.IsAlias = true
			node.Ref = def + "." + name
			return node
		}
	}

	if member.Kind() != KindNamespace {
		if b.opts.Signatures {
			node.Signature = member.Signature()
		}
		return node
	}

	target := member.Namespace()
	if target == nil {
		return node
	}

	// External-root policy: list the binding as a leaf reference, never
	// expand into members of a namespace outside the root package.
	if !b.opts.External && !util.PathUnder(target.Path(), b.rootPath) {
		node.External = true
		node.Ref = target.Path()
		return node
	}

	canonical, fresh := b.seen.Begin(target.Identity(), node.Path)
	if !fresh {
		// Already visited (diamond) or still in progress (live cycle):
		// either way this is an alias edge, never a re-expansion.
		if !b.opts.Aliases {
			return nil
		}
		node.IsAlias = true
		node.Ref = canonical
		return node
	}

	if b.opts.MaxDepth >= 0 && depth == b.opts.MaxDepth {
		// Listed but not expanded. The namespace still claims its
		// canonical path so later reaches stay aliases.
		node.Truncated = true
		b.seen.Finish(target.Identity())
		return node
	}

	b.expand(node, target)
	b.seen.Finish(target.Identity())
	return node
}

// orderedNames returns member names in the namespace's declared order when
// one exists; otherwise sorted by bare name. The two orders never mix
// within one namespace.
func (b *builder) orderedNames(ns Namespace) []string {
	names := ns.Names()
	if ns.HasDeclaredOrder() {
		return names
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return sorted
}

func (b *builder) classOf(ns Namespace, name string) Class {
	if nc, ok := ns.(NameClassifier); ok {
		if class, ok := nc.ClassifyName(name); ok {
			return class
		}
	}
	return Classify(name)
}

func lastSegment(path string) string {
	if i := strings.LastIndexAny(path, "./"); i >= 0 {
		return path[i+1:]
	}
	return path
}
