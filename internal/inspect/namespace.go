// Package inspect implements the core of lsapi: classifying exposed names,
// walking namespace graphs that may contain cycles and diamonds, resolving
// aliases against canonical definition sites, and assembling the final
// render-ready tree.
package inspect

// Kind categorizes the target of a name binding.
type Kind int

const (
	KindValue Kind = iota
	KindCallable
	KindNamespace
)

func (k Kind) String() string {
	switch k {
	case KindCallable:
		return "callable"
	case KindNamespace:
		return "namespace"
	default:
		return "value"
	}
}

// Namespace is a container of named members: a package, module, or
// class-like type. Implementations live at the edges of the system (the
// go/packages loader, test fixtures); the walker only ever sees this
// interface and never touches any global registry.
type Namespace interface {
	// Identity is a stable key distinguishing this namespace from every
	// other loaded namespace. Cycle and alias decisions are lookups on this
	// key, never pointer comparisons.
	Identity() string

	// Path is the fully-qualified path under which the namespace was
	// declared.
	Path() string

	// Names lists the direct member names. When the namespace has an
	// explicit declared order the slice reflects it; otherwise the order is
	// unspecified and the walker sorts.
	Names() []string

	// HasDeclaredOrder reports whether Names reflects a declared export
	// order.
	HasDeclaredOrder() bool

	// Member resolves a single name. Implementations probe defensively: a
	// member that cannot be read returns an error and the walker skips it
	// without aborting the run.
	Member(name string) (Member, error)
}

// Member is the target of one name binding.
type Member interface {
	Kind() Kind

	// Namespace returns the target namespace when Kind is KindNamespace,
	// nil otherwise.
	Namespace() Namespace

	// TypeName is a short label for the target's type (package, struct,
	// func, ...). Informational only.
	TypeName() string

	// Signature formats a callable's parameters and results. Non-callables
	// and non-introspectable callables return the empty string.
	Signature() string

	// DefinedIn reports the path of the namespace the target is defined in,
	// when such metadata exists. ok is false when the location is unknown;
	// the walker then treats the current namespace as canonical. The
	// metadata is a heuristic and is treated as best effort.
	DefinedIn() (path string, ok bool)
}

// NameClassifier is optionally implemented by namespaces whose source
// language marks visibility without underscore delimiters (Go's export
// rule). The walker consults it before falling back to Classify.
type NameClassifier interface {
	ClassifyName(name string) (Class, bool)
}
