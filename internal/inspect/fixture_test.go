package inspect

import "fmt"

// fakeNamespace is an in-memory namespace graph for walker tests. Graphs
// are wired by hand, so cycles and diamonds are a matter of calling child
// with the same target twice.
type fakeNamespace struct {
	identity string
	path     string
	order    []string
	declared bool
	members  map[string]*fakeMember
	broken   map[string]error
}

func newFakeNamespace(identity, path string) *fakeNamespace {
	return &fakeNamespace{
		identity: identity,
		path:     path,
		members:  make(map[string]*fakeMember),
		broken:   make(map[string]error),
	}
}

func (n *fakeNamespace) Identity() string       { return n.identity }
func (n *fakeNamespace) Path() string           { return n.path }
func (n *fakeNamespace) HasDeclaredOrder() bool { return n.declared }

func (n *fakeNamespace) Names() []string {
	return append([]string(nil), n.order...)
}

func (n *fakeNamespace) Member(name string) (Member, error) {
	if err, ok := n.broken[name]; ok {
		return nil, err
	}
	m, ok := n.members[name]
	if !ok {
		return nil, fmt.Errorf("no member %q in %s", name, n.path)
	}
	return m, nil
}

func (n *fakeNamespace) value(name, typeName string) *fakeNamespace {
	n.order = append(n.order, name)
	n.members[name] = &fakeMember{kind: KindValue, typeName: typeName}
	return n
}

func (n *fakeNamespace) callable(name, sig string) *fakeNamespace {
	n.order = append(n.order, name)
	n.members[name] = &fakeMember{kind: KindCallable, typeName: "func", sig: sig}
	return n
}

func (n *fakeNamespace) child(name string, target *fakeNamespace) *fakeNamespace {
	n.order = append(n.order, name)
	n.members[name] = &fakeMember{kind: KindNamespace, target: target, typeName: "package"}
	return n
}

func (n *fakeNamespace) failing(name string, err error) *fakeNamespace {
	n.order = append(n.order, name)
	n.broken[name] = err
	return n
}

// definedIn stamps definition metadata on an already added member.
func (n *fakeNamespace) definedIn(name, def string) *fakeNamespace {
	m := n.members[name]
	m.def = def
	m.hasDef = true
	return n
}

type fakeMember struct {
	kind     Kind
	target   *fakeNamespace
	typeName string
	sig      string
	def      string
	hasDef   bool
}

func (m *fakeMember) Kind() Kind { return m.kind }

func (m *fakeMember) Namespace() Namespace {
	if m.target == nil {
		return nil
	}
	return m.target
}

func (m *fakeMember) TypeName() string  { return m.typeName }
func (m *fakeMember) Signature() string { return m.sig }

func (m *fakeMember) DefinedIn() (string, bool) { return m.def, m.hasDef }
