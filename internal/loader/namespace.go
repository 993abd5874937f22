package loader

import (
	"fmt"
	"go/types"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"

	"lsapi/internal/inspect"
	"lsapi/internal/util"
)

// pkgNamespace exposes one import path as a namespace. Members are nested
// packages plus the objects in the package's type-checked scope. A node
// with a nil pkg is purely structural: an intermediate path level with no
// loadable package of its own.
type pkgNamespace struct {
	path     string
	pkg      *packages.Package
	children map[string]*pkgNamespace
}

func newPkgNamespace(path string, pkg *packages.Package) *pkgNamespace {
	return &pkgNamespace{path: path, pkg: pkg, children: make(map[string]*pkgNamespace)}
}

func (p *pkgNamespace) Identity() string { return "package:" + p.path }
func (p *pkgNamespace) Path() string     { return p.path }

func (p *pkgNamespace) Names() []string {
	names := util.SortedStringKeys(p.children)
	if p.pkg != nil && p.pkg.Types != nil {
		for _, name := range p.pkg.Types.Scope().Names() {
			if _, shadowed := p.children[name]; !shadowed {
				names = append(names, name)
			}
		}
	}
	return names
}

// Go has no declared export order; the walker sorts.
func (p *pkgNamespace) HasDeclaredOrder() bool { return false }

func (p *pkgNamespace) Member(name string) (m inspect.Member, err error) {
	// Defensive probing: a partially loaded package can hold invalid type
	// state. A panic here skips the one member, not the run.
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("probe %s.%s: %v", p.path, name, r)
		}
	}()

	if child, ok := p.children[name]; ok {
		return namespaceMember{
			ns:       child,
			typeName: "package",
			defined:  p.path,
			hasDef:   true,
		}, nil
	}
	if p.pkg == nil || p.pkg.Types == nil {
		return nil, fmt.Errorf("%s has no member %q", p.path, name)
	}
	obj := p.pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("%s has no member %q", p.path, name)
	}
	return objectMember(obj, p.pkg.Types)
}

// ClassifyName maps Go's export rule onto the classifier's classes:
// underscore-delimited names keep their delimiter class, exported
// identifiers are public, everything else is private.
func (p *pkgNamespace) ClassifyName(name string) (inspect.Class, bool) {
	return goNameClass(name)
}

// typeNamespace exposes a named type as a class-like namespace: struct
// fields and declared methods are its members, in source order.
type typeNamespace struct {
	named *types.Named
	path  string
}

func newTypeNamespace(named *types.Named) *typeNamespace {
	obj := named.Obj()
	path := obj.Name()
	if obj.Pkg() != nil {
		path = obj.Pkg().Path() + "." + obj.Name()
	}
	return &typeNamespace{named: named, path: path}
}

func (t *typeNamespace) Identity() string       { return "type:" + t.path }
func (t *typeNamespace) Path() string           { return t.path }
func (t *typeNamespace) HasDeclaredOrder() bool { return true }

func (t *typeNamespace) Names() []string {
	var names []string
	if st, ok := t.named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			names = append(names, st.Field(i).Name())
		}
	}
	if iface, ok := t.named.Underlying().(*types.Interface); ok {
		for i := 0; i < iface.NumExplicitMethods(); i++ {
			names = append(names, iface.ExplicitMethod(i).Name())
		}
		return names
	}
	for i := 0; i < t.named.NumMethods(); i++ {
		names = append(names, t.named.Method(i).Name())
	}
	return names
}

func (t *typeNamespace) Member(name string) (m inspect.Member, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("probe %s.%s: %v", t.path, name, r)
		}
	}()

	from := t.named.Obj().Pkg()
	if st, ok := t.named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			if f := st.Field(i); f.Name() == name {
				return valueMember{
					typeName: typeWord(f.Type(), from),
					defined:  t.path,
					hasDef:   true,
				}, nil
			}
		}
	}
	if iface, ok := t.named.Underlying().(*types.Interface); ok {
		for i := 0; i < iface.NumExplicitMethods(); i++ {
			if fn := iface.ExplicitMethod(i); fn.Name() == name {
				return methodMember(fn, from, t.path), nil
			}
		}
		return nil, fmt.Errorf("%s has no member %q", t.path, name)
	}
	for i := 0; i < t.named.NumMethods(); i++ {
		if fn := t.named.Method(i); fn.Name() == name {
			return methodMember(fn, from, t.path), nil
		}
	}
	return nil, fmt.Errorf("%s has no member %q", t.path, name)
}

func (t *typeNamespace) ClassifyName(name string) (inspect.Class, bool) {
	return goNameClass(name)
}

func methodMember(fn *types.Func, from *types.Package, owner string) inspect.Member {
	sig, _ := fn.Type().(*types.Signature)
	return callableMember{
		sig:      sig,
		from:     from,
		typeName: "method",
		defined:  owner,
		hasDef:   true,
	}
}

// objectMember wraps a package-scope object as a walker member.
func objectMember(obj types.Object, from *types.Package) (inspect.Member, error) {
	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	switch o := obj.(type) {
	case *types.Func:
		sig, _ := o.Type().(*types.Signature)
		return callableMember{
			sig:      sig,
			from:     from,
			typeName: "func",
			defined:  pkgPath,
			hasDef:   pkgPath != "",
		}, nil
	case *types.TypeName:
		if named, ok := types.Unalias(o.Type()).(*types.Named); ok {
			label := typeLabel(named)
			if o.IsAlias() {
				label = "alias"
			}
			def := ""
			if named.Obj().Pkg() != nil {
				def = named.Obj().Pkg().Path()
			}
			return namespaceMember{
				ns:       newTypeNamespace(named),
				typeName: label,
				defined:  def,
				hasDef:   def != "",
			}, nil
		}
		return valueMember{
			typeName: typeWord(o.Type(), from),
			defined:  pkgPath,
			hasDef:   pkgPath != "",
		}, nil
	case *types.Const, *types.Var:
		return valueMember{
			typeName: typeWord(obj.Type(), from),
			defined:  pkgPath,
			hasDef:   pkgPath != "",
		}, nil
	default:
		return valueMember{typeName: "object", defined: pkgPath, hasDef: pkgPath != ""}, nil
	}
}

type namespaceMember struct {
	ns       inspect.Namespace
	typeName string
	defined  string
	hasDef   bool
}

func (m namespaceMember) Kind() inspect.Kind           { return inspect.KindNamespace }
func (m namespaceMember) Namespace() inspect.Namespace { return m.ns }
func (m namespaceMember) TypeName() string             { return m.typeName }
func (m namespaceMember) Signature() string            { return "" }
func (m namespaceMember) DefinedIn() (string, bool)    { return m.defined, m.hasDef }

type callableMember struct {
	sig      *types.Signature
	from     *types.Package
	typeName string
	defined  string
	hasDef   bool
}

func (m callableMember) Kind() inspect.Kind           { return inspect.KindCallable }
func (m callableMember) Namespace() inspect.Namespace { return nil }
func (m callableMember) TypeName() string             { return m.typeName }
func (m callableMember) Signature() string            { return formatSignature(m.sig, m.from) }
func (m callableMember) DefinedIn() (string, bool)    { return m.defined, m.hasDef }

type valueMember struct {
	typeName string
	defined  string
	hasDef   bool
}

func (m valueMember) Kind() inspect.Kind           { return inspect.KindValue }
func (m valueMember) Namespace() inspect.Namespace { return nil }
func (m valueMember) TypeName() string             { return m.typeName }
func (m valueMember) Signature() string            { return "" }
func (m valueMember) DefinedIn() (string, bool)    { return m.defined, m.hasDef }

func goNameClass(name string) (inspect.Class, bool) {
	if c := inspect.Classify(name); c != inspect.Public {
		return c, true
	}
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return inspect.Public, true
	}
	return inspect.Private, true
}

func typeLabel(named *types.Named) string {
	switch named.Underlying().(type) {
	case *types.Struct:
		return "struct"
	case *types.Interface:
		return "interface"
	default:
		return "type"
	}
}

// typeWord gives a one-word label for a value's type.
func typeWord(t types.Type, from *types.Package) string {
	switch u := types.Unalias(t).(type) {
	case *types.Named:
		return u.Obj().Name()
	case *types.Basic:
		return u.Name()
	case *types.Slice:
		return "slice"
	case *types.Array:
		return "array"
	case *types.Map:
		return "map"
	case *types.Chan:
		return "chan"
	case *types.Pointer:
		return "pointer"
	case *types.Signature:
		return "func"
	case *types.Struct:
		return "struct"
	case *types.Interface:
		return "interface"
	default:
		return types.TypeString(t, types.RelativeTo(from))
	}
}
