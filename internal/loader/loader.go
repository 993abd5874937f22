// Package loader resolves a Go package pattern into the namespace tree the
// walker consumes. It is the only place that talks to the build system; the
// core receives an already-resolved root namespace and nothing else.
package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"lsapi/internal/inspect"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedImports |
	packages.NeedDeps | packages.NeedTypes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedModule

// Loader loads packages for inspection.
type Loader struct {
	// Dir is the working directory for the load. Empty means the process
	// working directory.
	Dir string
}

// Result is a successfully loaded root namespace plus the metadata the
// application needs around it.
type Result struct {
	Root   inspect.Namespace
	Module string   // module path, when the pattern resolved inside a module
	Dirs   []string // source directories of the loaded packages, for watch mode
}

// Load resolves the pattern and its nested packages into one namespace
// tree. A pattern that matches nothing loadable is a fatal error; partial
// load errors inside an otherwise usable package set are logged and
// tolerated.
func (l *Loader) Load(pattern string) (*Result, error) {
	cfg := &packages.Config{Mode: loadMode, Dir: l.Dir}
	pkgs, err := packages.Load(cfg, expandPatterns(pattern)...)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", pattern, err)
	}

	usable := make([]*packages.Package, 0, len(pkgs))
	seen := make(map[string]bool, len(pkgs))
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			slog.Warn("package load error", "package", pkg.PkgPath, "error", e.Msg)
		}
		if pkg.PkgPath == "" || pkg.Types == nil || seen[pkg.PkgPath] {
			continue
		}
		seen[pkg.PkgPath] = true
		usable = append(usable, pkg)
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("no loadable packages matched %q", pattern)
	}

	res := &Result{Root: assemble(usable)}
	dirSeen := make(map[string]bool)
	for _, pkg := range usable {
		if res.Module == "" && pkg.Module != nil {
			res.Module = pkg.Module.Path
		}
		for _, f := range pkg.GoFiles {
			dir := filepath.Dir(f)
			if !dirSeen[dir] {
				dirSeen[dir] = true
				res.Dirs = append(res.Dirs, dir)
			}
		}
	}
	return res, nil
}

// expandPatterns widens a plain package pattern to include its nested
// packages, so the tree has subpackage members to descend into.
func expandPatterns(pattern string) []string {
	if strings.HasSuffix(pattern, "...") {
		return []string{pattern}
	}
	return []string{pattern, strings.TrimSuffix(pattern, "/") + "/..."}
}

// assemble arranges loaded packages into a tree by import path. The root
// is the deepest path every loaded package lives under; path levels with
// no loadable package of their own become structural nodes.
func assemble(pkgs []*packages.Package) inspect.Namespace {
	paths := make([]string, len(pkgs))
	byPath := make(map[string]*packages.Package, len(pkgs))
	for i, pkg := range pkgs {
		paths[i] = pkg.PkgPath
		byPath[pkg.PkgPath] = pkg
	}

	rootPath := commonRoot(paths)
	if rootPath == "" {
		rootPath = shortest(paths)
		slog.Warn("loaded packages share no common root, picking shortest",
			"root", rootPath)
	}

	nodes := map[string]*pkgNamespace{
		rootPath: newPkgNamespace(rootPath, byPath[rootPath]),
	}
	for _, pkg := range pkgs {
		if !strings.HasPrefix(pkg.PkgPath, rootPath+"/") && pkg.PkgPath != rootPath {
			continue
		}
		attach(nodes, rootPath, pkg, byPath)
	}
	return nodes[rootPath]
}

// attach ensures every path level between the root and the package exists
// and is linked to its parent.
func attach(nodes map[string]*pkgNamespace, rootPath string, pkg *packages.Package, byPath map[string]*packages.Package) {
	path := pkg.PkgPath
	if path == rootPath {
		return
	}
	rel := strings.TrimPrefix(path, rootPath+"/")
	parent := nodes[rootPath]
	prefix := rootPath
	for _, seg := range strings.Split(rel, "/") {
		prefix = prefix + "/" + seg
		node, ok := nodes[prefix]
		if !ok {
			node = newPkgNamespace(prefix, byPath[prefix])
			nodes[prefix] = node
		}
		parent.children[seg] = node
		parent = node
	}
}

// commonRoot returns the longest path prefix, whole segments only, shared
// by every path.
func commonRoot(paths []string) string {
	common := strings.Split(paths[0], "/")
	for _, p := range paths[1:] {
		segs := strings.Split(p, "/")
		if len(segs) < len(common) {
			common = common[:len(segs)]
		}
		for i := range common {
			if common[i] != segs[i] {
				common = common[:i]
				break
			}
		}
	}
	return strings.Join(common, "/")
}

func shortest(paths []string) string {
	best := paths[0]
	for _, p := range paths[1:] {
		if len(p) < len(best) {
			best = p
		}
	}
	return best
}
