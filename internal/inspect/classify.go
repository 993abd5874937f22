package inspect

import "strings"

// Class is the visibility classification of a bare name.
type Class int

const (
	Public Class = iota
	Private
	Magic
)

func (c Class) String() string {
	switch c {
	case Private:
		return "private"
	case Magic:
		return "magic"
	default:
		return "public"
	}
}

// Classify applies the delimiter rules: a name wrapped in double
// underscores is magic, a name with a single leading underscore is
// private, everything else is public.
func Classify(name string) Class {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return Magic
	}
	if strings.HasPrefix(name, "_") {
		return Private
	}
	return Public
}

// Filter selects which classes of names are admitted into the tree.
// Public names always pass.
type Filter struct {
	Private bool
	Magic   bool
}

// Admits reports whether a name of the given class passes the filter.
func (f Filter) Admits(c Class) bool {
	switch c {
	case Private:
		return f.Private
	case Magic:
		return f.Magic
	default:
		return true
	}
}
