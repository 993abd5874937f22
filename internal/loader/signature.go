package loader

import (
	"go/types"
	"strings"
)

// formatSignature renders a callable's parameters and results relative to
// its declaring package. Anything that cannot be introspected degrades to
// the empty string rather than failing the build.
func formatSignature(sig *types.Signature, from *types.Package) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	if sig == nil {
		return ""
	}

	qual := types.RelativeTo(from)
	var b strings.Builder

	b.WriteByte('(')
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		p := params.At(i)
		if p.Name() != "" {
			b.WriteString(p.Name())
			b.WriteByte(' ')
		}
		if sig.Variadic() && i == params.Len()-1 {
			if sl, ok := p.Type().(*types.Slice); ok {
				b.WriteString("...")
				b.WriteString(types.TypeString(sl.Elem(), qual))
				continue
			}
		}
		b.WriteString(types.TypeString(p.Type(), qual))
	}
	b.WriteByte(')')

	results := sig.Results()
	switch results.Len() {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(types.TypeString(results.At(0).Type(), qual))
	default:
		b.WriteString(" (")
		for i := 0; i < results.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(types.TypeString(results.At(i).Type(), qual))
		}
		b.WriteByte(')')
	}
	return b.String()
}
