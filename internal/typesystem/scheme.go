package typesystem

// Origin records where a scheme was declared, for overload diagnostics.
// Domain is set for schemes declared inside a domain block.
type Origin struct {
	Module string
	Domain string
}

// Render formats the origin as "module.domain", or just the module name
// when no domain is involved.
func (o Origin) Render() string {
	if o.Domain != "" {
		return o.Module + "." + o.Domain
	}
	return o.Module
}

// Scheme is a possibly-polymorphic type. Vars lists the variables that are
// replaced with fresh ones at every use site; instantiating the same scheme
// twice never shares variables.
type Scheme struct {
	Vars   []VarID
	Body   Type
	Origin *Origin
}

// Mono wraps a type as a scheme with nothing quantified.
func Mono(t Type) Scheme {
	return Scheme{Body: t}
}

// FreeTypeVariables returns the body's free variables minus the quantified
// ones.
func (s Scheme) FreeTypeVariables() []VarID {
	quantified := make(map[VarID]bool, len(s.Vars))
	for _, v := range s.Vars {
		quantified[v] = true
	}
	var out []VarID
	for _, id := range s.Body.FreeTypeVariables() {
		if !quantified[id] {
			out = append(out, id)
		}
	}
	return out
}

// OriginLabel renders the scheme's origin, or a placeholder when the
// scheme is builtin or synthesized.
func (s Scheme) OriginLabel() string {
	if s.Origin == nil {
		return "<builtin>"
	}
	return s.Origin.Render()
}
