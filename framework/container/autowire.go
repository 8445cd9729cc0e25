package container

import "strconv"

// Params are caller-supplied values keyed by parameter name, or by the
// parameter's zero-based position written as a decimal string ("0", "1").
// They always win over autowired values.
type Params map[string]any

// lookup returns the override for the parameter at index i. A name match
// takes precedence over a positional match.
func (p Params) lookup(name string, i int) (any, bool) {
	if v, ok := p[name]; ok {
		return v, true
	}
	v, ok := p[strconv.Itoa(i)]
	return v, ok
}

// merge returns the union of ps, later maps winning.
func merge(ps []Params) Params {
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	}
	out := make(Params)
	for _, p := range ps {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}

// dependencyResolver is the part of the Resolver the Autowirer recurses into.
type dependencyResolver interface {
	resolve(typeName string, params Params, useProviders bool) (any, error)
}

// Autowirer builds ordered argument lists for declared constructors and methods.
type Autowirer struct {
	reflector Reflector
	resolver  dependencyResolver
}

// Arguments returns the positional arguments for method on typeName.
//
// For each declared parameter: a manual value is used verbatim; a scalar
// falls back to its default; an object is resolved through the container.
func (a *Autowirer) Arguments(typeName, method string, params Params) ([]any, error) {
	declared, err := a.reflector.DescribeParameters(typeName, method)
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(declared))
	for i, p := range declared {
		if v, ok := params.lookup(p.Name, i); ok {
			args = append(args, v)
			continue
		}

		if p.Kind == KindScalar {
			if !p.Optional {
				return nil, &UnresolvableParameterError{
					Type: typeName, Method: method, Parameter: p.Name, Cause: ErrNoDefault,
				}
			}
			args = append(args, p.Default)
			continue
		}

		v, err := a.resolver.resolve(p.Type, nil, true)
		if err != nil {
			return nil, &UnresolvableParameterError{
				Type: typeName, Method: method, Parameter: p.Name, Cause: err,
			}
		}
		args = append(args, v)
	}
	return args, nil
}
