package llconfig

import (
	"regexp"
	"strings"

	"github.com/landlock-lsm/landlockconfig/llerr"
)

var (
	variableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	varRefRe       = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
)

// tomlVariable is one `[[variable]]` entry.
type tomlVariable struct {
	Name    string   `toml:"name"`
	Literal []string `toml:"literal"`
}

// collectVariables builds the name -> value-sequence map for one
// document (spec §3.3). Names must be unique and well-formed within a
// single document; cross-document unioning of same-named variables is
// the composer's job (§4.4), not this function's.
func collectVariables(entries []tomlVariable) (map[string][]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	vars := make(map[string][]string, len(entries))
	for _, v := range entries {
		if !variableNameRe.MatchString(v.Name) {
			return nil, llerr.Newf(llerr.Schema, "invalid variable name %q: must match [A-Za-z_][A-Za-z0-9_]*", v.Name)
		}
		if _, dup := vars[v.Name]; dup {
			return nil, llerr.Newf(llerr.Schema, "duplicate variable name %q", v.Name)
		}
		if len(v.Literal) == 0 {
			return nil, llerr.Newf(llerr.Schema, "variable %q has no literal values", v.Name)
		}
		for _, lit := range v.Literal {
			if varRefRe.MatchString(lit) {
				return nil, llerr.Newf(llerr.Vocabulary, "variable %q must not nest another variable reference in %q", v.Name, lit)
			}
		}
		vars[v.Name] = v.Literal
	}
	return vars, nil
}

// tomlRawParent is a `parent` array element before variable expansion:
// either a literal string (possibly containing "${name}" references)
// or an integer fd, which passes through expansion untouched.
type tomlRawParent struct {
	Str   string
	Int   int64
	IsInt bool
}

func (p *tomlRawParent) UnmarshalTOML(value interface{}) error {
	switch v := value.(type) {
	case string:
		p.Str = v
	case int64:
		p.IsInt = true
		p.Int = v
	default:
		return llerr.Newf(llerr.Schema, "parent entry must be a string or integer, got %T", value)
	}
	return nil
}

// expandParents expands every `parent` string entry against vars,
// splicing multi-element variable references into separate entries in
// order, and passes fd entries through unchanged.
func expandParents(raw []tomlRawParent, vars map[string][]string) ([]ParentToken, error) {
	var out []ParentToken
	for _, r := range raw {
		if r.IsInt {
			out = append(out, ParentToken{FD: int(r.Int), IsFD: true})
			continue
		}
		expanded, err := expandVariableString(r.Str, vars)
		if err != nil {
			return nil, err
		}
		for _, s := range expanded {
			out = append(out, ParentToken{Path: s})
		}
	}
	return out, nil
}

// expandVariableString expands every "${name}" reference in s. A
// string with no reference expands to itself. A string that is
// exactly "${name}" splices the variable's whole sequence in place. A
// string with "${name}" embedded in a larger literal is emitted once
// per element of the variable, substituting textually. Referencing
// more than one distinct variable name from the same string is not
// supported (spec §9: variables are deliberately not a templating
// language).
func expandVariableString(s string, vars map[string][]string) ([]string, error) {
	matches := varRefRe.FindAllStringSubmatch(s, -1)
	if matches == nil {
		return []string{s}, nil
	}

	names := make(map[string]bool, 1)
	for _, m := range matches {
		names[m[1]] = true
	}
	if len(names) > 1 {
		return nil, llerr.Newf(llerr.Vocabulary, "string %q references more than one variable", s)
	}
	var name string
	for n := range names {
		name = n
	}

	values, ok := vars[name]
	if !ok {
		return nil, llerr.Newf(llerr.Vocabulary, "undefined variable ${%s}", name)
	}

	placeholder := "${" + name + "}"
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ReplaceAll(s, placeholder, v)
	}
	return out, nil
}
