// Package policy holds the built-in field exclusion and warning tables.
package policy

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var builtin []byte

// Rule flags values of Field that match Pattern from their first character.
type Rule struct {
	Field   string
	Pattern string
	re      *regexp.Regexp
}

// Match reports whether v matches the rule. The match is anchored at the
// start of v but need not consume all of it.
func (r Rule) Match(v string) bool { return r.re.MatchString(v) }

// Policy is an immutable pair of tables: fields to drop per class, and
// warning rules per field.
type Policy struct {
	excludes map[string]map[string]bool
	rules    map[string][]Rule
}

// Default returns the built-in policy.
var Default = sync.OnceValue(func() *Policy {
	p, err := parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("policy: built-in table: %v", err))
	}
	return p
})

type document struct {
	Excludes map[string][]string `yaml:"excludes"`
	Warnings map[string][]string `yaml:"warnings"`
}

func parse(data []byte) (*Policy, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}
	p := &Policy{
		excludes: make(map[string]map[string]bool, len(doc.Excludes)),
		rules:    make(map[string][]Rule, len(doc.Warnings)),
	}
	for class, fields := range doc.Excludes {
		set := make(map[string]bool, len(fields))
		for _, f := range fields {
			set[f] = true
		}
		p.excludes[class] = set
	}
	for field, pats := range doc.Warnings {
		for _, pat := range pats {
			re, err := regexp.Compile(`^(?:` + pat + `)`)
			if err != nil {
				return nil, fmt.Errorf("warning pattern %q for field %q: %w", pat, field, err)
			}
			p.rules[field] = append(p.rules[field], Rule{Field: field, Pattern: pat, re: re})
		}
	}
	return p, nil
}

// Known reports whether class has an exclusion set.
func (p *Policy) Known(class string) bool {
	_, ok := p.excludes[class]
	return ok
}

// Excluded reports whether field is dropped for class. Unknown classes drop
// nothing.
func (p *Policy) Excluded(class, field string) bool { return p.excludes[class][field] }

// Exclusions returns the sorted exclusion set of class.
func (p *Policy) Exclusions(class string) []string {
	out := make([]string, 0, len(p.excludes[class]))
	for f := range p.excludes[class] {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Classes returns the known classes, sorted.
func (p *Policy) Classes() []string {
	out := make([]string, 0, len(p.excludes))
	for c := range p.excludes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Rules returns the warning rules for field in table order.
func (p *Policy) Rules(field string) []Rule { return slices.Clone(p.rules[field]) }
