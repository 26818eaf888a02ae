// Package transform filters parsed BibTeX entries against a policy, checks
// their values for suspicious patterns and renders them back as text.
package transform

import (
	"fmt"
	"strings"

	"prebib/src/internal/bibtex"
	"prebib/src/internal/policy"
)

// Banner is the first line of every generated file.
const Banner = "---[ Generated by prebib, DO NOT EDIT ]---"

// Kind classifies a Warning.
type Kind int

const (
	// UndefinedClass means the entry class has no exclusion set.
	UndefinedClass Kind = iota
	// PatternMatch means a field value fired a warning rule.
	PatternMatch
)

func (k Kind) String() string {
	switch k {
	case UndefinedClass:
		return "undefined_class"
	case PatternMatch:
		return "pattern"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal finding about one entry.
type Warning struct {
	Kind    Kind
	Class   string
	Key     string
	Field   string
	Value   string
	Pattern string
}

func (w Warning) String() string {
	if w.Kind == UndefinedClass {
		return fmt.Sprintf("undefined excludes for class '%s'", w.Class)
	}
	return fmt.Sprintf("entry '%s': '%s={%s}' fires warning pattern '%s'", w.Key, w.Field, w.Value, w.Pattern)
}

// Report describes what happened to one entry.
type Report struct {
	Class    string
	Key      string
	Dropped  []string
	Warnings []Warning
}

// Result is the outcome of Process.
type Result struct {
	Output  string
	Entries []bibtex.Entry
	Reports []Report
}

// Warnings returns every warning in entry order.
func (r Result) Warnings() []Warning {
	var out []Warning
	for _, rep := range r.Reports {
		out = append(out, rep.Warnings...)
	}
	return out
}

// Transformer applies a Policy to entries.
type Transformer struct {
	policy *policy.Policy
	banner bool
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithBanner controls whether Process output starts with Banner.
func WithBanner(on bool) Option {
	return func(t *Transformer) { t.banner = on }
}

// New returns a Transformer for p.
func New(p *policy.Policy, opts ...Option) *Transformer {
	t := &Transformer{policy: p, banner: true}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Filter drops the fields excluded for the entry's class. Field order is
// kept. A class without an exclusion set keeps every field and yields an
// UndefinedClass warning.
func (t *Transformer) Filter(e bibtex.Entry) (bibtex.Entry, []string, []Warning) {
	var warns []Warning
	if !t.policy.Known(e.Class) {
		warns = append(warns, Warning{Kind: UndefinedClass, Class: e.Class, Key: e.Key})
	}
	out := bibtex.Entry{Class: e.Class, Key: e.Key}
	var dropped []string
	for name, value := range e.Fields.All() {
		if t.policy.Excluded(e.Class, name) {
			dropped = append(dropped, name)
			continue
		}
		out.Fields.Set(name, value)
	}
	return out, dropped, warns
}

// Check runs the warning rules over fields, one warning per matching
// field/pattern pair, in field then rule order.
func (t *Transformer) Check(key string, fields *bibtex.Fields) []Warning {
	var warns []Warning
	for name, value := range fields.All() {
		for _, r := range t.policy.Rules(name) {
			if r.Match(value) {
				warns = append(warns, Warning{Kind: PatternMatch, Key: key, Field: name, Value: value, Pattern: r.Pattern})
			}
		}
	}
	return warns
}

// Format renders e as a BibTeX block ending in a newline. Every field line,
// including the last, carries a trailing comma.
func Format(e bibtex.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", e.Class, e.Key)
	for name, value := range e.Fields.All() {
		fmt.Fprintf(&b, "    %s = {%s},\n", name, value)
	}
	b.WriteString("}\n")
	return b.String()
}

// StripComments removes lines that begin with '#'.
func StripComments(src string) string {
	lines := strings.SplitAfter(src, "\n")
	var b strings.Builder
	b.Grow(len(src))
	for _, l := range lines {
		if strings.HasPrefix(l, "#") {
			continue
		}
		b.WriteString(l)
	}
	return b.String()
}

// Process runs the whole pipeline over the text of a BibTeX file: comment
// lines are stripped, the rest is parsed, and every entry is filtered,
// checked and formatted. Only parse failures are errors.
func (t *Transformer) Process(src string) (Result, error) {
	entries, err := bibtex.Parse(StripComments(src))
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Entries: make([]bibtex.Entry, 0, len(entries)),
		Reports: make([]Report, 0, len(entries)),
	}
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		filtered, dropped, warns := t.Filter(e)
		warns = append(warns, t.Check(filtered.Key, &filtered.Fields)...)
		res.Entries = append(res.Entries, filtered)
		res.Reports = append(res.Reports, Report{Class: e.Class, Key: e.Key, Dropped: dropped, Warnings: warns})
		blocks = append(blocks, Format(filtered))
	}
	var b strings.Builder
	if t.banner {
		b.WriteString(Banner + "\n\n\n")
	}
	b.WriteString(strings.Join(blocks, "\n"))
	b.WriteString("\n")
	res.Output = b.String()
	return res, nil
}
