package policy

import (
	"reflect"
	"strings"
	"testing"
)

func TestDefaultExclusions(t *testing.T) {
	p := Default()
	want := map[string][]string{
		"book":          {},
		"article":       {"abstract", "location", "publisher"},
		"techreport":    {"abstract", "location", "publisher"},
		"inproceedings": {"abstract", "location", "publisher"},
		"incollection":  {"abstract", "location", "publisher"},
	}
	if got := p.Classes(); len(got) != len(want) {
		t.Fatalf("classes: %v", got)
	}
	for class, fields := range want {
		if !p.Known(class) {
			t.Fatalf("%s should be known", class)
		}
		if got := p.Exclusions(class); !reflect.DeepEqual(got, fields) {
			t.Fatalf("%s exclusions: got %v want %v", class, got, fields)
		}
	}
	if !p.Excluded("article", "abstract") || p.Excluded("book", "publisher") {
		t.Fatalf("unexpected Excluded results")
	}
}

func TestUnknownClassExcludesNothing(t *testing.T) {
	p := Default()
	if p.Known("misc") {
		t.Fatalf("misc should not be known")
	}
	if p.Excluded("misc", "abstract") || len(p.Exclusions("misc")) != 0 {
		t.Fatalf("unknown class must exclude nothing")
	}
}

func TestRulesMatchFromStart(t *testing.T) {
	rs := Default().Rules("booktitle")
	if len(rs) != 2 || rs[0].Pattern != `.*Proc\.` || rs[1].Pattern != ".*Proceedings" {
		t.Fatalf("booktitle rules: %+v", rs)
	}
	if !rs[0].Match("Proc. of XYZ") || !rs[0].Match("In Proc. of XYZ") {
		t.Fatalf("expected .*Proc\\. to match")
	}
	if rs[0].Match("Process Algebra") {
		t.Fatalf("unexpected match without the dot")
	}
	if len(Default().Rules("title")) != 0 {
		t.Fatalf("title has no rules")
	}
}

func TestRuleIsPrefixAnchored(t *testing.T) {
	p, err := parse([]byte("warnings:\n  note: ['Draft']\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := p.Rules("note")[0]
	if !r.Match("Draft version") {
		t.Fatalf("prefix should match")
	}
	if r.Match("Final Draft") {
		t.Fatalf("match must start at the beginning of the value")
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	p := Default()
	rs := p.Rules("author")
	rs[0].Pattern = "changed"
	if p.Rules("author")[0].Pattern == "changed" {
		t.Fatalf("Rules must not expose the table")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := parse([]byte("warnings:\n  title: ['(unclosed']\n")); err == nil || !strings.Contains(err.Error(), "title") {
		t.Fatalf("expected bad pattern error, got %v", err)
	}
	if _, err := parse([]byte("unknown: 1\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
