// Package bibtex reads BibTeX text into entries with ordered fields.
package bibtex

// Entry is one parsed BibTeX record.
type Entry struct {
	Class  string // lowercased entry type, e.g. "article"
	Key    string
	Fields Fields
}
