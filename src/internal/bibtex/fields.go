package bibtex

import "iter"

// Field is a single name/value pair of an entry.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered mapping from field name to value. Iteration follows
// insertion order. The zero value is ready to use.
type Fields struct {
	list  []Field
	index map[string]int
}

// FieldsOf builds a Fields from pairs, in order.
func FieldsOf(pairs ...Field) Fields {
	var f Fields
	for _, p := range pairs {
		f.Set(p.Name, p.Value)
	}
	return f
}

// Set stores value under name. An existing name keeps its position and
// takes the new value.
func (f *Fields) Set(name, value string) {
	if f.index == nil {
		f.index = map[string]int{}
	}
	if i, ok := f.index[name]; ok {
		f.list[i].Value = value
		return
	}
	f.index[name] = len(f.list)
	f.list = append(f.list, Field{Name: name, Value: value})
}

// Get returns the value stored under name.
func (f *Fields) Get(name string) (string, bool) {
	i, ok := f.index[name]
	if !ok {
		return "", false
	}
	return f.list[i].Value, true
}

// Len reports the number of fields.
func (f *Fields) Len() int { return len(f.list) }

// All yields name/value pairs in insertion order.
func (f *Fields) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range f.list {
			if !yield(p.Name, p.Value) {
				return
			}
		}
	}
}

// Names returns the field names in insertion order.
func (f *Fields) Names() []string {
	out := make([]string, 0, len(f.list))
	for _, p := range f.list {
		out = append(out, p.Name)
	}
	return out
}
