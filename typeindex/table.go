// Copyright © 2024 The ELPS authors

package typeindex

import "github.com/luthersystems/prettyphp/parser/token"

// Table is a total boolean function over token types, stored densely so a
// lookup is a single array access.
type Table [token.NumTypes]bool

// Of returns a table containing exactly the given types.
func Of(types ...token.Type) Table {
	var t Table
	for _, typ := range types {
		t[typ] = true
	}
	return t
}

// Has reports whether typ is in t.  Types outside the universe are never
// members.
func (t *Table) Has(typ token.Type) bool {
	return int(typ) < len(t) && t[typ]
}

// Union returns the types present in t or in any of others.
func (t Table) Union(others ...Table) Table {
	for i := range others {
		for typ, ok := range others[i] {
			if ok {
				t[typ] = true
			}
		}
	}
	return t
}

// Intersect returns the types present in t and in every one of others.
func (t Table) Intersect(others ...Table) Table {
	for i := range others {
		for typ, ok := range others[i] {
			if !ok {
				t[typ] = false
			}
		}
	}
	return t
}

// Diff returns the types present in t but in none of others.
func (t Table) Diff(others ...Table) Table {
	for i := range others {
		for typ, ok := range others[i] {
			if ok {
				t[typ] = false
			}
		}
	}
	return t
}

// Add returns t with types added.
func (t Table) Add(types ...token.Type) Table {
	return t.Union(Of(types...))
}

// Remove returns t with types removed.
func (t Table) Remove(types ...token.Type) Table {
	return t.Diff(Of(types...))
}

// Types returns the members of t in ascending order.
func (t *Table) Types() []token.Type {
	var types []token.Type
	for typ, ok := range t {
		if ok {
			types = append(types, token.Type(typ))
		}
	}
	return types
}

// Len returns the number of types in t.
func (t *Table) Len() int {
	var n int
	for _, ok := range t {
		if ok {
			n++
		}
	}
	return n
}

// Range returns a table containing every type in [from, to].
func Range(from, to token.Type) Table {
	var t Table
	for typ := from; typ <= to; typ++ {
		t[typ] = true
	}
	return t
}
