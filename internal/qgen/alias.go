package qgen

import "strconv"

// aliasPrefix namespaces generated join aliases so they cannot collide with
// user table names or hand-written aliases in the enclosing statement.
const aliasPrefix = "__lk"

// AliasGenerator hands out join aliases that are unique within one top-level
// build. Nested hops may join the same physical table several times in a
// single statement, so every hop gets a fresh alias.
//
// A generator is owned by exactly one build invocation and is not safe for
// concurrent use; each invocation creates its own, which keeps generated SQL
// deterministic per call and avoids cross-call collisions.
type AliasGenerator struct {
	prefix string
	n      int
}

// NewAliasGenerator returns a generator with the default prefix.
func NewAliasGenerator() *AliasGenerator {
	return &AliasGenerator{prefix: aliasPrefix}
}

// Next returns the next unique alias.
func (g *AliasGenerator) Next() string {
	a := g.prefix + strconv.Itoa(g.n)
	g.n++
	return a
}
