package impl

import (
	"maps"
	"slices"
)

type set map[string]struct{}

// relation is a directed graph indexed from both ends, so that "who does a point at" and "who
// points at a" are the same edges and cannot drift apart. Idols and fans, sent and received
// invitations, are each a single relation.
type relation struct {
	out map[string]set
	in  map[string]set
}

func newRelation() *relation {
	return &relation{
		out: make(map[string]set),
		in:  make(map[string]set),
	}
}

// add inserts the edge and reports whether it was new.
func (r *relation) add(from, to string) bool {
	if r.has(from, to) {
		return false
	}
	link(r.out, from, to)
	link(r.in, to, from)
	return true
}

func (r *relation) remove(from, to string) {
	unlink(r.out, from, to)
	unlink(r.in, to, from)
}

func (r *relation) has(from, to string) bool {
	_, ok := r.out[from][to]
	return ok
}

// from returns the targets of node in ascending order.
func (r *relation) from(node string) []string {
	return sorted(r.out[node])
}

// to returns the sources pointing at node in ascending order.
func (r *relation) to(node string) []string {
	return sorted(r.in[node])
}

// dropFrom removes every edge leaving node.
func (r *relation) dropFrom(node string) {
	for to := range r.out[node] {
		unlink(r.in, to, node)
	}
	delete(r.out, node)
}

// dropTo removes every edge arriving at node.
func (r *relation) dropTo(node string) {
	for from := range r.in[node] {
		unlink(r.out, from, node)
	}
	delete(r.in, node)
}

// drop removes node from the relation entirely.
func (r *relation) drop(node string) {
	r.dropFrom(node)
	r.dropTo(node)
}

func (r *relation) clone() *relation {
	return &relation{
		out: cloneIndex(r.out),
		in:  cloneIndex(r.in),
	}
}

func link(index map[string]set, a, b string) {
	s, ok := index[a]
	if !ok {
		s = make(set)
		index[a] = s
	}
	s[b] = struct{}{}
}

func unlink(index map[string]set, a, b string) {
	s, ok := index[a]
	if !ok {
		return
	}
	delete(s, b)
	if len(s) == 0 {
		delete(index, a)
	}
}

func cloneIndex(index map[string]set) map[string]set {
	c := make(map[string]set, len(index))
	for k, s := range index {
		c[k] = maps.Clone(s)
	}
	return c
}

func sorted(s set) []string {
	return slices.Sorted(maps.Keys(s))
}
