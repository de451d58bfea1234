package primitives

import "iter"

// Domain is the set of candidate words still viable for a single slot.
//
// Words keep the order they were added in, and removal never reorders the
// survivors: a removed word is tombstoned in place, so a later Restore puts
// the domain back byte-for-byte. This is what makes the solver's undo log
// exact on backtrack.
type Domain struct {
	words []string
	alive []bool
	index map[string]int
	size  int
}

// NewDomain builds a domain from a word list. Duplicate words are kept once;
// the first occurrence wins the position.
func NewDomain(words []string) *Domain {
	d := &Domain{
		words: make([]string, 0, len(words)),
		alive: make([]bool, 0, len(words)),
		index: make(map[string]int, len(words)),
	}
	for _, w := range words {
		if _, ok := d.index[w]; ok {
			continue
		}
		d.index[w] = len(d.words)
		d.words = append(d.words, w)
		d.alive = append(d.alive, true)
		d.size++
	}
	return d
}

// Size returns the number of live candidates.
func (d *Domain) Size() int {
	return d.size
}

// Has reports whether w is a live candidate.
func (d *Domain) Has(w string) bool {
	i, ok := d.index[w]
	return ok && d.alive[i]
}

// Remove tombstones w. It returns false if w was not a live candidate.
func (d *Domain) Remove(w string) bool {
	i, ok := d.index[w]
	if !ok || !d.alive[i] {
		return false
	}
	d.alive[i] = false
	d.size--
	return true
}

// Restore revives a previously removed word. It returns false if w was never
// in the domain or is already live.
func (d *Domain) Restore(w string) bool {
	i, ok := d.index[w]
	if !ok || d.alive[i] {
		return false
	}
	d.alive[i] = true
	d.size++
	return true
}

// Words iterates the live candidates in their original order. Removing the
// word currently yielded, or any other word, is safe during iteration.
func (d *Domain) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i, w := range d.words {
			if !d.alive[i] {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}
}

// Slice returns the live candidates as a fresh slice in their original order.
func (d *Domain) Slice() []string {
	out := make([]string, 0, d.size)
	for w := range d.Words() {
		out = append(out, w)
	}
	return out
}

// First returns the first live candidate, or "" if the domain is empty.
func (d *Domain) First() string {
	for w := range d.Words() {
		return w
	}
	return ""
}

// Clone returns an independent copy sharing no mutable state, for
// branch-local exploration.
func (d *Domain) Clone() *Domain {
	c := &Domain{
		words: d.words,
		alive: make([]bool, len(d.alive)),
		index: d.index,
		size:  d.size,
	}
	copy(c.alive, d.alive)
	return c
}
