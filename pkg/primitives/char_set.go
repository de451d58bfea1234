package primitives

// CharSet efficiently represents a set of characters over the solver's
// alphabet, the lowercase ASCII letters a through z.
type CharSet struct {
	available []bool
	min       rune
	count     int
}

// NewCharSet returns an empty set.
func NewCharSet() *CharSet {
	return &CharSet{
		available: make([]bool, 'z'-'a'+1),
		min:       'a',
		count:     0,
	}
}

// Add puts a character in the set. Characters outside a-z are ignored.
func (c *CharSet) Add(r rune) {
	if r < c.min || r > c.min+rune(len(c.available)-1) {
		return
	}

	if c.available[r-c.min] {
		return
	}

	c.count++
	c.available[r-c.min] = true
}

// Contains checks if a character is in the set.
func (c *CharSet) Contains(r rune) bool {
	if r < c.min || r > c.min+rune(len(c.available)-1) {
		return false
	}
	return c.available[r-c.min]
}

// IsFull checks if every letter of the alphabet is in the set.
func (c *CharSet) IsFull() bool {
	return c.count == len(c.available)
}
