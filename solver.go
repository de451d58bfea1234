package xwfill

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"crosswarped.com/xwfill/pkg/primitives"
)

// Assignment maps slots to the words placed in them. A complete, consistent
// assignment is a solved puzzle.
type Assignment map[Variable]string

// Outcome is the result of a solve: a full assignment was found, the puzzle
// was proven unsolvable, or the search was cut short by the caller's
// context. An aborted search says nothing about solvability.
type Outcome int

const (
	Solved Outcome = iota
	NoSolution
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case NoSolution:
		return "no solution"
	default:
		return "aborted"
	}
}

// Stats counts the work a solve did. Counters are only meaningful for
// single-worker solves; parallel children keep their own.
type Stats struct {
	Branches  int // branch-step invocations
	Revisions int // arc revisions attempted
	Pruned    int // words removed from domains
	Abandoned int // tentative assignments dropped because propagation emptied a domain
}

// SolverParams tunes a Solver beyond its defaults.
type SolverParams struct {
	// DisablePropagation turns off re-running arc consistency after each
	// tentative assignment. Plain backtracking is slower but equivalent.
	DisablePropagation bool
	// Workers > 1 explores the first branch level in parallel, each branch
	// on its own copy of the solver state.
	Workers int
	// Rand, when set, shuffles equally-ranked candidate words. Leave nil
	// for fully deterministic ordering.
	Rand *rand.Rand
}

// Solver fills a puzzle from a vocabulary. It owns the mutable per-slot
// candidate domains; the puzzle itself is never modified. A Solver is good
// for a single Solve call.
type Solver struct {
	puzzle  *Puzzle
	domains map[Variable]*primitives.Domain

	propagate bool
	workers   int
	rng       *rand.Rand

	// trail records every domain removal in order, so any suffix can be
	// undone exactly on backtrack.
	trail []removal
	stats Stats
}

type removal struct {
	v    Variable
	word string
}

// NewSolver seeds every slot's domain with the full vocabulary. Words are
// expected in lowercase a-z (see internal.WordBank); anything else is
// dropped here, since no grid cell can ever hold it.
func NewSolver(p *Puzzle, vocabulary []string, params SolverParams) *Solver {
	usable := make([]string, 0, len(vocabulary))
	for _, w := range vocabulary {
		if isLowerAlpha(w) {
			usable = append(usable, w)
		}
	}

	s := &Solver{
		puzzle:    p,
		domains:   make(map[Variable]*primitives.Domain, len(p.vars)),
		propagate: !params.DisablePropagation,
		workers:   max(params.Workers, 1),
		rng:       params.Rand,
	}
	for _, v := range p.vars {
		s.domains[v] = primitives.NewDomain(usable)
	}
	return s
}

func isLowerAlpha(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Stats returns the counters accumulated so far.
func (s *Solver) Stats() Stats {
	return s.stats
}

// Solve runs node consistency, full arc consistency, and then backtracking
// search. It returns a complete consistent assignment with Solved, or nil
// with NoSolution or Aborted. It never returns a partial assignment.
func (s *Solver) Solve(ctx context.Context) (Assignment, Outcome) {
	s.enforceNodeConsistency()
	if v, empty := s.emptyDomain(); empty {
		log.Debug().Stringer("variable", v).Msg("empty domain after node consistency")
		return nil, NoSolution
	}
	if !s.ac3(s.puzzle.arcs()) {
		log.Debug().Msg("arc consistency proved the puzzle unsolvable")
		return nil, NoSolution
	}
	if ctx.Err() != nil {
		return nil, Aborted
	}
	log.Debug().
		Int("variables", len(s.puzzle.vars)).
		Int("pruned", s.stats.Pruned).
		Msg("domains ready, starting search")

	if s.workers > 1 {
		return s.solveParallel(ctx)
	}

	a := make(Assignment, len(s.puzzle.vars))
	out := s.backtrack(ctx, a)
	log.Debug().
		Int("branches", s.stats.Branches).
		Int("revisions", s.stats.Revisions).
		Stringer("outcome", out).
		Msg("search finished")
	if out != Solved {
		return nil, out
	}
	return a, Solved
}

// enforceNodeConsistency drops every candidate whose length differs from its
// slot's length. A slot may end up with an empty domain; the caller checks.
func (s *Solver) enforceNodeConsistency() {
	for _, v := range s.puzzle.vars {
		for w := range s.domains[v].Words() {
			if len(w) != v.Length {
				s.removeWord(v, w)
			}
		}
	}
}

// removeWord tombstones a candidate and records it on the trail.
func (s *Solver) removeWord(v Variable, w string) {
	if s.domains[v].Remove(w) {
		s.trail = append(s.trail, removal{v: v, word: w})
		s.stats.Pruned++
	}
}

// rollback undoes every removal past the given trail mark, newest first.
func (s *Solver) rollback(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		r := s.trail[i]
		s.domains[r.v].Restore(r.word)
	}
	s.trail = s.trail[:mark]
}

// revise makes x arc-consistent with y: every candidate of x whose overlap
// character has no counterpart among y's candidates is removed. Returns
// whether anything was removed. A no-op for non-crossing pairs.
func (s *Solver) revise(x, y Variable) bool {
	ix, iy, ok := s.puzzle.Overlap(x, y)
	if !ok {
		return false
	}
	s.stats.Revisions++

	seen := primitives.NewCharSet()
	for w := range s.domains[y].Words() {
		seen.Add(rune(w[iy]))
		if seen.IsFull() {
			break
		}
	}
	// Every letter has support at the crossing, so nothing can be pruned.
	if seen.IsFull() {
		return false
	}

	changed := false
	for w := range s.domains[x].Words() {
		if !seen.Contains(rune(w[ix])) {
			s.removeWord(x, w)
			changed = true
		}
	}
	return changed
}

// ac3 processes a worklist of ordered arcs until a fixpoint. It returns
// false as soon as some domain empties, which proves the puzzle unsolvable
// under the current domains. Terminates because domains only shrink.
func (s *Solver) ac3(arcs [][2]Variable) bool {
	queue := append([][2]Variable(nil), arcs...)
	for len(queue) > 0 {
		arc := queue[0]
		queue = queue[1:]

		x, y := arc[0], arc[1]
		if !s.revise(x, y) {
			continue
		}
		if s.domains[x].Size() == 0 {
			return false
		}
		// Shrinking x may have invalidated arcs into x.
		for _, z := range s.puzzle.Neighbors(x) {
			if z != y {
				queue = append(queue, [2]Variable{z, x})
			}
		}
	}
	return true
}

func (s *Solver) emptyDomain() (Variable, bool) {
	for _, v := range s.puzzle.vars {
		if s.domains[v].Size() == 0 {
			return v, true
		}
	}
	return Variable{}, false
}

// selectUnassigned picks the next slot to branch on: smallest live domain,
// ties broken by most neighbors, then by the fixed variable order. Only
// called while unassigned slots remain.
func (s *Solver) selectUnassigned(a Assignment) Variable {
	var best Variable
	found := false
	for _, v := range s.puzzle.vars {
		if _, ok := a[v]; ok {
			continue
		}
		if !found {
			best, found = v, true
			continue
		}
		dv, db := s.domains[v].Size(), s.domains[best].Size()
		if dv < db {
			best = v
		} else if dv == db && len(s.puzzle.neighbors[v]) > len(s.puzzle.neighbors[best]) {
			best = v
		}
	}
	return best
}

// orderValues ranks v's candidates least-constraining first: ascending by
// the number of (neighbor, candidate) pairs the word would rule out among
// unassigned neighbors. Ties keep domain order. Purely a performance hint;
// it never mutates domains.
func (s *Solver) orderValues(v Variable, a Assignment) []string {
	words := s.domains[v].Slice()
	if s.rng != nil {
		s.rng.Shuffle(len(words), func(i, j int) {
			words[i], words[j] = words[j], words[i]
		})
	}

	// Per unassigned neighbor, bucket its live candidates by the letter at
	// the shared cell, so scoring a word is a lookup instead of a scan.
	type crossing struct {
		at     int
		counts [26]int
		total  int
	}
	var crossings []crossing
	for _, n := range s.puzzle.Neighbors(v) {
		if _, ok := a[n]; ok {
			continue
		}
		iv, in, ok := s.puzzle.Overlap(v, n)
		if !ok {
			continue
		}
		c := crossing{at: iv, total: s.domains[n].Size()}
		for w := range s.domains[n].Words() {
			c.counts[w[in]-'a']++
		}
		crossings = append(crossings, c)
	}

	conflicts := make(map[string]int, len(words))
	for _, w := range words {
		n := 0
		for _, c := range crossings {
			n += c.total - c.counts[w[c.at]-'a']
		}
		conflicts[w] = n
	}
	sort.SliceStable(words, func(i, j int) bool {
		return conflicts[words[i]] < conflicts[words[j]]
	})
	return words
}

// consistentWith reports whether placing w in v keeps the assignment
// consistent: w is not already used, and every crossing with an assigned
// neighbor agrees on the shared letter. Lengths are guaranteed by node
// consistency.
func (s *Solver) consistentWith(a Assignment, v Variable, w string) bool {
	for u, uw := range a {
		if u == v {
			continue
		}
		if uw == w {
			return false
		}
		if iv, iu, ok := s.puzzle.Overlap(v, u); ok && w[iv] != uw[iu] {
			return false
		}
	}
	return true
}

// assignPrune narrows domains to reflect a tentative assignment of w to v:
// v's domain collapses to {w} and w disappears from every other slot's
// domain. All removals go on the trail.
func (s *Solver) assignPrune(v Variable, w string) {
	for x := range s.domains[v].Words() {
		if x != w {
			s.removeWord(v, x)
		}
	}
	for _, u := range s.puzzle.vars {
		if u != v {
			s.removeWord(u, w)
		}
	}
}

// backtrack is the branch step. It leaves the assignment and the domains
// exactly as it found them unless it returns Solved.
func (s *Solver) backtrack(ctx context.Context, a Assignment) Outcome {
	if ctx.Err() != nil {
		return Aborted
	}
	s.stats.Branches++

	if len(a) == len(s.puzzle.vars) {
		return Solved
	}

	v := s.selectUnassigned(a)
	for _, w := range s.orderValues(v, a) {
		if !s.consistentWith(a, v, w) {
			continue
		}

		a[v] = w
		mark := len(s.trail)

		collapsed := false
		if s.propagate {
			s.assignPrune(v, w)
			if !s.ac3(s.puzzle.arcsInto(v)) {
				collapsed = true
				s.stats.Abandoned++
			}
		}

		if !collapsed {
			switch out := s.backtrack(ctx, a); out {
			case Solved:
				return Solved
			case Aborted:
				s.rollback(mark)
				delete(a, v)
				return Aborted
			}
		}

		s.rollback(mark)
		delete(a, v)
	}
	return NoSolution
}

// solveParallel explores the first branch level concurrently. Each candidate
// gets an independent copy of the solver state, so the branches share
// nothing mutable; the first branch to finish a fill wins and cancels the
// rest.
func (s *Solver) solveParallel(ctx context.Context) (Assignment, Outcome) {
	root := s.selectUnassigned(Assignment{})
	candidates := s.orderValues(root, Assignment{})
	log.Debug().
		Stringer("variable", root).
		Int("candidates", len(candidates)).
		Int("workers", s.workers).
		Msg("splitting search across workers")

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(s.workers)

	var mu sync.Mutex
	var win Assignment

	for _, w := range candidates {
		g.Go(func() error {
			if cctx.Err() != nil {
				return nil
			}
			child := s.fork()
			a := Assignment{root: w}
			if child.propagate {
				child.assignPrune(root, w)
				if !child.ac3(child.puzzle.arcsInto(root)) {
					return nil
				}
			}
			if child.backtrack(cctx, a) != Solved {
				return nil
			}
			mu.Lock()
			if win == nil {
				win = a
			}
			mu.Unlock()
			cancel()
			return nil
		})
	}
	g.Wait()

	if win != nil {
		return win, Solved
	}
	if ctx.Err() != nil {
		return nil, Aborted
	}
	return nil, NoSolution
}

// fork clones the solver's domains for a branch-local search. The fork is
// always single-worker and keeps no rng, so its value ordering is
// deterministic.
func (s *Solver) fork() *Solver {
	c := &Solver{
		puzzle:    s.puzzle,
		domains:   make(map[Variable]*primitives.Domain, len(s.domains)),
		propagate: s.propagate,
		workers:   1,
	}
	for v, d := range s.domains {
		c.domains[v] = d.Clone()
	}
	return c
}
