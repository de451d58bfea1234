package xwfill

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_Partial(t *testing.T) {
	p, err := Parse("#_#\n___\n#_#")
	require.NoError(t, err)

	across := Variable{Row: 1, Col: 0, Dir: Across, Length: 3}
	g := p.Render(Assignment{across: "cat"})

	require.Equal(t, "█ █\ncat\n█ █", g.Repr())
	require.Equal(t, 3, g.Width())
	require.Equal(t, 3, g.Height())
	require.Equal(t, 'a', g.Get(1, 1))
}

func TestRender_Complete(t *testing.T) {
	p, err := Parse("#_#\n___\n#_#")
	require.NoError(t, err)

	across := Variable{Row: 1, Col: 0, Dir: Across, Length: 3}
	down := Variable{Row: 0, Col: 1, Dir: Down, Length: 3}
	g := p.Render(Assignment{across: "car", down: "cat"})

	// The shared cell is written by both words; they agree on 'a'.
	require.Equal(t, "█c█\ncar\n█t█", g.Repr())
}

func TestRender_Empty(t *testing.T) {
	p, err := Parse("__\n##")
	require.NoError(t, err)

	g := p.Render(nil)
	require.Equal(t, "  \n██", g.Repr())
}
