package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_AddPointClipsEars(t *testing.T) {
	w := wrapRing(0, Square())
	c := newChain(w[3], w[0])
	assert.Equal(t, chainInterval{upper: 1, lower: 0}, c.intervalAt(0))

	triangles := c.addPoint(w[1], widder)
	assert.Equal(t, []Triangle{{3, 0, 1}}, triangles)
	assert.Equal(t, []*wrappedPoint{w[3], w[1]}, c.points)
	assert.Equal(t, w[1], c.posxPoint())

	// A clockwise turn leaves the chain alone
	c = newChain(w[1], w[0])
	assert.Empty(t, c.addPoint(w[3], widder))
	assert.Equal(t, []*wrappedPoint{w[1], w[0], w[3]}, c.points)
	assert.Equal(t, 2, c.posxIndex)
}

func TestChainSet_Nearest(t *testing.T) {
	w := wrapRing(0, Square())
	cs := newChainSet(len(w))
	c := cs.create(w[0])

	// The upper left corner is on the chain's deasil edge, so the chain is
	// below it
	deasilChain, widderChain := cs.nearest(w[3])
	assert.Nil(t, deasilChain)
	assert.Equal(t, c, widderChain)

	// The lower right corner continues the widder edge, so the chain is above
	deasilChain, widderChain = cs.nearest(w[1])
	assert.Equal(t, c, deasilChain)
	assert.Nil(t, widderChain)

	cs.extend(c, w[3], deasil)
	cs.extend(c, w[1], widder)
	require.Len(t, cs.triangles, 1)
	deasilChain, widderChain = cs.nearest(w[2])
	assert.Equal(t, c, deasilChain)
	assert.Equal(t, c, widderChain)
	cs.validate()
}
