package fine

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectLines(x0, y0, x1, y1 float32) []Line {
	return []Line{
		{Point{x0, y0}, Point{x1, y0}},
		{Point{x1, y0}, Point{x1, y1}},
		{Point{x1, y1}, Point{x0, y1}},
		{Point{x0, y1}, Point{x0, y0}},
	}
}

func randLines(rng *rand.Rand, n int, w, h float32) []Line {
	lines := make([]Line, 0, n)
	first := Point{rng.Float32() * w, rng.Float32() * h}
	p := first
	for range n - 1 {
		q := Point{rng.Float32()*(w+20) - 10, rng.Float32()*(h+20) - 10}
		switch rng.IntN(6) {
		case 0:
			q.X = p.X
		case 1:
			q.Y = p.Y
		case 2:
			q.X = float32(math.Round(float64(q.X)))
		}
		lines = append(lines, Line{p, q})
		p = q
	}
	return append(lines, Line{p, first})
}

func TestFootprint(t *testing.T) {
	var empty footprint
	assert.Equal(t, uint32(32), empty.x0())
	assert.Equal(t, uint32(0), empty.x1())

	for _, i := range []uint32{0, 3, 6} {
		fp := footprintIndex(i)
		assert.Equal(t, i, fp.x0())
		assert.Equal(t, i+1, fp.x1())
	}

	fp := footprintRange(1, 3)
	assert.Equal(t, uint32(1), fp.x0())
	assert.Equal(t, uint32(3), fp.x1())
	assert.Zero(t, footprintRange(2, 2))

	fp = footprintRange(2, 4) | footprintRange(5, 6)
	assert.Equal(t, uint32(2), fp.x0())
	assert.Equal(t, uint32(6), fp.x1())
}

func TestTileFootprint(t *testing.T) {
	tile := func(x0, y0, x1, y1 float32) *LineTile {
		return &LineTile{P0: Point{scaleUp(x0), scaleUp(y0)}, P1: Point{scaleUp(x1), scaleUp(y1)}}
	}
	// A line on the right edge touches no column of the cell.
	assert.Zero(t, tile(1, 0, 1, 1).footprint())

	tests := []struct {
		tile   *LineTile
		x0, x1 uint32
	}{
		{tile(0.5, 0, 0.55, 1), 2, 3},
		{tile(0.1, 0, 0.6, 1), 0, 3},
		{tile(0, 0, 1, 1), 0, 4},
		{tile(0.74, 0, 1.76, 1), 2, 4},
	}
	for _, tt := range tests {
		fp := tt.tile.footprint()
		assert.Equal(t, tt.x0, fp.x0(), "x0 of %+v", *tt.tile)
		assert.Equal(t, tt.x1, fp.x1(), "x1 of %+v", *tt.tile)
	}
}

func TestTileDelta(t *testing.T) {
	down := LineTile{P0: Point{1, 0}, P1: Point{1, StripHeight}}
	up := LineTile{P0: Point{1, StripHeight}, P1: Point{1, 0}}
	inside := LineTile{P0: Point{1, 1}, P1: Point{2, 3}}
	assert.Equal(t, int32(-1), down.delta())
	assert.Equal(t, int32(1), up.delta())
	assert.Equal(t, int32(0), inside.delta())
}

func TestMakeTilesSquare(t *testing.T) {
	tiles := MakeTiles(nil, rectLines(1, 1, 3, 3))
	require.Len(t, tiles, 6)
	for _, tile := range tiles[:4] {
		assert.Equal(t, int32(0), tile.X)
		assert.Equal(t, uint16(0), tile.Y)
	}
	assert.Equal(t, Point{1, 1}, tiles[0].P0)
	assert.Equal(t, Point{3, 1}, tiles[0].P1)
	assert.Equal(t, LineTile{X: 0x3ffd, Y: sentinelY}, tiles[4])
	assert.Equal(t, LineTile{X: 0x3fff, Y: sentinelY}, tiles[5])
}

func TestMakeTilesCrossings(t *testing.T) {
	// A vertical line through three rows of cells.
	tiles := MakeTiles(nil, []Line{{Point{5, 2}, Point{5, 10}}})
	require.Len(t, tiles, 5)
	for i, tile := range tiles[:3] {
		assert.Equal(t, int32(1), tile.X)
		assert.Equal(t, uint16(i), tile.Y)
		assert.InDelta(t, 1, tile.P0.X, 1e-3)
		assert.InDelta(t, 1, tile.P1.X, 1e-3)
	}
	assert.Equal(t, float32(2), tiles[0].P0.Y)
	assert.Equal(t, float32(StripHeight), tiles[0].P1.Y)
	assert.Equal(t, float32(0), tiles[1].P0.Y)
	assert.Equal(t, float32(StripHeight), tiles[1].P1.Y)
	assert.Equal(t, float32(0), tiles[2].P0.Y)
	assert.Equal(t, float32(2), tiles[2].P1.Y)

	// A horizontal line entering cells through their left edge.
	tiles = MakeTiles(nil, []Line{{Point{1, 1}, Point{10, 1}}})
	require.Len(t, tiles, 5)
	for i, tile := range tiles[:3] {
		assert.Equal(t, int32(i), tile.X)
		assert.Equal(t, uint16(0), tile.Y)
	}
	assert.Equal(t, float32(0), tiles[1].P0.X)
	assert.Equal(t, float32(0), tiles[2].P0.X)
}

func TestMakeTilesClipping(t *testing.T) {
	// Cells above the pixmap are dropped, cells left of it collapse into
	// column -1.
	tiles := MakeTiles(nil, []Line{{Point{-50, -10}, Point{-50, 6}}})
	require.Len(t, tiles, 4)
	for _, tile := range tiles[:2] {
		assert.Equal(t, int32(-1), tile.X)
	}
	assert.Equal(t, uint16(0), tiles[0].Y)
	assert.Equal(t, uint16(1), tiles[1].Y)

	tiles = MakeTiles(nil, []Line{{Point{1e9, 1}, Point{1e9, 3}}})
	require.Len(t, tiles, 3)
	assert.Equal(t, int32(maxTileX), tiles[0].X)
}

// Rounding may step the grid walk past its last cell; the walk must
// still end.
func TestMakeTilesTerminates(t *testing.T) {
	tiles := MakeTiles(nil, []Line{{Point{22, 552}, Point{224, 388}}})
	assert.True(t, tilesSorted(tiles))
	assert.Greater(t, len(tiles), 2)
}

func TestMakeTilesSorted(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	prefix := []LineTile{{X: 7, Y: 7}}
	for range 50 {
		tiles := MakeTiles(prefix, randLines(rng, 12, 100, 60))
		assert.Equal(t, prefix[0], tiles[0], "MakeTiles must append")
		body := tiles[1:]
		require.True(t, tilesSorted(body))
		n := len(body)
		require.GreaterOrEqual(t, n, 2)
		assert.Equal(t, uint16(sentinelY), body[n-1].Y)
		assert.Equal(t, uint16(sentinelY), body[n-2].Y)
		for _, tile := range body[:n-2] {
			assert.Less(t, tile.Y, uint16(sentinelY))
			assert.GreaterOrEqual(t, tile.X, int32(-1))
			for _, v := range []float32{tile.P0.X, tile.P0.Y, tile.P1.X, tile.P1.Y} {
				assert.True(t, v >= -1e-3 && v <= StripHeight+1e-3, "tile %+v leaves its cell", tile)
			}
		}
	}
}
