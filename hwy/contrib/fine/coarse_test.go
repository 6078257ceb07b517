package fine

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-sparse-strips/hwy"
	"github.com/ajroetker/go-sparse-strips/hwy/contrib/workerpool"
	"github.com/ajroetker/go-sparse-strips/hwy/hwytest"
)

var orange = Color{200, 100, 50, 255}

func renderScene(t *testing.T, ex *Executor, r *Rasterizer) *Pixmap {
	t.Helper()
	pool := workerpool.New(2)
	defer pool.Close()
	p, err := NewPixmap(r.width, r.height)
	require.NoError(t, err)
	require.NoError(t, NewRenderer(ex, pool).Render(p, r.Scene()))
	return p
}

// shape draws the pixmap as text: '#' for c, '.' for transparent and '?'
// for anything else.
func shape(p *Pixmap, c Color) string {
	var sb strings.Builder
	for y := range p.Height {
		for x := range p.Width {
			switch p.At(x, y) {
			case c:
				sb.WriteByte('#')
			case Transparent:
				sb.WriteByte('.')
			default:
				sb.WriteByte('?')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestNewRasterizer(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	for _, size := range [][2]int{{0, 4}, {4, 0}, {-1, 4}, {StripHeight*maxTileX + 1, 4}, {4, StripHeight*sentinelY + 1}} {
		_, err := NewRasterizer(ex, size[0], size[1])
		assert.True(t, hwy.IsInvalidInput(err), "size %v: got %v", size, err)
	}

	r, err := NewRasterizer(ex, 600, 21)
	require.NoError(t, err)
	tiles := r.Scene().Tiles
	require.Len(t, tiles, 3*6)
	assert.Equal(t, WideTile{X: 2, Y: 0}, tiles[2])
	assert.Equal(t, WideTile{X: 0, Y: 1}, tiles[3])
	assert.Equal(t, WideTile{X: 2, Y: 5}, tiles[17])
}

func TestRasterizeRect(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	r, err := NewRasterizer(ex, 16, 12)
	require.NoError(t, err)
	require.NoError(t, r.Fill(rectLines(5, 5, 11, 10), NonZero, orange, SrcOver))

	want := strings.Repeat("................\n", 5) +
		strings.Repeat(".....######.....\n", 5) +
		strings.Repeat("................\n", 2)
	assert.Equal(t, want, shape(renderScene(t, ex, r), orange))
}

func TestRasterizeFillSpans(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	r, err := NewRasterizer(ex, 32, 12)
	require.NoError(t, err)
	require.NoError(t, r.Fill(rectLines(2, 1, 30, 11), NonZero, orange, SrcOver))

	// The middle row has strips only at the vertical edges.
	var fills []Cmd
	for _, cmd := range r.Scene().Tiles[1].Cmds {
		if cmd.Kind == CmdFill {
			fills = append(fills, cmd)
		}
	}
	assert.Equal(t, []Cmd{{Kind: CmdFill, X: 3, Width: 27, Color: orange, Op: SrcOver}}, fills)

	want := "................................\n" +
		strings.Repeat("..############################..\n", 10) +
		"................................\n"
	assert.Equal(t, want, shape(renderScene(t, ex, r), orange))
}

func TestRasterizeFillRules(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	lines := append(rectLines(2, 1, 30, 11), rectLines(10, 2, 20, 10)...)
	solid := "................................\n" +
		strings.Repeat("..############################..\n", 10) +
		"................................\n"
	hole := "................................\n" +
		"..############################..\n" +
		strings.Repeat("..########..........##########..\n", 8) +
		"..############################..\n" +
		"................................\n"

	for rule, want := range map[FillRule]string{NonZero: solid, EvenOdd: hole} {
		r, err := NewRasterizer(ex, 32, 12)
		require.NoError(t, err)
		require.NoError(t, r.Fill(lines, rule, orange, SrcOver))
		assert.Equal(t, want, shape(renderScene(t, ex, r), orange), rule.String())
	}
}

func TestRasterizeAntialiased(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	r, err := NewRasterizer(ex, 12, 8)
	require.NoError(t, err)
	white := Color{255, 255, 255, 255}
	require.NoError(t, r.Fill(rectLines(2.5, 1.25, 9.75, 6.5), NonZero, white, SrcOver))
	p := renderScene(t, ex, r)

	for y := 2; y < 6; y++ {
		assert.Equal(t, Color{128, 128, 128, 128}, p.At(2, y), "half covered column at row %d", y)
		for x := 3; x < 9; x++ {
			assert.Equal(t, white, p.At(x, y))
		}
	}
	for x := 3; x < 9; x++ {
		// Row 1 is three quarters covered, row 6 half covered.
		assert.InDelta(t, 191, int(p.At(x, 1)[3]), 1)
		assert.InDelta(t, 128, int(p.At(x, 6)[3]), 1)
		assert.Equal(t, Transparent, p.At(x, 0))
		assert.Equal(t, Transparent, p.At(x, 7))
	}
}

// The alphas of an antialiased path add up to its area.
func TestRasterizeArea(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	r, err := NewRasterizer(ex, 48, 32)
	require.NoError(t, err)
	triangle := []Line{
		{Point{2, 2}, Point{40, 6}},
		{Point{40, 6}, Point{10, 30}},
		{Point{10, 30}, Point{2, 2}},
	}
	require.NoError(t, r.Fill(triangle, NonZero, Color{255, 255, 255, 255}, SrcOver))
	p := renderScene(t, ex, r)

	var sum float64
	for i := 3; i < len(p.Data); i += 4 {
		sum += float64(p.Data[i]) / 255
	}
	assert.InDelta(t, 516, sum, 2)
}

func TestRasterizeOpaqueFill(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	r, err := NewRasterizer(ex, 256, 16)
	require.NoError(t, err)
	require.NoError(t, r.Fill(rectLines(10, 5, 20, 7), NonZero, Color{0, 0, 9, 9}, SrcOver))
	require.NotEmpty(t, r.Scene().Tiles[1].Cmds)

	// Rows 1 and 2 are covered edge to edge by an opaque color, hiding what
	// was drawn before.
	require.NoError(t, r.Fill(rectLines(-2, 2, 300, 14), NonZero, orange, SrcOver))
	for _, wt := range r.Scene().Tiles[1:3] {
		assert.Equal(t, orange, wt.Background)
		assert.Empty(t, wt.Cmds)
	}
	assert.Equal(t, Transparent, r.Scene().Tiles[0].Background)
	assert.Equal(t, Transparent, r.Scene().Tiles[3].Background)

	p := renderScene(t, ex, r)
	for y := range 16 {
		want := Transparent
		if y >= 2 && y < 14 {
			want = orange
		}
		for x := range 256 {
			if got := p.At(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}

	// Translucent colors and other operators keep the commands.
	r.Reset()
	translucent := Color{0, 0, 100, 100}
	require.NoError(t, r.Fill(rectLines(-2, 2, 300, 14), NonZero, translucent, SrcOver))
	require.NoError(t, r.Fill(rectLines(-2, 2, 300, 14), NonZero, orange, Xor))
	assert.Equal(t, Transparent, r.Scene().Tiles[1].Background)
	assert.Equal(t, []Cmd{
		{Kind: CmdFill, Width: TileWidth, Color: translucent, Op: SrcOver},
		{Kind: CmdFill, Width: TileWidth, Color: orange, Op: Xor},
	}, r.Scene().Tiles[1].Cmds)
}

func TestRasterizerReset(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	r, err := NewRasterizer(ex, 300, 8)
	require.NoError(t, err)
	require.NoError(t, r.Fill(rectLines(-2, 0, 400, 8), NonZero, orange, Copy))
	require.NoError(t, r.Fill(rectLines(1, 1, 3, 3), EvenOdd, Color{1, 2, 3, 4}, Plus))
	require.NotEmpty(t, r.Scene().Alphas)

	r.Reset()
	assert.Empty(t, r.Scene().Alphas)
	for _, wt := range r.Scene().Tiles {
		assert.Equal(t, Transparent, wt.Background)
		assert.Empty(t, wt.Cmds)
	}
	assert.Equal(t, strings.Repeat(strings.Repeat(".", 300)+"\n", 8), shape(renderScene(t, ex, r), orange))
}

func TestRasterizerInvalidFill(t *testing.T) {
	ex := mustExecutor(t, hwy.DispatchScalar)
	r, err := NewRasterizer(ex, 16, 8)
	require.NoError(t, err)
	require.NoError(t, r.Fill(rectLines(1, 1, 3, 3), NonZero, orange, SrcOver))
	alphas := len(r.Scene().Alphas)
	cmds := len(r.Scene().Tiles[0].Cmds)

	nan := float32(math.NaN())
	tests := []struct {
		name  string
		lines []Line
		rule  FillRule
		c     Color
		op    Compose
	}{
		{"nan", []Line{{Point{1, 1}, Point{nan, 3}}}, NonZero, orange, SrcOver},
		{"inf", []Line{{Point{float32(math.Inf(-1)), 1}, Point{2, 3}}}, NonZero, orange, SrcOver},
		{"rule", rectLines(1, 1, 3, 3), FillRule(2), orange, SrcOver},
		{"color", rectLines(1, 1, 3, 3), NonZero, Color{9, 0, 0, 1}, SrcOver},
		{"op", rectLines(1, 1, 3, 3), NonZero, orange, numCompose},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Fill(tt.lines, tt.rule, tt.c, tt.op)
			assert.True(t, hwy.IsInvalidInput(err), "got %v", err)
			assert.Len(t, r.Scene().Alphas, alphas)
			assert.Len(t, r.Scene().Tiles[0].Cmds, cmds)
		})
	}
}

func TestRasterizeEquivalence(t *testing.T) {
	scalar := mustExecutor(t, hwy.DispatchScalar)
	draw := func(t *testing.T, ex *Executor) *Pixmap {
		r, err := NewRasterizer(ex, 300, 37)
		require.NoError(t, err)
		rng := rand.New(rand.NewPCG(13, 13))
		for i := range 12 {
			rule := FillRule(i % 2)
			op := ComposeOps()[rng.IntN(int(numCompose))]
			require.NoError(t, r.Fill(randLines(rng, 3+i%6, 300, 37), rule, randColor(rng), op))
		}
		return renderScene(t, ex, r)
	}
	want := draw(t, scalar)
	hwytest.Run(t, Compiled(), func(t *testing.T, level hwy.DispatchLevel) {
		got := draw(t, mustExecutor(t, level))
		if err := hwytest.EqualBytes("rasterize", want.Data, got.Data); err != nil {
			t.Error(err)
		}
	})
}
