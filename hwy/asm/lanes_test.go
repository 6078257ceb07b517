package asm

import (
	"testing"
)

func TestUint32x4Arithmetic(t *testing.T) {
	a := LoadUint32x4Slice([]uint32{10, 20, 300, 4000})
	b := BroadcastUint32x4(7)

	check := func(name string, v Uint32x4, want func(x uint32) uint32) {
		t.Helper()
		in := [4]uint32{10, 20, 300, 4000}
		var got [4]uint32
		v.StoreSlice(got[:])
		for i := range got {
			if w := want(in[i]); got[i] != w {
				t.Errorf("%s: lane %d: got %v, want %v", name, i, got[i], w)
			}
		}
	}
	check("Add", a.Add(b), func(x uint32) uint32 { return x + 7 })
	check("Sub", a.Sub(b), func(x uint32) uint32 { return x - 7 })
	check("Mul", a.Mul(b), func(x uint32) uint32 { return x * 7 })
	check("Min", a.Min(b), func(x uint32) uint32 { return min(x, 7) })
	check("ShiftAllRight", a.ShiftAllRight(2), func(x uint32) uint32 { return x >> 2 })

	// Operations return new values.
	if a.Get(0) != 10 {
		t.Errorf("Add modified its receiver: got %v", a)
	}
}

func div255(x uint32) uint32 {
	return (x + 1 + (x >> 8)) >> 8
}

func TestDiv255x4(t *testing.T) {
	for x := uint32(0); x <= 255*255; x += 4 {
		in := [4]uint32{x, x + 1, x + 2, x + 3}
		got := Div255x4(LoadUint32x4Slice(in[:]))
		for i := range in {
			if want := div255(in[i]); got.Get(i) != want {
				t.Fatalf("Div255x4(%d): got %d, want %d", in[i], got.Get(i), want)
			}
			if want := in[i] / 255; got.Get(i) != want {
				t.Fatalf("Div255x4(%d): got %d, want exact quotient %d", in[i], got.Get(i), want)
			}
		}
	}
}

func TestRGBA8x4RoundTrip(t *testing.T) {
	px := make([]byte, 16)
	for i := range px {
		px[i] = byte(i*37 + 11)
	}
	r, g, b, a := LoadRGBA8x4(px)
	for i := range 4 {
		if a.Get(i) != uint32(px[4*i+3]) || r.Get(i) != uint32(px[4*i]) {
			t.Errorf("LoadRGBA8x4: pixel %d: got r=%d a=%d", i, r.Get(i), a.Get(i))
		}
	}
	out := make([]byte, 16)
	StoreRGBA8x4(out, r, g, b, a)
	for i := range out {
		if out[i] != px[i] {
			t.Errorf("RGBA8x4: byte %d: got %v, want %v", i, out[i], px[i])
		}
	}

	v := BroadcastUint32x4(0x1ff)
	StoreRGBA8x4(out, v, v, v, v)
	for i, b := range out {
		if b != 0xff {
			t.Errorf("StoreRGBA8x4: byte %d: got %#x, want 0xff", i, b)
		}
	}
	m4 := BroadcastMask4([]byte{9, 8, 7, 6})
	if m4.Get(0) != 9 || m4.Get(3) != 6 {
		t.Errorf("BroadcastMask4: got %v", m4)
	}
}
