package fine

import (
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/ajroetker/go-sparse-strips/hwy/hwytest"
)

func loadGolden(t *testing.T) map[string][]string {
	t.Helper()
	ar, err := txtar.ParseFile("testdata/golden.txtar")
	if err != nil {
		t.Fatal(err)
	}
	sections := make(map[string][]string)
	for _, f := range ar.Files {
		for _, line := range strings.Split(string(f.Data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				sections[f.Name] = append(sections[f.Name], line)
			}
		}
	}
	return sections
}

func parseBytes(t *testing.T, s string) []byte {
	t.Helper()
	var out []byte
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' }) {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			t.Fatalf("bad byte %q: %v", f, err)
		}
		out = append(out, byte(v))
	}
	return out
}

func parseCase(t *testing.T, line string) (Compose, Color, []string) {
	t.Helper()
	fields := strings.Split(line, "|")
	head := strings.Fields(fields[0])
	op, err := ParseCompose(head[0])
	if err != nil {
		t.Fatal(err)
	}
	return op, Color([4]byte(parseBytes(t, head[1]))), fields[1:]
}

func TestGoldenFill(t *testing.T) {
	for _, line := range loadGolden(t)["fill.txt"] {
		op, c, rest := parseCase(t, line)
		dst, want := parseBytes(t, rest[0]), parseBytes(t, rest[1])
		for _, level := range hwytest.Levels(t, Compiled()) {
			ex := mustExecutor(t, level)
			got := append([]byte(nil), dst...)
			if err := ex.ComposeFill(got, c, op); err != nil {
				t.Fatalf("%s %s: %v", level, line, err)
			}
			if err := hwytest.EqualBytes(level.String()+" fill "+op.String(), want, got); err != nil {
				t.Error(err)
			}
		}
	}
}

func TestGoldenMask(t *testing.T) {
	for _, line := range loadGolden(t)["mask.txt"] {
		op, c, rest := parseCase(t, line)
		dst, mask, want := parseBytes(t, rest[0]), parseBytes(t, rest[1]), parseBytes(t, rest[2])
		for _, level := range hwytest.Levels(t, Compiled()) {
			ex := mustExecutor(t, level)
			got := append([]byte(nil), dst...)
			if err := ex.ComposeMask(got, c, mask, op); err != nil {
				t.Fatalf("%s %s: %v", level, line, err)
			}
			if err := hwytest.EqualBytes(level.String()+" mask "+op.String(), want, got); err != nil {
				t.Error(err)
			}
		}
	}
}

func TestGoldenCoverage(t *testing.T) {
	for _, line := range loadGolden(t)["coverage.txt"] {
		f := strings.Fields(line)
		rule := NonZero
		if f[0] == "evenodd" {
			rule = EvenOdd
		}
		area, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			t.Fatal(err)
		}
		want := parseBytes(t, f[2])
		got := make([]byte, 1)
		if err := CoverageToAlpha(got, []float64{area}, rule); err != nil {
			t.Fatal(err)
		}
		if got[0] != want[0] {
			t.Errorf("CoverageToAlpha(%v, %s): got %d, want %d", area, rule, got[0], want[0])
		}
	}
}
