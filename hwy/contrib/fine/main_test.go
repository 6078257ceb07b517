package fine

import (
	"testing"

	"github.com/ajroetker/go-sparse-strips/hwy/hwytest"
)

func TestMain(m *testing.M) {
	hwytest.Main(m, Compiled())
}
