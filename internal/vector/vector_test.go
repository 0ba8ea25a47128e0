package vector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorizeEmpty(t *testing.T) {
	require.Equal(t, TextVector{}, Vectorize(""))
	require.Equal(t, TextVector{}, Vectorize("   \n\t "))
}

func TestVectorizeLayout(t *testing.T) {
	v := Vectorize("Ab cdefgh")
	require.InDelta(t, float64('a')/1000, v[0], 1e-6)
	require.InDelta(t, float64('b')/1000, v[1], 1e-6)
	require.Zero(t, v[2])
	require.InDelta(t, float64('c')/1000, v[5], 1e-6)
	require.InDelta(t, float64('g')/1000, v[9], 1e-6)
	// sixth rune of a token is dropped
	require.Zero(t, v[10])
}

func TestVectorizeCodePointModulo(t *testing.T) {
	// U+09AC (2476) mod 1000 = 476
	v := Vectorize("ব")
	require.InDelta(t, 0.476, v[0], 1e-6)
}

func TestVectorizeIgnoresTokensBeyondLimit(t *testing.T) {
	base := strings.Repeat("word ", 20)
	require.Equal(t, Vectorize(base), Vectorize(base+"extra more tokens"))
}

func TestVectorizeDeterministic(t *testing.T) {
	text := "বাংলাদেশের অর্থনীতি দ্রুত এগিয়ে যাচ্ছে"
	require.Equal(t, Vectorize(text), Vectorize(text))
}

func TestCosine(t *testing.T) {
	v := []float32{0.3, -1.2, 4, 0.01}
	neg := make([]float32, len(v))
	for i := range v {
		neg[i] = -v[i]
	}
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: v, b: v, want: 1},
		{name: "opposite", a: v, b: neg, want: -1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "length mismatch", a: []float32{1, 2}, b: []float32{1, 2, 3}, want: 0},
		{name: "zero magnitude", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosineBounded(t *testing.T) {
	texts := []string{"রাজনীতি ও সরকার", "economy grows fast", "খেলা", "a b c d e f"}
	for _, a := range texts {
		for _, b := range texts {
			va, vb := Vectorize(a), Vectorize(b)
			sim := Cosine(va.Slice(), vb.Slice())
			require.GreaterOrEqual(t, sim, -1.0)
			require.LessOrEqual(t, sim, 1.0)
		}
	}
}
