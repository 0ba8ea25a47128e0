package vector

import (
	"math"
	"strings"
)

const (
	// Dim is the width of every TextVector.
	Dim = 100

	maxTokens        = 20
	maxRunesPerToken = 5
)

type TextVector [Dim]float32

// Vectorize hashes text into a fixed-width vector. It is a cheap, non-linguistic
// encoding: only the first 20 whitespace tokens and the first 5 runes of each token
// contribute, and each rune's code point (mod 1000, scaled to [0,1)) lands at
// index (token*5 + rune) mod 100. Vectors produced at different times are only
// comparable as long as this exact layout is kept.
func Vectorize(text string) TextVector {
	var v TextVector
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}
	for ti, token := range tokens {
		ci := 0
		for _, r := range token {
			if ci >= maxRunesPerToken {
				break
			}
			v[(ti*maxRunesPerToken+ci)%Dim] = float32(int(r)%1000) / 1000
			ci++
		}
	}
	return v
}

func (v TextVector) Slice() []float32 {
	out := make([]float32, Dim)
	copy(out, v[:])
	return out
}

// Cosine returns the cosine similarity of a and b, or 0 when the lengths differ,
// either vector is empty or either has zero magnitude.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}
