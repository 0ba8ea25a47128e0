package embedding

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/xxxsen/contentintel/internal/vector"
)

const (
	// Dim is the width of embeddings produced by the network.
	Dim = 16

	DefaultSeed int64 = 42
)

type activation int

const (
	actLinear activation = iota
	actReLU
	actTanh
)

func (a activation) String() string {
	switch a {
	case actReLU:
		return "relu"
	case actTanh:
		return "tanh"
	default:
		return "linear"
	}
}

type layer struct {
	kind    string
	in, out int
	weights [][]float32 // out x in
	bias    []float32
	act     activation
	rate    float32
}

// Network is a small fixed feed-forward projection:
// 100 -> dense(64, relu) -> dropout(0.2) -> dense(32, relu) -> dense(16, tanh).
// Its weights are never trained; it is a deterministic random nonlinear
// projection of the text vector, not a semantic embedding.
type Network struct {
	layers []layer
}

func NewNetwork(seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))
	return &Network{layers: []layer{
		dense(rng, vector.Dim, 64, actReLU),
		{kind: "dropout", in: 64, out: 64, rate: 0.2},
		dense(rng, 64, 32, actReLU),
		dense(rng, 32, Dim, actTanh),
	}}
}

// glorot uniform weights, zero bias
func dense(rng *rand.Rand, in, out int, act activation) layer {
	limit := math.Sqrt(6 / float64(in+out))
	weights := make([][]float32, out)
	for o := range weights {
		row := make([]float32, in)
		for i := range row {
			row[i] = float32((rng.Float64()*2 - 1) * limit)
		}
		weights[o] = row
	}
	return layer{
		kind:    "dense",
		in:      in,
		out:     out,
		weights: weights,
		bias:    make([]float32, out),
		act:     act,
	}
}

func (n *Network) Validate() error {
	if n == nil || len(n.layers) == 0 {
		return fmt.Errorf("network has no layers")
	}
	width := vector.Dim
	for i, l := range n.layers {
		if l.in != width {
			return fmt.Errorf("layer %d (%s) expects %d inputs, got %d", i, l.kind, l.in, width)
		}
		if l.kind == "dense" && (len(l.weights) != l.out || len(l.bias) != l.out) {
			return fmt.Errorf("layer %d has malformed weights", i)
		}
		width = l.out
	}
	if width != Dim {
		return fmt.Errorf("network output width %d, want %d", width, Dim)
	}
	return nil
}

// Forward runs inference. Dropout is a no-op at inference time.
func (n *Network) Forward(in []float32) []float32 {
	cur := in
	for _, l := range n.layers {
		if l.kind != "dense" {
			continue
		}
		next := make([]float32, l.out)
		for o := 0; o < l.out; o++ {
			sum := float64(l.bias[o])
			row := l.weights[o]
			for i, x := range cur {
				sum += float64(row[i]) * float64(x)
			}
			next[o] = float32(apply(l.act, sum))
		}
		cur = next
	}
	return cur
}

func (n *Network) Describe() []string {
	out := make([]string, 0, len(n.layers))
	for _, l := range n.layers {
		if l.kind == "dropout" {
			out = append(out, fmt.Sprintf("dropout(%.1f)", l.rate))
			continue
		}
		out = append(out, fmt.Sprintf("dense(%d->%d, %s)", l.in, l.out, l.act))
	}
	return out
}

func apply(act activation, x float64) float64 {
	switch act {
	case actReLU:
		if x < 0 {
			return 0
		}
		return x
	case actTanh:
		return math.Tanh(x)
	default:
		return x
	}
}
