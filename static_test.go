package arithcodec

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticModelValidation(t *testing.T) {
	tests := []struct {
		name  string
		n     uint32
		probs []float64
	}{
		{"alphabet_too_small", 1, nil},
		{"alphabet_too_large", 2049, nil},
		{"negative_probability", 2, []float64{-0.1, 1.1}},
		{"probability_above_one", 2, []float64{1.5, 0.5}},
		{"sum_too_small", 2, []float64{0.4, 0.4}},
		{"sum_too_large", 2, []float64{0.7, 0.7}},
		{"wrong_count", 3, []float64{0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStaticModel(tt.n, tt.probs)
			require.Error(t, err)
		})
	}
}

func TestStaticModelBuild(t *testing.T) {
	for _, n := range []uint32{2, 16, 17, 256, 2048} {
		model, err := NewStaticModel(n, nil)
		require.NoError(t, err)
		require.Equal(t, n, model.Symbols())
		require.Equal(t, uint32(0), model.distribution[0])
		for k := 1; k < len(model.distribution); k++ {
			require.LessOrEqual(t, model.distribution[k-1], model.distribution[k])
		}
		if n > 16 {
			require.NotNil(t, model.decoderTable)
			checkDecoderTable(t, &model.dataModel)
		} else {
			require.Nil(t, model.decoderTable)
		}
	}
}

// checkDecoderTable verifies the bracketing property: for every table
// entry t, the bracket [decoderTable[t], decoderTable[t+1]+1) contains
// the symbol of the lowest scaled value of the bucket, dv = t<<tableShift.
func checkDecoderTable(t *testing.T, m *dataModel) {
	t.Helper()
	cdf := func(k uint32) uint32 {
		if k == m.symbols {
			return 1 << lengthShift
		}
		return m.distribution[k]
	}
	for ti := uint32(0); ti <= m.tableSize; ti++ {
		lo := m.decoderTable[ti]
		hi := m.decoderTable[ti+1] + 1
		require.Less(t, lo, m.symbols)
		require.LessOrEqual(t, hi, m.symbols)
		dv := ti << m.tableShift
		if dv >= 1<<lengthShift {
			continue
		}
		// Symbol of dv: the k with cdf(k) <= dv < cdf(k+1).
		var sym uint32
		for k := uint32(0); k < m.symbols; k++ {
			if cdf(k) <= dv && dv < cdf(k+1) {
				sym = k
				break
			}
		}
		require.GreaterOrEqual(t, sym, lo, "table entry %d", ti)
		require.Less(t, sym, hi, "table entry %d", ti)
	}
}

func TestStaticUniformBinary(t *testing.T) {
	model, err := NewStaticModel(2, []float64{0.5, 0.5})
	require.NoError(t, err)

	const nbits = 1000000
	rng := rand.New(rand.NewSource(1))
	bits := make([]uint32, nbits)
	for i := range bits {
		bits[i] = uint32(rng.Intn(2))
	}

	codec := New(nbits/8+1024, nil)
	codec.StartEncoder()
	for _, b := range bits {
		codec.EncodeStatic(b, model)
	}
	n := codec.StopEncoder()
	assert.InDelta(t, 125000, n, 20)

	codec.StartDecoder()
	for i, b := range bits {
		if codec.DecodeStatic(model) != b {
			t.Fatalf("bit %d mismatch", i)
		}
	}
	codec.StopDecoder()
}

func TestStaticSingleSymbol(t *testing.T) {
	model, err := NewStaticModel(256, nil)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(2))
	sym := uint32(rng.Intn(256))

	codec := New(64, nil)
	codec.StartEncoder()
	codec.EncodeStatic(sym, model)
	n := codec.StopEncoder()
	// One ~8-bit symbol plus the termination flush.
	require.GreaterOrEqual(t, n, 2)
	require.LessOrEqual(t, n, 6)

	codec.StartDecoder()
	require.Equal(t, sym, codec.DecodeStatic(model))
	codec.StopDecoder()
}

func TestStaticNearShannonLimit(t *testing.T) {
	probs := []float64{0.1, 0.1, 0.8}
	model, err := NewStaticModel(3, probs)
	require.NoError(t, err)

	const count = 10000
	rng := rand.New(rand.NewSource(3))
	symbols := make([]uint32, count)
	for i := range symbols {
		x := rng.Float64()
		switch {
		case x < probs[0]:
			symbols[i] = 0
		case x < probs[0]+probs[1]:
			symbols[i] = 1
		default:
			symbols[i] = 2
		}
	}

	codec := New(1<<15, nil)
	codec.StartEncoder()
	for _, s := range symbols {
		codec.EncodeStatic(s, model)
	}
	n := codec.StopEncoder()

	entropy := 0.0
	for _, p := range probs {
		entropy -= p * math.Log2(p)
	}
	limit := count * entropy / 8
	assert.InDelta(t, limit, float64(n), limit*0.02)

	codec.StartDecoder()
	for i, s := range symbols {
		if codec.DecodeStatic(model) != s {
			t.Fatalf("symbol %d mismatch", i)
		}
	}
	codec.StopDecoder()
}

func TestStaticSetDistributionReuse(t *testing.T) {
	model, err := NewStaticModel(256, nil)
	require.NoError(t, err)

	// Shrink below the table threshold and grow back.
	require.NoError(t, model.SetDistribution(4, []float64{0.25, 0.25, 0.25, 0.25}))
	require.Nil(t, model.decoderTable)
	require.NoError(t, model.SetDistribution(512, nil))
	require.NotNil(t, model.decoderTable)
	checkDecoderTable(t, &model.dataModel)

	symbols := []uint32{0, 511, 17, 400, 3, 3, 3, 256}
	codec := New(256, nil)
	codec.StartEncoder()
	for _, s := range symbols {
		codec.EncodeStatic(s, model)
	}
	codec.StopEncoder()
	codec.StartDecoder()
	for i, s := range symbols {
		require.Equal(t, s, codec.DecodeStatic(model), "symbol %d", i)
	}
	codec.StopDecoder()
}
