package arithcodec

import (
	"github.com/pkg/errors"
)

// StaticModel holds a distribution fixed at construction. Same CDF and
// decoder-table machinery as the adaptive model, without counts or
// rescaling.
type StaticModel struct {
	dataModel
}

// NewStaticModel returns a static model over n symbols. probability may
// be nil for a uniform distribution; otherwise it must hold n values in
// [0, 1] summing to 1 within tolerance.
func NewStaticModel(n uint32, probability []float64) (*StaticModel, error) {
	m := &StaticModel{}
	if err := m.SetDistribution(n, probability); err != nil {
		return nil, err
	}
	return m, nil
}

// SetDistribution replaces the alphabet and distribution, reallocating
// tables when the alphabet size changes.
func (m *StaticModel) SetDistribution(n uint32, probability []float64) error {
	if n < 2 || n > MaxAlphabet {
		return errors.Errorf("arithcodec: invalid alphabet size %d", n)
	}
	if probability != nil && uint32(len(probability)) != n {
		return errors.Errorf("arithcodec: %d probabilities for %d symbols", len(probability), n)
	}
	if m.symbols != n {
		m.symbols = n
		m.lastSymbol = n - 1
		if n > 16 {
			bits := tableBits(n)
			m.tableSize = 1 << bits
			m.tableShift = lengthShift - bits
			block := make([]uint32, n+m.tableSize+2)
			m.distribution = block[:n]
			m.decoderTable = block[n:]
		} else {
			m.tableSize = 0
			m.tableShift = 0
			m.distribution = make([]uint32, n)
			m.decoderTable = nil
		}
	}

	var s uint32
	sum := 0.0
	p := 1.0 / float64(n)
	for k := uint32(0); k < n; k++ {
		if probability != nil {
			p = probability[k]
		}
		if p < 0 || p > 1 {
			return errors.Errorf("arithcodec: invalid probability %g for symbol %d", p, k)
		}
		m.distribution[k] = uint32(sum * (1 << lengthShift))
		sum += p
		if m.tableSize == 0 {
			continue
		}
		w := m.distribution[k] >> m.tableShift
		for s < w {
			s++
			m.decoderTable[s] = k - 1
		}
	}
	if m.tableSize != 0 {
		m.decoderTable[0] = 0
		for s <= m.tableSize {
			s++
			m.decoderTable[s] = n - 1
		}
	}
	if sum < 0.9999 || sum > 1.001 {
		return errors.Errorf("arithcodec: probabilities sum to %g", sum)
	}
	return nil
}
