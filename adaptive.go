package arithcodec

import (
	"github.com/pkg/errors"
)

// AdaptiveModel learns a distribution online from the symbols it codes.
// Per-symbol occurrence counts feed periodic rebuilds of the cumulative
// distribution; the rebuild cadence grows geometrically so that rebuild
// cost amortizes while the model still tracks drift. Counts are halved
// (rounding up, so none reaches zero) once the total passes the rescale
// threshold.
//
// Encoder and decoder must drive models in identical initial states
// through identical symbol sequences; the learning is deterministic.
type AdaptiveModel struct {
	dataModel
	symbolCount        []uint32
	totalCount         uint32
	updateCycle        uint32
	symbolsUntilUpdate uint32
}

// NewAdaptiveModel returns an adaptive model over n symbols with uniform
// initial statistics. n must be in [2, MaxAlphabet].
func NewAdaptiveModel(n uint32) (*AdaptiveModel, error) {
	m := &AdaptiveModel{}
	if err := m.SetAlphabet(n); err != nil {
		return nil, err
	}
	return m, nil
}

// SetAlphabet changes the alphabet size, reallocating tables if the size
// differs, and resets the model.
func (m *AdaptiveModel) SetAlphabet(n uint32) error {
	if n < 2 || n > MaxAlphabet {
		return errors.Errorf("arithcodec: invalid alphabet size %d", n)
	}
	if m.symbols != n {
		m.symbols = n
		m.lastSymbol = n - 1
		if n > 16 {
			bits := tableBits(n)
			m.tableSize = 1 << bits
			m.tableShift = lengthShift - bits
			block := make([]uint32, 2*n+m.tableSize+2)
			m.distribution = block[:n]
			m.symbolCount = block[n : 2*n]
			m.decoderTable = block[2*n:]
		} else {
			m.tableSize = 0
			m.tableShift = 0
			block := make([]uint32, 2*n)
			m.distribution = block[:n]
			m.symbolCount = block[n:]
			m.decoderTable = nil
		}
	}
	m.Reset()
	return nil
}

// Reset restores uniform statistics: every count back to 1, distribution
// rebuilt, update cycle restarted.
func (m *AdaptiveModel) Reset() {
	if m.symbols == 0 {
		return
	}
	m.totalCount = 0
	m.updateCycle = m.symbols
	for k := range m.symbolCount {
		m.symbolCount[k] = 1
	}
	m.update(false)
	m.updateCycle = (m.symbols + 6) >> 1
	m.symbolsUntilUpdate = m.updateCycle
}

// SymbolCount returns the current occurrence count of symbol s.
func (m *AdaptiveModel) SymbolCount(s uint32) uint32 {
	return m.symbolCount[s]
}

// update recomputes the cumulative distribution from the counts. The
// decoder table is rebuilt only when the rebuild is driven from a decode
// path: the encoder never reads it.
func (m *AdaptiveModel) update(fromEncoder bool) {
	m.totalCount += m.updateCycle
	if m.totalCount > maxCount {
		// Halve rounding up so no count drops to zero; a zero count
		// would give a zero-width interval and an undecodable symbol.
		m.totalCount = 0
		for n := range m.symbolCount {
			m.symbolCount[n] = (m.symbolCount[n] + 1) >> 1
			m.totalCount += m.symbolCount[n]
		}
	}

	scale := uint32(0x80000000) / m.totalCount
	var sum uint32
	if fromEncoder || m.decoderTable == nil {
		for k := range m.distribution {
			m.distribution[k] = (scale * sum) >> (31 - lengthShift)
			sum += m.symbolCount[k]
		}
	} else {
		var s uint32
		for k := range m.distribution {
			m.distribution[k] = (scale * sum) >> (31 - lengthShift)
			sum += m.symbolCount[k]
			w := m.distribution[k] >> m.tableShift
			for s < w {
				s++
				m.decoderTable[s] = uint32(k) - 1
			}
		}
		m.decoderTable[0] = 0
		for s <= m.tableSize {
			s++
			m.decoderTable[s] = m.symbols - 1
		}
	}

	m.updateCycle = (5 * m.updateCycle) >> 2
	if limit := (m.symbols + 6) << 3; m.updateCycle > limit {
		m.updateCycle = limit
	}
	m.symbolsUntilUpdate = m.updateCycle
}
