// Package arithcodec provides a pure Go implementation of a streaming
// arithmetic coder with adaptive and static probability models.
//
// The coder maintains a current interval [base, base+length) over a 32-bit
// range and renormalizes one byte at a time, in the lineage of the
// Moffat/Stuiver/Witten coders and Said's FastAC. Probabilities are
// represented as cumulative distributions scaled to 2^15; alphabets of more
// than 16 symbols get a lookup table that accelerates the inverse-CDF
// search on decode.
//
// Basic usage with an adaptive model:
//
//	model, _ := arithcodec.NewAdaptiveModel(256)
//	codec := arithcodec.New(1<<16, nil)
//	codec.StartEncoder()
//	for _, b := range data {
//	    codec.EncodeAdaptive(uint32(b), model)
//	}
//	n := codec.StopEncoder()
//	compressed := codec.Buffer()[:n]
//
// Decoding replays the same symbols against a model in the same initial
// state:
//
//	model.Reset()
//	codec.StartDecoder()
//	for i := range data {
//	    data[i] = byte(codec.DecodeAdaptive(model))
//	}
//	codec.StopDecoder()
//
// The compressed stream is opaque and unframed: no header, no length, no
// checksum. The caller is responsible for transmitting the byte count and
// the number of symbols, and for any integrity checking.
//
// The codec is strictly single-threaded and stateful. Misuse (operations
// in the wrong mode, out-of-range symbols, invalid bit counts) is a
// programming error and panics.
package arithcodec
