// Command arithcodec is an order-0 file compressor built on the
// arithmetic coder: one adaptive 256-symbol model over the file's bytes.
// It exists to exercise the codec end to end; it is not a competitive
// general-purpose compressor.
package main

import (
	"encoding/binary"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	arithcodec "github.com/Geolm/arithmetic-codec"
)

// File framing: the library stream is raw, so the CLI adds the minimum
// envelope needed to decompress: magic, original length, code bytes.
var magic = [4]byte{'A', 'C', '0', '1'}

const headerSize = 12

var log = logrus.New()

func main() {
	root := &cobra.Command{
		Use:           "arithcodec",
		Short:         "Order-0 adaptive arithmetic file compressor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	}

	root.AddCommand(getCompressCmd(), getDecompressCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func getCompressCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "compress <file>",
		Short: "Compress a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = args[0] + ".ac"
			}
			return compress(args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <file>.ac)")
	return cmd
}

func getDecompressCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "decompress <file>",
		Short: "Decompress a file produced by compress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = args[0] + ".out"
			}
			return decompress(args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <file>.out)")
	return cmd
}

func compress(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return errors.Wrapf(err, "reading %s", in)
	}

	model, err := arithcodec.NewAdaptiveModel(256)
	if err != nil {
		return err
	}
	// Worst case the coder expands (up to ~15 bits per byte against a
	// fresh model), so size the code buffer for it.
	codec := arithcodec.New(2*uint32(len(data))+64, nil)

	start := time.Now()
	codec.StartEncoder()
	for _, b := range data {
		codec.EncodeAdaptive(uint32(b), model)
	}
	n := codec.StopEncoder()
	elapsed := time.Since(start)

	framed := make([]byte, headerSize+n)
	copy(framed, magic[:])
	binary.BigEndian.PutUint64(framed[4:], uint64(len(data)))
	copy(framed[headerSize:], codec.Buffer()[:n])
	if err := os.WriteFile(out, framed, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}

	log.WithFields(logrus.Fields{
		"in":    len(data),
		"out":   len(framed),
		"ratio": ratio(len(framed), len(data)),
	}).Infof("compressed %s in %s", in, elapsed.Round(time.Millisecond))
	return nil
}

func decompress(in, out string) error {
	framed, err := os.ReadFile(in)
	if err != nil {
		return errors.Wrapf(err, "reading %s", in)
	}
	if len(framed) < headerSize || [4]byte(framed[:4]) != magic {
		return errors.Errorf("%s: not an arithcodec stream", in)
	}
	size := binary.BigEndian.Uint64(framed[4:])
	code := framed[headerSize:]
	log.Debugf("header: %d original bytes, %d code bytes", size, len(code))

	model, err := arithcodec.NewAdaptiveModel(256)
	if err != nil {
		return err
	}
	// Copy into the codec buffer: the decoder needs slack bytes past the
	// code length for its read-ahead.
	codec := arithcodec.New(uint32(len(code))+4, nil)
	copy(codec.Buffer(), code)

	start := time.Now()
	data := make([]byte, size)
	codec.StartDecoder()
	for i := range data {
		data[i] = byte(codec.DecodeAdaptive(model))
	}
	codec.StopDecoder()
	elapsed := time.Since(start)

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	log.Infof("decompressed %s: %d bytes in %s", in, len(data), elapsed.Round(time.Millisecond))
	return nil
}

func ratio(compressed, original int) float64 {
	if original == 0 {
		return 1
	}
	return float64(compressed) / float64(original)
}
