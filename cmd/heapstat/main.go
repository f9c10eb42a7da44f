// Command heapstat is a small demo harness for the immixheap allocator: it
// allocates a batch of objects and byte arrays and logs the resulting
// block-pool stats. It exists to exercise the heap facade end to end and to
// show the logging shape a real mutator would wire up; it is not part of
// the heap's public API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joshuapare/immixheap/heap"
)

type reading struct {
	X, Y, Z float64
}

func main() {
	var (
		objects int
		arrays  int
		arrayN  uint32
		verbose bool
	)
	flag.IntVar(&objects, "objects", 4096, "number of small objects to allocate")
	flag.IntVar(&arrays, "arrays", 64, "number of byte arrays to allocate")
	var arraySize uint
	flag.UintVar(&arraySize, "array-size", 512, "size in bytes of each allocated array")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()
	arrayN = uint32(arraySize)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	h := heap.New(heap.Config{Logger: logger})
	defer func() {
		if err := h.Close(); err != nil {
			logger.Error("heap close failed", "error", err)
		}
	}()

	if err := run(h, logger, objects, arrays, arrayN); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(h *heap.Heap, logger *slog.Logger, objects, arrays int, arrayN uint32) error {
	for i := 0; i < objects; i++ {
		if _, err := heap.Alloc(h, reading{X: float64(i), Y: float64(i) * 2, Z: float64(i) * 3}); err != nil {
			return fmt.Errorf("alloc object %d: %w", i, err)
		}
	}
	for i := 0; i < arrays; i++ {
		if _, err := h.AllocArray(arrayN); err != nil {
			return fmt.Errorf("alloc array %d: %w", i, err)
		}
	}

	stats := h.Stats()
	logger.Info("heapstat summary",
		"block_count", h.BlockCount(),
		"has_head", stats.HasHead,
		"has_overflow", stats.HasOverflow,
		"free_pool", stats.Free,
		"recycle_pool", stats.Recycle,
		"used_pool", stats.Used,
		"objects_allocated", objects,
		"arrays_allocated", arrays,
	)
	return nil
}
