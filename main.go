package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shenjiangwei/hsAllocator/concurrent"
	"github.com/shenjiangwei/hsAllocator/hsAllocator"
)

const (
	minBlockSize = 4 * 1024
	maxBlockSize = 4 * 1024 * 1024
)

// iterationResult is one row per benchmark iteration, printed and then
// averaged across the run.
type iterationResult struct {
	Iteration   int
	LiveBlocks  int
	TotalOps    int
	TotalBytes  uint64
	Duration    time.Duration
}

// runSingleThreaded drives one Allocator directly through a randomized
// allocate/free/reallocate workload.
func runSingleThreaded(iteration, maxOps int, configPath string) iterationResult {
	a := hsAllocator.NewAllocator()
	if configPath != "" {
		a.LoadConfig(configPath)
	}
	live := make(map[unsafe.Pointer]int)

	start := time.Now()
	var totalBytes uint64

	for op := 0; op < maxOps; op++ {
		switch {
		case rand.Float64() < 0.6 || len(live) == 0:
			size := minBlockSize + rand.Intn(maxBlockSize-minBlockSize+1)
			p := a.Allocate(size)
			if p != nil {
				live[p] = size
				totalBytes += uint64(size)
			}
		case rand.Float64() < 0.85:
			p := randomKey(live)
			size := minBlockSize + rand.Intn(maxBlockSize-minBlockSize+1)
			got := a.Reallocate(p, size)
			delete(live, p)
			if got != nil {
				live[got] = size
			}
		default:
			p := randomKey(live)
			a.Free(p)
			delete(live, p)
		}
	}

	for p := range live {
		a.Free(p)
	}

	return iterationResult{
		Iteration:  iteration,
		LiveBlocks: len(live),
		TotalOps:   maxOps,
		TotalBytes: totalBytes,
		Duration:   time.Since(start),
	}
}

func randomKey(m map[unsafe.Pointer]int) unsafe.Pointer {
	n := rand.Intn(len(m))
	for k := range m {
		if n == 0 {
			return k
		}
		n--
	}
	return nil
}

// runConcurrent fans workers independent concurrent.Guard-wrapped allocator
// instances via errgroup, each single-threaded on its own, the way the
// spec's concurrency model composes with a multi-instance benchmark.
func runConcurrent(workers, maxOps int, configPath string) error {
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			guard := concurrent.NewGuard()
			if configPath != "" {
				guard.LoadConfig(configPath)
			}
			live := make([]unsafe.Pointer, 0, maxOps/4)

			for op := 0; op < maxOps; op++ {
				if rand.Float64() < 0.7 || len(live) == 0 {
					size := minBlockSize + rand.Intn(maxBlockSize-minBlockSize+1)
					if p := guard.Allocate(size); p != nil {
						live = append(live, p)
					}
				} else {
					idx := rand.Intn(len(live))
					guard.Free(live[idx])
					live[idx] = live[len(live)-1]
					live = live[:len(live)-1]
				}
			}

			for _, p := range live {
				guard.Free(p)
			}
			fmt.Printf("worker %d finished %d ops\n", w, maxOps)
			return nil
		})
	}
	return g.Wait()
}

func main() {
	iterations := flag.Int("iterations", 3, "number of benchmark iterations")
	maxOps := flag.Int("ops", 200000, "operations per iteration")
	concurrentMode := flag.Bool("concurrent", false, "fan out independent allocator instances instead of a single-threaded run")
	workers := flag.Int("workers", 8, "worker count in -concurrent mode")
	configPath := flag.String("config", "", "path to a JSON tunables file applied before the run")
	flag.Parse()

	rand.Seed(time.Now().UnixNano())

	p := message.NewPrinter(language.English)

	if *concurrentMode {
		p.Printf("Running concurrent benchmark: %d workers x %d ops\n", *workers, *maxOps)
		if err := runConcurrent(*workers, *maxOps, *configPath); err != nil {
			fmt.Fprintf(os.Stderr, "concurrent benchmark failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p.Printf("Running single-threaded benchmark: %d iterations x %d ops\n", *iterations, *maxOps)
	p.Printf("Block size range: %d KB - %d MB\n\n", minBlockSize/1024, maxBlockSize/1024/1024)

	var results []iterationResult
	for i := 0; i < *iterations; i++ {
		p.Printf("Iteration %d...\n", i+1)
		r := runSingleThreaded(i+1, *maxOps, *configPath)
		results = append(results, r)

		p.Printf("  ops: %d\n", r.TotalOps)
		p.Printf("  bytes allocated: %d\n", r.TotalBytes)
		p.Printf("  blocks live at end of workload (freed at exit): %d\n", r.LiveBlocks)
		p.Printf("  duration: %v\n\n", r.Duration)
	}

	var avgDuration time.Duration
	var avgBytes uint64
	for _, r := range results {
		avgDuration += r.Duration
		avgBytes += r.TotalBytes
	}
	avgDuration /= time.Duration(len(results))
	avgBytes /= uint64(len(results))

	p.Println("Average results:")
	p.Printf("  average bytes allocated: %d\n", avgBytes)
	p.Printf("  average duration: %v\n", avgDuration)
}
