// bench-split measures splitting throughput on a synthetic CSV workload.
//
// Usage:
//
//	go run ./scripts/bench-split --records 2000000 --num-per-split 100000 \
//	  --profile-dir /tmp/bench-split --cpu-profile
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/Sumatoshi-tech/csvfang/internal/split"
	"github.com/Sumatoshi-tech/csvfang/pkg/units"
)

func main() {
	input := flag.String("input", "", "Existing CSV to split (empty = generate a synthetic one)")
	records := flag.Int("records", 1000000, "Records in the generated input")
	numPerSplit := flag.Int64("num-per-split", 100000, "Records per split file")
	readBuffer := flag.Int("read-buffer", units.MiB, "Read chunk size in bytes")
	compress := flag.Bool("compress", false, "Write split files as LZ4 frames")
	profileDir := flag.String("profile-dir", "", "Directory to write pprof profiles")
	cpuProfile := flag.Bool("cpu-profile", false, "Write CPU profile to profile-dir/cpu.prof")

	flag.Parse()

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}
	}

	workDir, err := os.MkdirTemp("", "bench-split-")
	if err != nil {
		log.Fatalf("mkdir temp: %v", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := *input
	if inputPath == "" {
		inputPath = filepath.Join(workDir, "bench.csv")

		genStart := time.Now()
		if genErr := generateInput(inputPath, *records); genErr != nil {
			log.Fatalf("generate input: %v", genErr)
		}

		log.Printf("generated %d records in %s", *records, time.Since(genStart).Round(time.Millisecond))
	}

	if *cpuProfile {
		if *profileDir == "" {
			log.Fatal("--cpu-profile requires --profile-dir")
		}

		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}

		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	heapBefore := heapInUse()

	res, err := split.Run(context.Background(), split.Options{
		InputPath:      inputPath,
		RecordsPerFile: *numPerSplit,
		OutputDir:      workDir,
		ReadBufferSize: *readBuffer,
		Compress:       *compress,
	})
	if err != nil {
		log.Fatalf("split: %v", err)
	}

	heapAfter := heapInUse()

	if *profileDir != "" {
		writeHeapProfile(*profileDir, "heap_after_split.prof")
	}

	mbIn := float64(res.BytesIn) / 1e6

	fmt.Println()
	fmt.Println("=== Split Throughput ===")
	fmt.Printf("%-12s %d\n", "records", res.Records)
	fmt.Printf("%-12s %d\n", "files", res.Files)
	fmt.Printf("%-12s %.1f MB in, %.1f MB out\n", "bytes", mbIn, float64(res.BytesOut)/1e6)
	fmt.Printf("%-12s %s\n", "elapsed", res.Elapsed.Round(time.Millisecond))
	fmt.Printf("%-12s %.1f MB/s\n", "throughput", mbIn/res.Elapsed.Seconds())
	fmt.Printf("%-12s %.1f MB -> %.1f MB\n", "heap in use", float64(heapBefore)/1e6, float64(heapAfter)/1e6)
}

// generateInput writes a synthetic CSV that exercises the quote states:
// every fifth record carries an embedded line feed, every seventh an
// escaped quote.
func generateInput(path string, records int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(f, units.MiB)

	for i := 0; i < records; i++ {
		switch {
		case i%5 == 0:
			fmt.Fprintf(w, "%d,\"note line one\nnote line two\",ok\n", i)
		case i%7 == 0:
			fmt.Fprintf(w, "%d,\"say \"\"hi\"\" again\",ok\n", i)
		default:
			fmt.Fprintf(w, "%d,plain field,ok\n", i)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

func heapInUse() uint64 {
	runtime.GC()
	runtime.GC()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return m.HeapInuse
}

func writeHeapProfile(dir, name string) {
	runtime.GC()
	runtime.GC()

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		log.Printf("warning: create heap profile %s: %v", path, err)

		return
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("warning: write heap profile %s: %v", path, err)
	}
}
