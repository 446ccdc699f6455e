// Command mempool-bench drives a sharded pool with a configurable synthetic
// workload and reports throughput, memory usage, and pool statistics.
// It only touches the pool's public pull/release surface.
package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/mempool/pkg/config"
	"github.com/ajitpratap0/mempool/pkg/json"
	"github.com/ajitpratap0/mempool/pkg/logger"
	"github.com/ajitpratap0/mempool/pkg/metrics"
	"github.com/ajitpratap0/mempool/pkg/pool"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	root := &cobra.Command{
		Use:   "mempool-bench",
		Short: "Benchmark harness for the mempool sharded object pool",
		Long: `mempool-bench exercises the sharded object pool under configurable worker
counts and block sizes, measuring pull/release throughput and capacity-shedding
behavior. It uses only the pool's public API.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mempool-bench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newBenchCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newBenchCommand() *cobra.Command {
	var (
		configFile  string
		shards      int
		capacity    int
		iterations  int
		reportPath  string
		metricsAddr string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the pull/release benchmark grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewBenchConfig()
			if configFile != "" {
				if err := config.Load(configFile, cfg); err != nil {
					return err
				}
			}
			// Flags override the config file
			if cmd.Flags().Changed("shards") {
				cfg.Pool.Shards = shards
			}
			if cmd.Flags().Changed("capacity") {
				cfg.Pool.Capacity = capacity
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Iterations = iterations
			}
			if reportPath != "" {
				cfg.ReportPath = reportPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := logger.Init(logger.Config{
				Level:    cfg.LogLevel,
				Encoding: "console",
			}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}

			return runBench(cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML benchmark configuration file")
	cmd.Flags().IntVar(&shards, "shards", 8, "Number of pool shards")
	cmd.Flags().IntVar(&capacity, "capacity", 1000, "Per-shard item capacity")
	cmd.Flags().IntVar(&iterations, "iterations", 100000, "Pull/release cycles per worker")
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Path for the JSON report")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (e.g. :9090)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil { //nolint:gosec // benchmark tool, no timeouts needed
		logger.Warn("metrics server stopped", zap.Error(err))
	}
}

// Result captures one cell of the benchmark grid.
type Result struct {
	BlockSize   int           `json:"block_size"`
	Workers     int           `json:"workers"`
	TotalPulls  int64         `json:"total_pulls"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	PullsPerSec float64       `json:"pulls_per_sec"`
	MBPerSec    float64       `json:"mb_per_sec"`
	RSSBytes    uint64        `json:"rss_bytes"`
	Stats       pool.Stats    `json:"stats"`
}

// Report is the top-level JSON document written after a run.
type Report struct {
	Name      string            `json:"name"`
	Timestamp time.Time         `json:"timestamp"`
	Pool      config.PoolConfig `json:"pool"`
	GoVersion string            `json:"go_version"`
	NumCPU    int               `json:"num_cpu"`
	Results   []Result          `json:"results"`
}

func runBench(cfg *config.BenchConfig) error {
	log := logger.With(zap.String("run", cfg.Name))

	log.Info("starting benchmark",
		zap.Int("shards", cfg.Pool.Shards),
		zap.Int("capacity", cfg.Pool.Capacity),
		zap.Ints("block_sizes", cfg.BlockSizes),
		zap.Ints("workers", cfg.Workers))

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	report := &Report{
		Name:      cfg.Name,
		Timestamp: time.Now(),
		Pool:      cfg.Pool,
		GoVersion: runtime.Version(),
		NumCPU:    runtime.NumCPU(),
	}

	for _, size := range cfg.BlockSizes {
		for _, workers := range cfg.Workers {
			// Each cell runs a fresh pool, so it gets a fresh collector;
			// a collector's delta baseline is tied to one pool's counters.
			collector := metrics.NewCollector(cfg.Name)

			res, err := runCell(cfg, collector, size, workers)
			if err != nil {
				return err
			}

			if mi, err := proc.MemoryInfo(); err == nil {
				res.RSSBytes = mi.RSS
			}

			collector.ObserveStats(res.Stats.Hits, res.Stats.Misses, res.Stats.Fallbacks,
				res.Stats.Returns, res.Stats.Discards, res.Stats.InUse)
			collector.SetThroughput(res.PullsPerSec)

			log.Info("cell complete",
				zap.Int("block_size", size),
				zap.Int("workers", workers),
				zap.Float64("pulls_per_sec", res.PullsPerSec),
				zap.Float64("mb_per_sec", res.MBPerSec),
				zap.Int64("discards", res.Stats.Discards))

			report.Results = append(report.Results, res)
		}
	}

	printSummary(report)

	if cfg.ReportPath != "" {
		if err := writeReport(cfg.ReportPath, report); err != nil {
			return err
		}
		log.Info("report written", zap.String("path", cfg.ReportPath))
	}

	return nil
}

// runCell runs one (blockSize, workers) combination against a fresh pool.
// All workers block on a shared gate so the measured window starts together.
// Zero iterations means the run is bounded by the configured duration alone;
// workers then cycle until the deadline, re-checking it every 1024 cycles.
// One pull per 1024 is individually timed and fed to the latency histogram
// so sampling overhead stays off the hot loop.
func runCell(cfg *config.BenchConfig, collector *metrics.Collector, blockSize, workers int) (Result, error) {
	factory := func() ([]byte, error) {
		return make([]byte, 0, blockSize), nil
	}

	p, err := pool.New(cfg.Pool.Shards, cfg.Pool.Capacity, factory)
	if err != nil {
		return Result{}, err
	}

	perWorker := 0
	if cfg.Iterations > 0 {
		perWorker = cfg.Iterations / workers
		if perWorker < 1 {
			perWorker = 1
		}
	}

	deadline := time.Time{}
	if cfg.Duration > 0 {
		deadline = time.Now().Add(cfg.Duration)
	}

	var (
		wg    sync.WaitGroup
		gate  = make(chan struct{})
		durs  = make([]time.Duration, workers)
		pulls = make([]int64, workers)
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			<-gate

			start := time.Now()
			var n int64
			for i := 0; perWorker == 0 || i < perWorker; i++ {
				sample := i%1024 == 0

				var pullStart time.Time
				if sample {
					pullStart = time.Now()
				}
				h, err := p.Pull(factory)
				if err != nil {
					break
				}
				if sample {
					collector.ObservePullLatency(time.Since(pullStart))
				}
				h.Release()
				n++

				if sample && !deadline.IsZero() && time.Now().After(deadline) {
					break
				}
			}
			durs[id] = time.Since(start)
			pulls[id] = n
		}(w)
	}

	close(gate)
	wg.Wait()

	var total int64
	var longest time.Duration
	for w := 0; w < workers; w++ {
		total += pulls[w]
		if durs[w] > longest {
			longest = durs[w]
		}
	}

	res := Result{
		BlockSize:  blockSize,
		Workers:    workers,
		TotalPulls: total,
		Elapsed:    longest,
		Stats:      p.Stats(),
	}
	if longest > 0 {
		res.PullsPerSec = float64(total) / longest.Seconds()
		res.MBPerSec = res.PullsPerSec * float64(blockSize) / (1024 * 1024)
	}
	return res, nil
}

func printSummary(report *Report) {
	fmt.Printf("\n=== %s ===\n", report.Name)
	fmt.Printf("%-12s %-8s %-16s %-12s %-10s\n", "block", "workers", "pulls/sec", "MB/sec", "discards")
	for _, r := range report.Results {
		fmt.Printf("%-12d %-8d %-16.0f %-12.1f %-10d\n",
			r.BlockSize, r.Workers, r.PullsPerSec, r.MBPerSec, r.Stats.Discards)
	}
}

func writeReport(path string, report *Report) error {
	f, err := os.Create(path) //nolint:gosec // G304: path is an explicit CLI argument
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return json.Encode(f, report)
}
