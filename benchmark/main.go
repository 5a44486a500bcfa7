// Package main provides a performance benchmarking tool for the evotrack CLI.
// It measures execution times across different bundle sizes and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - evotrack binary installed and available in PATH
// - Observation bundles placed under the specified base directory
//
// Usage: go run benchmark/main.go [bundle-base-dir]
//
//	bundle-base-dir: Directory containing test bundles
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Bundle      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	BundleBase  string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Bundles     []string
	Commands    [][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [bundle-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	bundleBase := os.Args[1]

	config := BenchmarkConfig{
		BundleBase:  bundleBase,
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Bundles:     discoverBundles(bundleBase),
		Commands: [][]string{
			{"report"},
			{"changes"},
			{"transformations"},
			{"scores", "trends"},
			{"scorereport"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using evotrack cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("evotrack", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// discoverBundles lists direct subdirectories of the base dir that carry a manifest.
func discoverBundles(bundleBase string) []string {
	entries, err := os.ReadDir(bundleBase)
	if err != nil {
		return nil
	}
	var bundles []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		manifest := filepath.Join(bundleBase, e.Name(), "manifest.json")
		if _, err := os.Stat(manifest); err == nil {
			bundles = append(bundles, e.Name())
		}
	}
	return bundles
}

// checkPrerequisites verifies that evotrack binary and test bundles exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if evotrack is available
	if _, err := exec.LookPath("evotrack"); err != nil {
		return fmt.Errorf("evotrack binary not found in PATH")
	}

	if len(config.Bundles) == 0 {
		return fmt.Errorf("no bundles with a manifest found under %s", config.BundleBase)
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured bundles
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d bundles, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Bundles), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, bundleName := range config.Bundles {
		fmt.Printf("Benchmarking %s\n", bundleName)

		bundlePath := filepath.Join(config.BundleBase, bundleName)
		for _, command := range config.Commands {
			result := runBenchmarkSuite(config, bundleName, bundlePath, command)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, bundleName, bundlePath string, command []string) BenchmarkResult {
	commandName := strings.Join(command, " ")
	fmt.Printf("Running %s on %s\n", commandName, bundleName)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, bundlePath, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Bundle:      bundleName,
		Command:     commandName,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes an evotrack command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, bundlePath string, command []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	// Prepare command arguments: subcommand, bundle path, cache backend
	args := append([]string{}, command...)
	args = append(args, bundlePath, "--cache-backend", cacheBackend)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("evotrack", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Analysis completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/evotrack_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"bundle", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Bundle, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, command := range config.Commands {
		commandName := strings.Join(command, " ")
		fmt.Printf("%s:\n", commandName)
		for _, result := range results {
			if result.Command == commandName {
				fmt.Printf("  %-16s: No-cache: %s, Cold: %s, Warm: %s\n", result.Bundle, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
