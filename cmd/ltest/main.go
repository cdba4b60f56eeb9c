// ltest drives the clex binary over sample inputs and compares its
// output against golden JSON files, so lexer changes show up as diffs
// instead of silent regressions. Golden files are keyed by an xxhash of
// the source content and go stale automatically when a sample changes.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"
)

type Execution struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
	TimedOut bool   `json:"timed_out,omitempty"`
}

type Golden struct {
	SourceHash string    `json:"source_hash"`
	Args       []string  `json:"args,omitempty"`
	Result     Execution `json:"result"`
}

type FileResult struct {
	File    string `json:"file"`
	Status  string `json:"status"` // PASS, FAIL, SKIP, ERROR
	Message string `json:"message,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

var (
	lexerPath      = flag.String("lexer", "./clex", "Path to the clex binary under test.")
	lexerArgs      = flag.String("lexer-args", "-s -k", "Arguments passed to the lexer (space-separated).")
	testFiles      = flag.String("test-files", "tests/*.c", "Glob pattern(s) for files to test (space-separated).")
	generateGolden = flag.String("generate-golden", "", "Generate a golden .json file for a given source file.")
	updateAll      = flag.Bool("update", false, "Regenerate golden files for every matched test file.")
	outputJSON     = flag.String("output", ".ltest_results.json", "Output file for the JSON test report.")
	timeout        = flag.Duration("timeout", 5*time.Second, "Timeout for each lexer run.")
	jobs           = flag.Int("j", 4, "Number of parallel test jobs.")
)

const (
	cRed    = "\x1b[91m"
	cYellow = "\x1b[93m"
	cGreen  = "\x1b[92m"
	cCyan   = "\x1b[96m"
	cBold   = "\x1b[1m"
	cNone   = "\x1b[0m"
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if *generateGolden != "" {
		if err := writeGolden(*generateGolden); err != nil {
			log.Fatalf("%s[ERROR]%s %v\n", cRed, cNone, err)
		}
		return
	}

	files, err := expandGlobPatterns(*testFiles)
	if err != nil {
		log.Fatalf("%s[ERROR]%s Invalid glob pattern(s): %v\n", cRed, cNone, err)
	}
	if len(files) == 0 {
		log.Println("No test files found matching the pattern(s).")
		return
	}

	if *updateAll {
		for _, file := range files {
			if err := writeGolden(file); err != nil {
				log.Fatalf("%s[ERROR]%s %v\n", cRed, cNone, err)
			}
		}
		return
	}

	tasks := make(chan string, len(files))
	resultsChan := make(chan *FileResult, len(files))
	var wg sync.WaitGroup
	for i := 0; i < *jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range tasks {
				resultsChan <- testFile(file)
			}
		}()
	}
	for _, file := range files {
		tasks <- file
	}
	close(tasks)
	wg.Wait()
	close(resultsChan)

	var results []*FileResult
	for result := range resultsChan {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

	failed := printSummary(results)
	writeJSONReport(results)
	if failed {
		os.Exit(1)
	}
}

func goldenPath(sourceFile string) string {
	return filepath.Join(filepath.Dir(sourceFile), "."+filepath.Base(sourceFile)+".json")
}

// hashFile computes the xxhash of a file's content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum64()), nil
}

func runLexer(sourceFile string) Execution {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	args := append(strings.Fields(*lexerArgs), sourceFile)
	cmd := exec.CommandContext(ctx, *lexerPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Execution{Stdout: stdout.String(), Stderr: stderr.String()}
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		result.TimedOut = true
		result.ExitCode = -1
	case err != nil:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -2
			result.Stderr += "\nExecution error: " + err.Error()
		}
	}
	return result
}

func writeGolden(sourceFile string) error {
	hash, err := hashFile(sourceFile)
	if err != nil {
		return fmt.Errorf("could not hash %s: %w", sourceFile, err)
	}
	golden := Golden{
		SourceHash: hash,
		Args:       strings.Fields(*lexerArgs),
		Result:     runLexer(sourceFile),
	}
	data, err := json.MarshalIndent(golden, "", "  ")
	if err != nil {
		return err
	}
	path := goldenPath(sourceFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	log.Printf("%s[GOLDEN]%s %s\n", cGreen, cNone, path)
	return nil
}

func testFile(file string) *FileResult {
	goldenData, err := os.ReadFile(goldenPath(file))
	if err != nil {
		return &FileResult{File: file, Status: "SKIP", Message: "No golden file; run with -generate-golden or -update"}
	}
	var golden Golden
	if err := json.Unmarshal(goldenData, &golden); err != nil {
		return &FileResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not parse golden file: %v", err)}
	}

	hash, err := hashFile(file)
	if err != nil {
		return &FileResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not hash source file: %v", err)}
	}
	if hash != golden.SourceHash {
		return &FileResult{File: file, Status: "SKIP", Message: "Source changed since golden was recorded; rerun with -update"}
	}

	actual := runLexer(file)
	if diff := cmp.Diff(golden.Result, actual); diff != "" {
		return &FileResult{File: file, Status: "FAIL", Message: "Token stream mismatch", Diff: diff}
	}
	return &FileResult{File: file, Status: "PASS", Message: "Output matches golden"}
}

func printSummary(results []*FileResult) bool {
	var passed, failed, skipped, errored int
	for _, result := range results {
		fmt.Printf("%s%s%s: ", cCyan, result.File, cNone)
		switch result.Status {
		case "PASS":
			passed++
			fmt.Printf("[%sPASS%s] %s\n", cGreen, cNone, result.Message)
		case "FAIL":
			failed++
			fmt.Printf("[%sFAIL%s] %s\n", cRed, cNone, result.Message)
			for _, line := range strings.Split(result.Diff, "\n") {
				fmt.Printf("    %s\n", line)
			}
		case "SKIP":
			skipped++
			fmt.Printf("[%sSKIP%s] %s\n", cYellow, cNone, result.Message)
		case "ERROR":
			errored++
			fmt.Printf("[%sERROR%s] %s\n", cRed, cNone, result.Message)
		}
	}
	fmt.Printf("%sSummary:%s %s%d Passed%s, %s%d Failed%s, %s%d Skipped%s, %s%d Errored%s, %d Total\n",
		cBold, cNone, cGreen, passed, cNone, cRed, failed, cNone, cYellow, skipped, cNone, cRed, errored, cNone, len(results))
	return failed > 0 || errored > 0
}

func writeJSONReport(results []*FileResult) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Printf("%s[ERROR]%s Failed to marshal results: %v\n", cRed, cNone, err)
		return
	}
	if err := os.WriteFile(*outputJSON, data, 0644); err != nil {
		log.Printf("%s[ERROR]%s Failed to write report to %s: %v\n", cRed, cNone, *outputJSON, err)
	}
}

func expandGlobPatterns(patterns string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]bool)
	for _, pattern := range strings.Fields(patterns) {
		files, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %s: %w", pattern, err)
		}
		for _, file := range files {
			if !seen[file] {
				if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
					allFiles = append(allFiles, file)
					seen[file] = true
				}
			}
		}
	}
	return allFiles, nil
}
