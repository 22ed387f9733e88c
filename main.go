package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/multimediallc/hunkowners/internal/app"
	gh "github.com/multimediallc/hunkowners/internal/github"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func ignoreError[V any, E error](res V, _ E) V {
	return res
}

var (
	WarningBuffer = bytes.NewBuffer([]byte{})
	InfoBuffer    = bytes.NewBuffer([]byte{})
)

type Flags struct {
	EventPath *string
	EventName *string
	RepoDir   *string
	Output    *string
	Verbose   *bool
	Quiet     *bool
}

var flags = &Flags{
	EventPath: flag.String("event", getEnv("GITHUB_EVENT_PATH", ""), "Path to the webhook event payload"),
	EventName: flag.String("event-name", getEnv("GITHUB_EVENT_NAME", "pull_request"), "Webhook event name"),
	RepoDir:   flag.String("dir", getEnv("GITHUB_WORKSPACE", "/"), "Path to local Git repo"),
	Output:    flag.String("output", getEnv("GITHUB_OUTPUT", ""), "File the output data is appended to"),
	Verbose:   flag.Bool("v", ignoreError(strconv.ParseBool(getEnv("INPUT_VERBOSE", "0"))), "Verbose output"),
	Quiet:     flag.Bool("quiet", ignoreError(strconv.ParseBool(getEnv("INPUT_QUIET", "0"))), "Only print the hunk map"),
}

func initFlags(flags *Flags) error {
	flag.Parse()
	badFlags := make([]string, 0, 2)
	if *flags.EventPath == "" {
		badFlags = append(badFlags, "event")
	}
	if *flags.RepoDir == "" {
		badFlags = append(badFlags, "dir")
	}
	if len(badFlags) > 0 {
		return fmt.Errorf("Required flags or environment variables not set: %s", badFlags)
	}
	return nil
}

func flushBuffers(verbose bool) {
	_, err := WarningBuffer.WriteTo(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing warning buffer: %v\n", err)
	}
	if verbose {
		_, err := InfoBuffer.WriteTo(os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing info buffer: %v\n", err)
		}
	}
}

// shouldFail should always be true for errors that are not recoverable
func errorAndExit(shouldFail bool, format string, args ...interface{}) {
	flushBuffers(*flags.Verbose)
	fmt.Fprintf(os.Stderr, format, args...)
	if shouldFail {
		os.Exit(1)
	} else {
		os.Exit(0)
	}
}

// writeOutput prints the hunk map as a single JSON line and appends the full
// output data to the action output file when one is set
func writeOutput(w io.Writer, outputFile string, outputData *app.OutputData) error {
	hunkMap, err := json.Marshal(outputData.HunkMap)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", hunkMap); err != nil {
		return err
	}
	if outputFile == "" {
		return nil
	}
	data, err := json.Marshal(outputData)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = fmt.Fprintf(file, "data=%s\n", data)
	return err
}

func main() {
	err := initFlags(flags)
	if err != nil {
		errorAndExit(true, "%v\n", err)
	}

	payload, err := os.ReadFile(*flags.EventPath)
	if err != nil {
		errorAndExit(true, "Error reading event payload: %v\n", err)
	}

	cfg := app.Config{
		EventName:     *flags.EventName,
		EventPayload:  payload,
		RepoDir:       *flags.RepoDir,
		Verbose:       *flags.Verbose,
		Quiet:         *flags.Quiet,
		InfoBuffer:    InfoBuffer,
		WarningBuffer: WarningBuffer,
	}

	application, err := app.New(cfg)
	if err != nil {
		var notPR gh.NotPullRequestEventError
		if errors.Is(err, gh.ErrIgnoredEvent) || errors.As(err, &notPR) {
			errorAndExit(false, "Skipping: %v\n", err)
		}
		errorAndExit(true, "Failed to initialize app: %v\n", err)
	}

	outputData, err := application.Run(context.Background())
	if err != nil {
		errorAndExit(true, "%v\n", err)
	}

	if err := writeOutput(os.Stdout, *flags.Output, outputData); err != nil {
		errorAndExit(true, "Error writing output: %v\n", err)
	}
	flushBuffers(*flags.Verbose && !*flags.Quiet)
	if !*flags.Quiet {
		fmt.Fprintln(os.Stderr, outputData.Message)
	}
}
