// Command typecollect statically collects JS/TS test suites from a project
// and prints the synthesized trees, without executing any test code.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/specvital/typecollect/pkg/collect"
	"github.com/specvital/typecollect/pkg/domain"
)

var (
	workersFlag     int
	timeoutFlag     time.Duration
	patternFlags    []string
	excludeFlags    []string
	namePatternFlag string
	allowOnlyFlag   bool
	projectFlag     string
	jsonFlag        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "typecollect [path]",
		Short:        "Statically collect JS/TS test suites without running them",
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.IntVar(&workersFlag, "workers", collect.DefaultWorkers, "concurrent file collections (0 = GOMAXPROCS)")
	flags.DurationVar(&timeoutFlag, "timeout", collect.DefaultTimeout, "overall collection timeout")
	flags.StringArrayVar(&patternFlags, "pattern", nil, "glob pattern filtering test files (can be repeated)")
	flags.StringArrayVarP(&excludeFlags, "exclude", "x", nil, "directory name to skip (can be repeated)")
	flags.StringVarP(&namePatternFlag, "name-pattern", "t", "", "skip tests whose full name does not match this regexp")
	flags.BoolVar(&allowOnlyFlag, "allow-only", false, "permit focused (.only) tests")
	flags.StringVar(&projectFlag, "project", "", "subproject name discriminating file IDs")
	flags.BoolVar(&jsonFlag, "json", false, "print the full result as JSON")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	opts := []collect.Option{
		collect.WithWorkers(workersFlag),
		collect.WithTimeout(timeoutFlag),
		collect.WithPatterns(patternFlags),
		collect.WithExcludePatterns(excludeFlags),
		collect.WithAllowOnly(allowOnlyFlag),
		collect.WithProjectName(projectFlag),
	}
	if namePatternFlag != "" {
		re, err := regexp.Compile(namePatternFlag)
		if err != nil {
			return fmt.Errorf("invalid name pattern: %w", err)
		}
		opts = append(opts, collect.WithNamePattern(re))
	}

	result, err := collect.Collect(cmd.Context(), root, opts...)
	if err != nil {
		return err
	}

	for _, cerr := range result.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", cerr)
	}

	if jsonFlag {
		return printJSON(cmd, result)
	}

	suites := 0
	for _, file := range result.Files {
		fmt.Fprintln(cmd.OutOrStdout(), file.File.Name)
		printTree(cmd, file.File, 1)
		suites += file.File.CountSuites()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d files, %d suites, %d tests (%s)\n",
		result.Stats.FilesCollected,
		suites,
		result.Stats.TestsCollected,
		result.Stats.Duration.Round(time.Millisecond),
	)
	return nil
}

func printJSON(cmd *cobra.Command, result *collect.Result) error {
	output := struct {
		RootPath string               `json:"rootPath"`
		Files    []*domain.ParsedFile `json:"files"`
		Stats    collect.Stats        `json:"stats"`
	}{
		RootPath: result.RootPath,
		Files:    result.Files,
		Stats:    result.Stats,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func printTree(cmd *cobra.Command, node *domain.TaskNode, depth int) {
	for _, child := range node.Children {
		label := child.Name
		if child.Mode != domain.ModeRun {
			label += " [" + string(child.Mode) + "]"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", depth), label)

		if child.Kind == domain.KindSuite {
			printTree(cmd, child, depth+1)
		}
	}
}
