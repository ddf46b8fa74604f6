package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pacedproton/mdslc/internal/batch"
)

var (
	compileJSON      bool
	compileOutputDir string
	compileJobs      int
)

func init() {
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "emit results as JSON instead of writing .sql/.cypher files")
	compileCmd.Flags().StringVar(&compileOutputDir, "output", "", "directory to write generated .sql/.cypher files into (default: alongside each source)")
	compileCmd.Flags().IntVar(&compileJobs, "jobs", 0, "maximum number of files compiled concurrently (0 = unlimited)")
}

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile MDSL sources to SQL and Cypher",
	Long:  "Compile one or more .mdsl files and write the generated SQL and Cypher output. This command never parses MDSL itself; it reads files and hands their text to the compiler pipeline.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := make([]batch.Source, 0, len(args))
		for _, path := range args {
			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			sources = append(sources, batch.Source{Path: path, Text: string(text)})
		}

		opts := []batch.Option{}
		if compileJobs > 0 {
			opts = append(opts, batch.WithConcurrency(compileJobs))
		}
		runner := batch.NewRunner(nil, opts...)

		results, err := runner.CompileAll(context.Background(), sources)
		if err != nil {
			return fmt.Errorf("batch compilation failed: %w", err)
		}

		if compileJSON {
			return printResultsJSON(results)
		}
		return writeResultFiles(results)
	},
}

func printResultsJSON(results []*batch.Result) error {
	type jsonResult struct {
		Path   string `json:"path"`
		SQL    string `json:"sql,omitempty"`
		Cypher string `json:"cypher,omitempty"`
		Error  string `json:"error,omitempty"`
	}
	out := make([]jsonResult, len(results))
	failed := false
	for i, r := range results {
		out[i] = jsonResult{Path: r.Path, SQL: r.SQL, Cypher: r.Cypher}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			failed = true
		}
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("compilation failed for one or more files")
	}
	return nil
}

func writeResultFiles(results []*batch.Result) error {
	failed := false
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
			failed = true
			continue
		}

		base := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
		dir := compileOutputDir
		if dir == "" {
			dir = filepath.Dir(r.Path)
		}

		sqlPath := filepath.Join(dir, base+".sql")
		if err := os.WriteFile(sqlPath, []byte(r.SQL), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", sqlPath, err)
		}

		cypherPath := filepath.Join(dir, base+".cypher")
		if err := os.WriteFile(cypherPath, []byte(r.Cypher), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cypherPath, err)
		}

		fmt.Printf("%s -> %s, %s%s\n", r.Path, sqlPath, cypherPath, cacheSuffix(r.Cached))
	}
	if failed {
		return fmt.Errorf("compilation failed for one or more files")
	}
	return nil
}

func cacheSuffix(cached bool) string {
	if cached {
		return " (cached)"
	}
	return ""
}
