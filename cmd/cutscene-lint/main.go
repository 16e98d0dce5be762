// Command cutscene-lint validates cutscene documents without running them.
//
//	cutscene-lint [-format text|json|yaml] file...
//
// Directories are expanded to the .json, .yaml and .yml files they contain.
// The exit status is 1 when any document has authoring errors or cannot be
// read.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/AaronLay10/SentientCutscene/internal/authoring"
	"github.com/AaronLay10/SentientCutscene/internal/config"
	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
)

func main() {
	format := flag.String("format", "text", "output format: text, json or yaml")
	flag.Parse()

	write, ok := writers[*format]
	if !ok {
		config.Exitf("unknown format %q", *format)
	}
	if flag.NArg() == 0 {
		config.Exitf("usage: cutscene-lint [-format text|json|yaml] file...")
	}

	paths, err := expand(flag.Args())
	if err != nil {
		config.Exitf("%v", err)
	}

	reports, err := lint(paths)
	if err != nil {
		config.Exitf("%v", err)
	}
	if err := write(os.Stdout, reports); err != nil {
		config.Exitf("failed to write report: %v", err)
	}
	for _, r := range reports {
		if !r.Valid {
			os.Exit(1)
		}
	}
}

var writers = map[string]func(io.Writer, []authoring.Report) error{
	"text": authoring.WriteText,
	"json": authoring.WriteJSON,
	"yaml": authoring.WriteYAML,
}

func expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".json", ".yaml", ".yml":
				if !e.IsDir() {
					found = append(found, filepath.Join(arg, e.Name()))
				}
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

// lint validates every path concurrently. Reports keep argument order.
func lint(paths []string) ([]authoring.Report, error) {
	reports := make([]authoring.Report, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			doc, err := cutscene.ReadDocument(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = authoring.NewReport(path, authoring.Validate(doc))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
