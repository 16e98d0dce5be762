package authoring

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Report is the validation outcome of one document source.
type Report struct {
	Source string           `json:"source" yaml:"source"`
	Valid  bool             `json:"valid" yaml:"valid"`
	Errors []AuthoringError `json:"errors" yaml:"errors"`
}

// NewReport wraps the errors of one source.
func NewReport(source string, errs []AuthoringError) Report {
	if errs == nil {
		errs = []AuthoringError{}
	}
	return Report{Source: source, Valid: len(errs) == 0, Errors: errs}
}

// CountByCode tallies errors per code.
func (r Report) CountByCode() map[string]int {
	counts := make(map[string]int, len(r.Errors))
	for _, e := range r.Errors {
		counts[e.Code]++
	}
	return counts
}

// WriteText writes one line per error, followed by a per-code summary.
func WriteText(w io.Writer, reports []Report) error {
	for _, r := range reports {
		if r.Valid {
			if _, err := fmt.Fprintf(w, "%s: ok\n", r.Source); err != nil {
				return err
			}
			continue
		}
		for _, e := range r.Errors {
			if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", r.Source, e.Code, e.Path, e.Message); err != nil {
				return err
			}
		}
		counts := r.CountByCode()
		codes := make([]string, 0, len(counts))
		for code := range counts {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			if _, err := fmt.Fprintf(w, "%s: %d x %s\n", r.Source, counts[code], code); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON writes the reports as an indented JSON array.
func WriteJSON(w io.Writer, reports []Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// WriteYAML writes the reports as a YAML sequence.
func WriteYAML(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}
