package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type printer struct {
	w    io.Writer
	json bool
}

// print writes v as indented JSON, or as a table when the caller supplies
// one and JSON output was not requested.
func (p printer) print(v any, headers []string, rows [][]string) error {
	if p.json || headers == nil {
		return p.JSON(v)
	}
	return p.Table(headers, rows)
}

func (p printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func (p printer) Table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(p.w, t.String())
	return err
}

// Message prints a plain line, or {"message": ...} in JSON mode.
func (p printer) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		return p.JSON(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func itoa[T ~int | ~int64](n T) string {
	return strconv.FormatInt(int64(n), 10)
}

// optionalInt returns a pointer to the flag value only when it was set.
func optionalInt(changed bool, v int) *int {
	if !changed {
		return nil
	}
	return &v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
