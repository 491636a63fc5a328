package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// noteFallback tells the operator a value is a default standing in for a
// failed read.
func noteFallback(w io.Writer, key string, err error) {
	if err != nil {
		fmt.Fprintf(w, "warning: %s unreadable, showing default (%v)\n", key, err)
	}
}
