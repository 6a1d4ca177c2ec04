package devserver

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
)

// render encodes tasks in the named format.
func render(format string, tasks []Task) ([]byte, string, error) {
	switch format {
	case "JSON":
		if tasks == nil {
			tasks = []Task{}
		}
		b, err := json.MarshalIndent(tasks, "", "  ")
		return b, "application/json", err
	case "CSV":
		b, err := renderTable(tasks, ',')
		return b, "text/csv", err
	case "TSV":
		b, err := renderTable(tasks, '\t')
		return b, "text/tab-separated-values", err
	}
	return nil, "", fmt.Errorf("no renderer for %s", format)
}

func renderTable(tasks []Task, sep rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sep

	cols := columns(tasks)
	if err := w.Write(cols); err != nil {
		return nil, err
	}
	row := make([]string, len(cols))
	for _, t := range tasks {
		for i, c := range cols {
			row[i] = ""
			if v, ok := t[c]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
