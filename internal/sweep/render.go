package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/agbru/fibbench/pkg/models"
)

// row is one index with the fastest read of every algorithm.
type row struct {
	k       uint64
	digits  int
	elapsed map[string]int64
}

// pivot groups points by index. Rows are in index order.
func pivot(points []models.SweepPoint) []row {
	byK := make(map[uint64]*row)
	for _, p := range points {
		r, ok := byK[p.K]
		if !ok {
			r = &row{k: p.K, digits: p.Digits, elapsed: make(map[string]int64)}
			byK[p.K] = r
		}
		r.elapsed[p.Algorithm] = p.ElapsedNS
	}
	rows := make([]row, 0, len(byK))
	for _, r := range byK {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].k < rows[j].k })
	return rows
}

func header(algorithms []string) []string {
	h := []string{"k", "digits"}
	for _, a := range algorithms {
		h = append(h, a+" (ns)")
	}
	return h
}

func record(r row, algorithms []string) []string {
	rec := []string{strconv.FormatUint(r.k, 10), strconv.Itoa(r.digits)}
	for _, a := range algorithms {
		if ns, ok := r.elapsed[a]; ok {
			rec = append(rec, strconv.FormatInt(ns, 10))
		} else {
			rec = append(rec, "-")
		}
	}
	return rec
}

// RenderTable writes one row per index and one timing column per
// algorithm as an ASCII table.
func RenderTable(out io.Writer, points []models.SweepPoint, algorithms []string) {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header(algorithms))
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)
	for _, r := range pivot(points) {
		table.Append(record(r, algorithms))
	}
	table.Render()
}

// RenderCSV writes the same rows as RenderTable in CSV.
func RenderCSV(out io.Writer, points []models.SweepPoint, algorithms []string) error {
	w := csv.NewWriter(out)
	if err := w.Write(header(algorithms)); err != nil {
		return err
	}
	for _, r := range pivot(points) {
		if err := w.Write(record(r, algorithms)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// Render writes points in format, "table" or "csv".
func Render(out io.Writer, format string, points []models.SweepPoint, algorithms []string) error {
	switch format {
	case "csv":
		return RenderCSV(out, points, algorithms)
	case "table", "":
		RenderTable(out, points, algorithms)
		return nil
	}
	return fmt.Errorf("unknown sweep format %q", format)
}
