// Package convert turns spreadsheet exports of the election-analysis sheet
// into the JSON artifacts the reconcilers read.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/election-audit/audit-cli/internal/fetcher"
	"github.com/election-audit/audit-cli/internal/normalize"
)

// Job converts one sheet export into one JSON artifact.
type Job struct {
	Name   string // logical table name, e.g. "plot"
	Input  string // file path or URL; .xlsx inputs are read as a workbook
	Sheet  string // workbook sheet name; ignored for CSV
	Output string // artifact file name inside the output directory
}

// Result reports the outcome of one job.
type Result struct {
	Job     Job
	Rows    int
	Skipped bool
	Err     error
}

// DefaultJobs lists the four tables of the public spreadsheet as exported
// to CSV ("<sheet>.csv" files next to each other in dir).
func DefaultJobs(dir string) []Job {
	return []Job{
		{Name: "plot", Input: filepath.Join(dir, "ElectionData-Analysis-Public - Plot.csv"), Sheet: "Plot", Output: "plot.json"},
		{Name: "constituency", Input: filepath.Join(dir, "ElectionData-Analysis-Public - สสแบ่งเขต.csv"), Sheet: "สสแบ่งเขต", Output: "constituency.json"},
		{Name: "party_list", Input: filepath.Join(dir, "ElectionData-Analysis-Public - party list.csv"), Sheet: "party list", Output: "partylist.json"},
		{Name: "referendum", Input: filepath.Join(dir, "ElectionData-Analysis-Public - referendum.csv"), Sheet: "referendum", Output: "referendum.json"},
	}
}

// WorkbookJobs is DefaultJobs reading every table from one XLSX workbook.
func WorkbookJobs(workbook string) []Job {
	jobs := DefaultJobs("")
	for i := range jobs {
		jobs[i].Input = workbook
	}
	return jobs
}

// Converter writes artifacts to OutputDir.
type Converter struct {
	OutputDir string
	Encoding  string
	Fetcher   fetcher.Fetcher
}

// ConvertAll runs every job. Missing inputs are skipped and failing jobs are
// logged; neither stops the remaining jobs.
func (c *Converter) ConvertAll(ctx context.Context, jobs []Job) []Result {
	log := zap.L().With(zap.String("output_dir", c.OutputDir))
	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		if ctx.Err() != nil {
			results = append(results, Result{Job: job, Err: eris.Wrap(ctx.Err(), "convert: cancelled")})
			continue
		}
		if !fetcher.IsURL(job.Input) {
			if _, err := os.Stat(job.Input); os.IsNotExist(err) {
				log.Warn("convert: input not found, skipping", zap.String("input", job.Input))
				results = append(results, Result{Job: job, Skipped: true})
				continue
			}
		}
		n, err := c.Convert(ctx, job)
		if err != nil {
			log.Error("convert: job failed", zap.String("job", job.Name), zap.Error(err))
		} else {
			log.Info("convert: wrote artifact",
				zap.String("job", job.Name),
				zap.String("output", job.Output),
				zap.Int("rows", n),
			)
		}
		results = append(results, Result{Job: job, Rows: n, Err: err})
	}
	return results
}

// Convert runs one job and returns the number of rows written.
func (c *Converter) Convert(ctx context.Context, job Job) (int, error) {
	tbl, err := c.readTable(ctx, job)
	if err != nil {
		return 0, err
	}

	rows := Rows(tbl)
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return 0, eris.Wrap(err, "convert: create output dir")
	}
	if err := fetcher.WriteJSONFile(filepath.Join(c.OutputDir, job.Output), rows); err != nil {
		return 0, eris.Wrapf(err, "convert: write %s", job.Output)
	}
	return len(rows), nil
}

func (c *Converter) readTable(ctx context.Context, job Job) (*fetcher.Table, error) {
	if isWorkbook(job.Input) {
		path := job.Input
		if fetcher.IsURL(path) {
			if c.Fetcher == nil {
				return nil, eris.Errorf("convert: no http fetcher for %s", path)
			}
			tmp, err := os.MkdirTemp("", "audit-convert-*")
			if err != nil {
				return nil, eris.Wrap(err, "convert: create temp dir")
			}
			defer os.RemoveAll(tmp) //nolint:errcheck
			local := filepath.Join(tmp, "workbook.xlsx")
			if _, err := c.Fetcher.DownloadToFile(ctx, path, local); err != nil {
				return nil, eris.Wrap(err, "convert: download workbook")
			}
			path = local
		}
		tbl, err := fetcher.ReadXLSXTable(path, fetcher.XLSXOptions{SheetName: job.Sheet})
		if err != nil {
			return nil, eris.Wrapf(err, "convert: read sheet %q", job.Sheet)
		}
		return tbl, nil
	}

	rc, err := fetcher.Open(ctx, c.Fetcher, job.Input)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	tbl, err := fetcher.ReadCSVTable(ctx, rc, fetcher.CSVOptions{Encoding: c.Encoding, LazyQuotes: true})
	if err != nil {
		return nil, eris.Wrapf(err, "convert: read %s", job.Input)
	}
	return tbl, nil
}

func isWorkbook(location string) bool {
	l := strings.ToLower(location)
	if i := strings.IndexByte(l, '?'); i >= 0 {
		l = l[:i]
	}
	return strings.HasSuffix(l, ".xlsx")
}

// Row is one converted record. Keys keep the header order of the sheet when
// marshalled.
type Row struct {
	Keys   []string
	Values map[string]any
}

// MarshalJSON writes the row as an object in header order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.Values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Rows converts a table to records. Headers are trimmed; a repeated header
// keeps its first position and its last value. Cells beyond the header are
// dropped and missing trailing cells are omitted.
func Rows(tbl *fetcher.Table) []Row {
	header := make([]string, len(tbl.Header))
	for i, h := range tbl.Header {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(tbl.Rows))
	for _, cells := range tbl.Rows {
		r := Row{Values: make(map[string]any, len(header))}
		for i, h := range header {
			if i >= len(cells) {
				break
			}
			if _, seen := r.Values[h]; !seen {
				r.Keys = append(r.Keys, h)
			}
			r.Values[h] = Value(cells[i])
		}
		rows = append(rows, r)
	}
	return rows
}

// Value trims a cell and turns it into a JSON number when it is numeric once
// thousands separators are removed ("-1,000" becomes -1000). Anything else
// stays a trimmed string.
func Value(cell string) any {
	trimmed := strings.TrimSpace(cell)
	f, ok := normalize.Number(trimmed)
	if !ok {
		return trimmed
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}
