// Package source loads the reconciler inputs: the four spreadsheet tables
// (JSON artifacts, CSV exports, XLSX sheets or URLs of any of those) and the
// OCR result directories.
package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/election-audit/audit-cli/internal/convert"
	"github.com/election-audit/audit-cli/internal/fetcher"
	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/reconcile"
)

// ErrNoData is returned when the primary (plot) table cannot be loaded or
// has no rows.
var ErrNoData = eris.New("source: no primary data")

// Locations names where each table is read from. Only Plot is required.
type Locations struct {
	Plot         string
	Constituency string
	PartyList    string
	Referendum   string
}

// Loader reads tables from files or URLs.
type Loader struct {
	Fetcher  fetcher.Fetcher
	Encoding string // charset of CSV inputs
}

// LoadPrimary loads the four tables concurrently. An optional table that
// fails to load is logged and left empty; a plot table that fails to load or
// is empty yields ErrNoData.
func (l *Loader) LoadPrimary(ctx context.Context, loc Locations) (reconcile.PrimaryInput, error) {
	var in reconcile.PrimaryInput
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if loc.Plot == "" {
			return eris.Wrap(ErrNoData, "source: plot location not configured")
		}
		rows, err := l.LoadRows(gctx, loc.Plot)
		if err != nil {
			return eris.Wrapf(ErrNoData, "source: load plot %s: %v", loc.Plot, err)
		}
		if len(rows) == 0 {
			return eris.Wrapf(ErrNoData, "source: plot %s has no rows", loc.Plot)
		}
		in.Plot = rows
		return nil
	})

	optional := []struct {
		name     string
		location string
		dst      *[]model.RawRow
	}{
		{"constituency", loc.Constituency, &in.Constituency},
		{"party_list", loc.PartyList, &in.PartyList},
		{"referendum", loc.Referendum, &in.Referendum},
	}
	for _, o := range optional {
		g.Go(func() error {
			if o.location == "" {
				zap.L().Debug("source: table not configured", zap.String("table", o.name))
				return nil
			}
			rows, err := l.LoadRows(gctx, o.location)
			if err != nil {
				zap.L().Warn("source: optional table unavailable, continuing without it",
					zap.String("table", o.name),
					zap.String("location", o.location),
					zap.Error(err),
				)
				return nil
			}
			*o.dst = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reconcile.PrimaryInput{}, err
	}

	zap.L().Info("source: tables loaded",
		zap.Int("plot", len(in.Plot)),
		zap.Int("constituency", len(in.Constituency)),
		zap.Int("party_list", len(in.PartyList)),
		zap.Int("referendum", len(in.Referendum)),
	)
	return in, nil
}

// LoadRows reads one table. The format follows the location: ".json" is an
// array of objects, ".xlsx" a workbook (a "#Sheet" suffix picks the sheet),
// anything else is CSV with a header row.
func (l *Loader) LoadRows(ctx context.Context, location string) ([]model.RawRow, error) {
	switch formatOf(location) {
	case "xlsx":
		path, sheet := splitSheet(location)
		if fetcher.IsURL(path) {
			return nil, eris.Errorf("source: remote workbooks are not supported, run convert first (%s)", path)
		}
		tbl, err := fetcher.ReadXLSXTable(path, fetcher.XLSXOptions{SheetName: sheet})
		if err != nil {
			return nil, err
		}
		return tableRows(tbl), nil
	case "json":
		rc, err := fetcher.Open(ctx, l.Fetcher, location)
		if err != nil {
			return nil, err
		}
		defer rc.Close() //nolint:errcheck
		rows, err := fetcher.ReadJSONArray[model.RawRow](ctx, rc)
		if err != nil {
			return nil, eris.Wrapf(err, "source: decode %s", location)
		}
		return rows, nil
	default:
		rc, err := fetcher.Open(ctx, l.Fetcher, location)
		if err != nil {
			return nil, err
		}
		defer rc.Close() //nolint:errcheck
		tbl, err := fetcher.ReadCSVTable(ctx, rc, fetcher.CSVOptions{Encoding: l.Encoding, LazyQuotes: true})
		if err != nil {
			return nil, eris.Wrapf(err, "source: read %s", location)
		}
		return tableRows(tbl), nil
	}
}

func tableRows(tbl *fetcher.Table) []model.RawRow {
	conv := convert.Rows(tbl)
	rows := make([]model.RawRow, len(conv))
	for i, r := range conv {
		rows[i] = model.RawRow(r.Values)
	}
	return rows
}

func formatOf(location string) string {
	l := strings.ToLower(location)
	if fetcher.IsURL(l) && (strings.Contains(l, "format=csv") || strings.Contains(l, "output=csv")) {
		return "csv"
	}
	if i := strings.IndexAny(l, "?#"); i >= 0 {
		if strings.HasSuffix(l[:i], ".xlsx") {
			return "xlsx"
		}
		l = l[:i]
	}
	switch filepath.Ext(l) {
	case ".json":
		return "json"
	case ".xlsx":
		return "xlsx"
	default:
		return "csv"
	}
}

func splitSheet(location string) (string, string) {
	if i := strings.LastIndexByte(location, '#'); i >= 0 {
		return location[:i], location[i+1:]
	}
	return location, ""
}
