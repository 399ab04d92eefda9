package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/election-audit/audit-cli/internal/fetcher"
	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/reconcile"
)

// Archive layout of the OCR results repository.
const (
	ConstituencySubdir = "data/matched/constituency"
	PartyListSubdir    = "data/matched/party_list"
)

// OCRDirs are the two directories of per-district OCR result files.
type OCRDirs struct {
	Constituency string
	PartyList    string
}

// LoadOCRDir reads every "*.json" file in dir into a sheet keyed by the file
// name without extension ("10_1.json" -> "10_1"). Files that fail to parse
// are logged and skipped. A missing directory yields an empty map.
func LoadOCRDir(dir string) (map[string]model.OCRSheet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("source: ocr directory not found", zap.String("dir", dir))
			return map[string]model.OCRSheet{}, nil
		}
		return nil, eris.Wrapf(err, "source: read ocr dir %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sheets := make([]model.OCRSheet, 0, len(names))
	skipped := 0
	for _, name := range names {
		sheet, err := readSheet(filepath.Join(dir, name))
		if err != nil {
			skipped++
			zap.L().Warn("source: could not parse ocr file, skipping",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}
		sheet.FileID = strings.TrimSuffix(name, ".json")
		sheets = append(sheets, sheet)
	}

	zap.L().Info("source: ocr directory loaded",
		zap.String("dir", dir),
		zap.Int("files", len(sheets)),
		zap.Int("skipped", skipped),
	)
	return reconcile.IndexSheets(filepath.Base(dir), sheets), nil
}

func readSheet(path string) (model.OCRSheet, error) {
	var s model.OCRSheet
	data, err := os.ReadFile(path)
	if err != nil {
		return s, eris.Wrap(err, "source: read file")
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, eris.Wrap(err, "source: decode sheet")
	}
	return s, nil
}

// FetchOCRArchive unpacks a ZIP download of the OCR results repository (a
// local path or URL) into workDir and returns the two result directories.
func (l *Loader) FetchOCRArchive(ctx context.Context, archive, workDir string) (OCRDirs, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return OCRDirs{}, eris.Wrap(err, "source: create work dir")
	}

	path := archive
	if fetcher.IsURL(archive) {
		if l.Fetcher == nil {
			return OCRDirs{}, eris.Errorf("source: no http fetcher for %s", archive)
		}
		path = filepath.Join(workDir, "ocr.zip")
		n, err := l.Fetcher.DownloadToFile(ctx, archive, path)
		if err != nil {
			return OCRDirs{}, eris.Wrap(err, "source: download ocr archive")
		}
		zap.L().Info("source: downloaded ocr archive", zap.String("url", archive), zap.Int64("bytes", n))
	}

	dest := filepath.Join(workDir, "extract")
	files, err := fetcher.ExtractZIP(path, dest)
	if err != nil {
		return OCRDirs{}, eris.Wrap(err, "source: extract ocr archive")
	}
	zap.L().Info("source: extracted ocr archive", zap.Int("files", len(files)))

	con, err := fetcher.FindDir(dest, ConstituencySubdir)
	if err != nil {
		return OCRDirs{}, err
	}
	pl, err := fetcher.FindDir(dest, PartyListSubdir)
	if err != nil {
		return OCRDirs{}, err
	}
	return OCRDirs{Constituency: con, PartyList: pl}, nil
}

// LoadOCR reads both result directories.
func LoadOCR(dirs OCRDirs) (constituency, partyList map[string]model.OCRSheet, err error) {
	constituency, err = LoadOCRDir(dirs.Constituency)
	if err != nil {
		return nil, nil, err
	}
	partyList, err = LoadOCRDir(dirs.PartyList)
	if err != nil {
		return nil, nil, err
	}
	return constituency, partyList, nil
}
