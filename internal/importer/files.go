package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/stmtflow/internal/logger"
	"github.com/cleared-dev/stmtflow/internal/model"
)

// FileInfo describes an importable file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// importDir is the drop directory for statements.
const importDir = "import"

// processedDir receives files after a successful import.
const processedDir = "import/processed"

// Extensions lists the importable file types.
var Extensions = []string{".txt", ".csv", ".xlsx"}

func importable(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan returns importable files in <repoRoot>/import/, sorted by name.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !importable(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// ImportFile imports a statement text (.txt), CSV (.csv) or workbook (.xlsx).
func (im *Importer) ImportFile(ctx context.Context, req Request, path string) (*model.ImportResult, error) {
	if req.Source == "" {
		req.Source = filepath.Base(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading statement: %w", err)
		}
		return im.ImportText(ctx, req, string(data))

	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening CSV: %w", err)
		}
		defer f.Close()
		t, err := ReadCSV(f)
		if err != nil {
			return nil, err
		}
		return im.ImportTable(ctx, req, t)

	case ".xlsx":
		t, err := ReadXLSX(path)
		if err != nil {
			return nil, err
		}
		return im.ImportTable(ctx, req, t)
	}
	return nil, fmt.Errorf("unsupported file type %q (want %s)", filepath.Ext(path), strings.Join(Extensions, ", "))
}

// DirResult is the outcome for one file of a bulk import.
type DirResult struct {
	File   FileInfo
	Result *model.ImportResult
	Err    error
}

// ImportDir imports every file in <repoRoot>/import/ with at most workers
// files in flight. Each file is an independent import; one failing does not
// stop the others. Imported files are moved to import/processed/ unless the
// request is a dry run. Results follow Scan order.
func (im *Importer) ImportDir(ctx context.Context, repoRoot string, req Request, workers int) ([]DirResult, error) {
	files, err := Scan(repoRoot)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	log := logger.FromContext(ctx)

	results := make([]DirResult, len(files))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			r := req
			r.Source = f.Name
			res, err := im.ImportFile(ctx, r, f.Path)
			results[i] = DirResult{File: f, Result: res, Err: err}
			if err != nil {
				log.Error().Err(err).Str("file", f.Name).Msg("file import failed")
				return nil
			}
			if !req.DryRun {
				if err := MarkProcessed(repoRoot, f.Name); err != nil {
					results[i].Err = err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
