package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
)

// Inspect resolves path and fingerprints its content.
func Inspect(path string) (entity.InvoiceFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return entity.InvoiceFile{}, fmt.Errorf("abs path: %w", err)
	}

	f, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.InvoiceFile{}, fmt.Errorf("%w: %s", common.ErrDocumentNotFound, path)
		}
		return entity.InvoiceFile{}, fmt.Errorf("%w: open %s: %w", common.ErrUnreadableDocument, path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return entity.InvoiceFile{}, fmt.Errorf("%w: stat %s: %w", common.ErrUnreadableDocument, path, err)
	}
	if fi.IsDir() {
		return entity.InvoiceFile{}, fmt.Errorf("%w: %s is a directory", common.ErrDocumentNotFound, path)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return entity.InvoiceFile{}, fmt.Errorf("%w: hash %s: %w", common.ErrUnreadableDocument, path, err)
	}

	return entity.InvoiceFile{
		ID:          uuid.New(),
		SourcePath:  abs,
		ContentHash: hex.EncodeToString(h.Sum(nil)),
		Filename:    filepath.Base(abs),
		FileExt:     constants.NormalizeExt(filepath.Ext(abs)),
		FileSize:    fi.Size(),
		ModTime:     fi.ModTime().UTC(),
	}, nil
}
