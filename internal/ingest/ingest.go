package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
)

// Selection splits command-line names into invoice documents and rejects.
type Selection struct {
	Valid   []string
	Invalid []string
}

// SplitByExtension keeps names with an allowed extension (case-insensitive)
// and reports the rest as invalid. Blank names are ignored.
func SplitByExtension(names []string) Selection {
	var sel Selection
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if constants.IsAllowedExt(filepath.Ext(n)) {
			sel.Valid = append(sel.Valid, n)
		} else {
			sel.Invalid = append(sel.Invalid, n)
		}
	}
	return sel
}

// FilenamePrompt is shown when no documents are given on the command line.
const FilenamePrompt = "Input the name (or names, separated by spaces) of an invoice pdf: "

// PromptFilenames asks for space separated document names on one line.
func PromptFilenames(in io.Reader, out io.Writer) ([]string, error) {
	fmt.Fprint(out, FilenamePrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read filenames: %w", err)
	}
	return strings.Fields(line), nil
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && base != ".." && strings.HasPrefix(base, ".")
}
