package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// DefaultFilename derives the output file name from the current time, e.g.
// "2024-03-14@09;05;07.123456.csv". Colons are avoided so the name is valid
// on every file system.
func DefaultFilename(now time.Time) string {
	return now.Format("2006-01-02@15;04;05.000000") + ".csv"
}

// Confirmer decides whether an existing output file may be overwritten.
type Confirmer interface {
	Confirm(path string) (bool, error)
}

// AlwaysOverwrite confirms every overwrite.
type AlwaysOverwrite struct{}

func (AlwaysOverwrite) Confirm(string) (bool, error) { return true, nil }

// PromptConfirmer asks on a terminal; "y" and "yes" in any case confirm.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer reads answers from in and writes the question to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &PromptConfirmer{in: br, out: out}
}

func (c *PromptConfirmer) Confirm(path string) (bool, error) {
	fmt.Fprintf(c.out, "%s already exists. Overwrite it? [y/N]: ", path)
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// CreateOutput creates path for writing. An existing file is only truncated
// after confirm agrees; a nil confirm never overwrites.
func CreateOutput(path string, confirm Confirmer) (*os.File, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, common.NewAppError(common.CodeOutput, "create "+path,
			fmt.Errorf("%w: is a directory", common.ErrInvalidOutputTarget))
	}
	if dir := filepath.Dir(path); dir != "" {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			return nil, common.NewAppError(common.CodeOutput, "create "+path,
				fmt.Errorf("%w: directory %s does not exist", common.ErrInvalidOutputTarget, dir))
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return nil, common.NewAppError(common.CodeOutput, "create "+path,
			fmt.Errorf("%w: %w", common.ErrInvalidOutputTarget, err))
	}

	ok := false
	if confirm != nil {
		if ok, err = confirm.Confirm(path); err != nil {
			return nil, common.NewAppError(common.CodeOutput, "confirm overwrite of "+path, err)
		}
	}
	if !ok {
		return nil, common.NewAppError(common.CodeOutput, "not overwriting "+path, common.ErrOutputAlreadyExists)
	}

	f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, common.NewAppError(common.CodeOutput, "create "+path,
			fmt.Errorf("%w: %w", common.ErrInvalidOutputTarget, err))
	}
	return f, nil
}
