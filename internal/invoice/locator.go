package invoice

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// Between returns the text strictly between the end of the first start anchor
// and the first end anchor that follows it, trimmed of surrounding whitespace.
func Between(text, start, end string) (string, error) {
	i := strings.Index(text, start)
	if i < 0 {
		return "", fmt.Errorf("%w: start anchor %q", common.ErrAnchorNotFound, start)
	}
	from := i + len(start)
	j := strings.Index(text[from:], end)
	if j < 0 {
		return "", fmt.Errorf("%w: end anchor %q", common.ErrAnchorNotFound, end)
	}
	return strings.TrimSpace(text[from : from+j]), nil
}

// ValueAfter returns the first whitespace-delimited token that follows the
// first occurrence of label, e.g. "531363" for label "Service Request Number"
// in "Service Request Number        531363".
func ValueAfter(text, label string) (string, error) {
	i := strings.Index(text, label)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", common.ErrLabelNotFound, label)
	}
	fields := strings.Fields(text[i+len(label):])
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: no value after %q", common.ErrLabelNotFound, label)
	}
	return fields[0], nil
}
