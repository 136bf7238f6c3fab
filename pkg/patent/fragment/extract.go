package fragment

import (
	"errors"
	"strconv"
	"strings"

	"github.com/patentflow/patentflow/pkg/patent/internalerr"
)

var errBadDate = errors.New("not a YYYYMMDD date")

// TextOr returns the trimmed text at path, or ("", false) when the path or
// its text is absent. Missing data is routine in the bulk files and is never
// an error.
func (n *Node) TextOr(path string) (string, bool) {
	t := n.Find(path)
	if t == nil {
		return "", false
	}
	s := strings.TrimSpace(t.Text)
	if s == "" {
		return "", false
	}
	return s, true
}

// Int coerces the text at path to an integer. Absence and malformed values
// both fail loudly: a numeric field that exists but does not parse means the
// document (or entity) is not trustworthy.
func (n *Node) Int(path string) (int, error) {
	s, ok := n.TextOr(path)
	if !ok {
		return 0, &internalerr.FieldError{Path: path, Value: ""}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &internalerr.FieldError{Path: path, Value: s, Err: err}
	}
	return v, nil
}

// AttrInt coerces an attribute of the node itself to an integer.
func (n *Node) AttrInt(name string) (int, error) {
	s, ok := n.Attr(name)
	if !ok {
		return 0, &internalerr.FieldError{Path: "@" + name, Value: ""}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &internalerr.FieldError{Path: "@" + name, Value: s, Err: err}
	}
	return v, nil
}

// Date coerces a YYYYMMDD field at path into storage form YYYY-MM-DD.
// Returns ("", false, nil) when the field is absent.
func (n *Node) Date(path string) (string, bool, error) {
	raw, ok := n.TextOr(path)
	if !ok {
		return "", false, nil
	}
	d, err := NormalizeDate(raw, false)
	if err != nil {
		return "", false, &internalerr.FieldError{Path: path, Value: raw, Err: err}
	}
	return d, true, nil
}

// NormalizeDate converts a raw YYYYMMDD token to YYYY-MM-DD. A day of "00"
// is a documented sentinel meaning "first of month" and becomes "01"; this
// is a lossy transformation, not an error. When monthSentinel is set, a
// month of "00" likewise becomes January 1st (citation dates carry this
// extra degenerate form).
func NormalizeDate(raw string, monthSentinel bool) (string, error) {
	if len(raw) != 8 {
		return "", errBadDate
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", errBadDate
		}
	}
	year, month, day := raw[:4], raw[4:6], raw[6:]
	if monthSentinel && month == "00" {
		return year + "-01-01", nil
	}
	if day == "00" {
		day = "01"
	}
	return year + "-" + month + "-" + day, nil
}
