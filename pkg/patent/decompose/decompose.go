// Package decompose turns one document fragment into typed relation rows.
// Each decomposer is a pure function over the fragment and the already
// decomposed primary record; the only generated state is the opaque location
// back-reference ids.
package decompose

import (
	"crypto/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/patentflow/patentflow/pkg/patent/fragment"
)

// IDSource mints opaque ids for rawlocation back-references. ULIDs are 26
// characters of Crockford base32, which is plenty of entropy for
// per-occurrence location rows.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates an id source backed by crypto/rand.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *IDSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

var (
	digitsRe  = regexp.MustCompile(`\d+`)
	lettersRe = regexp.MustCompile(`[A-Za-z]+`)
	leadNumRe = regexp.MustCompile(`^\d+\.\s*`)
)

// NormalizeDocNumber strips the zero padding USPTO document numbers carry:
// the first leading zero of the numeric part is dropped and any letter
// prefix (D, RE, PP, ...) is kept. "D0801234" becomes "D801234",
// "09876543" becomes "9876543".
func NormalizeDocNumber(raw string) string {
	num := digitsRe.FindString(raw)
	if num == "" {
		return raw
	}
	if !strings.HasPrefix(num, "0") {
		return num
	}
	num = num[1:]
	if let := lettersRe.FindString(raw); let != "" {
		return let + num
	}
	return num
}

// cleanBlockText flattens an element's full text: tags gone, whitespace
// collapsed, any leading "1. " claim numbering removed.
func cleanBlockText(n *fragment.Node) string {
	return leadNumRe.ReplaceAllString(n.AllText(), "")
}

// dependentRef finds a <claim-ref idref="CLM-n"> anywhere under the claim
// and returns n.
func dependentRef(claim *fragment.Node) *int {
	ref := descendant(claim, "claim-ref")
	if ref == nil {
		return nil
	}
	idref, _ := ref.Attr("idref")
	s := strings.TrimPrefix(idref, "CLM-")
	v, err := strconv.Atoi(strings.TrimLeft(s, "0"))
	if err != nil {
		return nil
	}
	return &v
}

func descendant(n *fragment.Node, name string) *fragment.Node {
	for _, c := range n.Children {
		if c.Kind != fragment.Element {
			continue
		}
		if c.Name == name {
			return c
		}
		if d := descendant(c, name); d != nil {
			return d
		}
	}
	return nil
}

// abstractText joins the <abstract> paragraphs of a document.
func abstractText(doc *fragment.Node) string {
	var b strings.Builder
	for _, p := range doc.FindAll("abstract/p") {
		b.WriteString(p.AllText())
	}
	return b.String()
}

func text(n *fragment.Node, path string) string {
	s, _ := n.TextOr(path)
	return s
}
