package decompose

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/patentflow/patentflow/pkg/patent/fragment"
)

func parseDoc(t *testing.T, src, tag string) *fragment.Node {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(src))
	for {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("no <%s> element found: %v", tag, err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == tag {
			n, err := fragment.Parse(dec, se)
			if err != nil {
				t.Fatalf("parse fragment: %v", err)
			}
			return n
		}
	}
}

func TestNormalizeDocNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"D0801234", "D801234"},
		{"09876543", "9876543"},
		{"9876543", "9876543"},
		{"RE046555", "RE46555"},
		{"PP027521", "PP27521"},
		{"D801234", "D801234"},
		{"no digits", "no digits"},
	}
	for _, tt := range tests {
		if got := NormalizeDocNumber(tt.raw); got != tt.want {
			t.Errorf("NormalizeDocNumber(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanBlockText(t *testing.T) {
	doc := parseDoc(t, `<claim id="CLM-00001" num="00001">
<claim-text>1.  A widget comprising
<claim-text>a frobnicator;</claim-text>
</claim-text>
</claim>`, "claim")
	got := cleanBlockText(doc)
	want := "A widget comprising a frobnicator;"
	if got != want {
		t.Errorf("cleanBlockText = %q, want %q", got, want)
	}
}

func TestDependentRef(t *testing.T) {
	dep := parseDoc(t, `<claim num="00002">
<claim-text>2. The widget of <claim-ref idref="CLM-00001">claim 1</claim-ref>.</claim-text>
</claim>`, "claim")
	ref := dependentRef(dep)
	if ref == nil || *ref != 1 {
		t.Fatalf("dependentRef = %v, want 1", ref)
	}

	indep := parseDoc(t, `<claim num="00001"><claim-text>1. A widget.</claim-text></claim>`, "claim")
	if ref := dependentRef(indep); ref != nil {
		t.Errorf("Independent claim should have nil dependent, got %d", *ref)
	}
}

func TestIDSourceUnique(t *testing.T) {
	s := NewIDSource()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := s.next()
		if len(id) != 26 {
			t.Fatalf("ULID length = %d, want 26", len(id))
		}
		if seen[id] {
			t.Fatalf("Duplicate id %s", id)
		}
		seen[id] = true
	}
}
