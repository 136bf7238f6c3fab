package fragment

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/patentflow/patentflow/pkg/patent/internalerr"
)

const sampleDoc = `<?xml version="1.0"?>
<root>
<doc id="42">
  <bib>
    <ref kind="pub">
      <number> 0123 </number>
      <date>20180109</date>
    </ref>
    <title>An <b>improved</b> widget</title>
    <item>one</item>
    <item>two</item>
  </bib>
  <body>
    <?SECTION description="Test" end="lead"?>
    <p num="0001">Body text.</p>
    <?SECTION description="Test" end="tail"?>
  </body>
</doc>
</root>`

func parseDoc(t *testing.T, src, tag string) *Node {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(src))
	for {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("no <%s> element found: %v", tag, err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == tag {
			n, err := Parse(dec, se)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			return n
		}
	}
}

func TestFind(t *testing.T) {
	doc := parseDoc(t, sampleDoc, "doc")

	if n := doc.Find("bib/ref/number"); n == nil {
		t.Fatal("bib/ref/number not found")
	}
	if n := doc.Find("bib/missing"); n != nil {
		t.Errorf("Expected nil for absent path, got %v", n)
	}
	if got, _ := doc.TextOr("bib/ref/number"); got != "0123" {
		t.Errorf("TextOr = %q, want trimmed %q", got, "0123")
	}
}

func TestFindAll(t *testing.T) {
	doc := parseDoc(t, sampleDoc, "doc")
	items := doc.FindAll("bib/item")
	if len(items) != 2 {
		t.Fatalf("FindAll returned %d items, want 2", len(items))
	}
	if items[0].Text != "one" || items[1].Text != "two" {
		t.Errorf("Items in wrong order: %q, %q", items[0].Text, items[1].Text)
	}
}

func TestAttr(t *testing.T) {
	doc := parseDoc(t, sampleDoc, "doc")
	if v, ok := doc.Attr("id"); !ok || v != "42" {
		t.Errorf("Attr(id) = (%q, %v), want (42, true)", v, ok)
	}
	if _, ok := doc.Attr("missing"); ok {
		t.Error("Expected absent attribute to report ok=false")
	}
	if v, err := doc.AttrInt("id"); err != nil || v != 42 {
		t.Errorf("AttrInt(id) = (%d, %v)", v, err)
	}
}

func TestAllText(t *testing.T) {
	doc := parseDoc(t, sampleDoc, "doc")
	if got := doc.Find("bib/title").AllText(); got != "An improved widget" {
		t.Errorf("AllText = %q", got)
	}
}

func TestProcInstPreserved(t *testing.T) {
	doc := parseDoc(t, sampleDoc, "doc")
	body := doc.Find("body")
	var pis []*Node
	for _, c := range body.Children {
		if c.Kind == ProcInst {
			pis = append(pis, c)
		}
	}
	if len(pis) != 2 {
		t.Fatalf("Expected 2 processing instructions, got %d", len(pis))
	}
	if pis[0].Name != "SECTION" || !strings.Contains(pis[0].Text, `end="lead"`) {
		t.Errorf("Unexpected lead marker: %q %q", pis[0].Name, pis[0].Text)
	}
}

func TestIntErrors(t *testing.T) {
	doc := parseDoc(t, sampleDoc, "doc")

	if v, err := doc.Int("bib/ref/number"); err != nil || v != 123 {
		t.Errorf("Int = (%d, %v), want (123, nil)", v, err)
	}
	_, err := doc.Int("bib/missing")
	fe, ok := internalerr.AsFieldError(err)
	if !ok {
		t.Fatalf("Expected FieldError for absent path, got %v", err)
	}
	if fe.Path != "bib/missing" {
		t.Errorf("FieldError path = %q", fe.Path)
	}
	if _, err := doc.Int("bib/title"); err == nil {
		t.Error("Expected error for non-numeric text")
	}
}

func TestDate(t *testing.T) {
	doc := parseDoc(t, sampleDoc, "doc")
	d, ok, err := doc.Date("bib/ref/date")
	if err != nil || !ok || d != "2018-01-09" {
		t.Errorf("Date = (%q, %v, %v)", d, ok, err)
	}
	d, ok, err = doc.Date("bib/missing")
	if err != nil || ok || d != "" {
		t.Errorf("Absent date = (%q, %v, %v), want (\"\", false, nil)", d, ok, err)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw           string
		monthSentinel bool
		want          string
		wantErr       bool
	}{
		{"20180115", false, "2018-01-15", false},
		{"20180100", false, "2018-01-01", false},
		{"19900000", true, "1990-01-01", false},
		{"19900000", false, "1990-00-01", false},
		{"2018011", false, "", true},
		{"2018-1-5", false, "", true},
		{"", false, "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeDate(tt.raw, tt.monthSentinel)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeDate(%q, %v) error = %v, wantErr %v", tt.raw, tt.monthSentinel, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeDate(%q, %v) = %q, want %q", tt.raw, tt.monthSentinel, got, tt.want)
		}
	}
}
