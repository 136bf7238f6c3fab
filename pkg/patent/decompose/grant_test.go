package decompose

import (
	"testing"

	"github.com/patentflow/patentflow/pkg/patent/classify"
	"github.com/patentflow/patentflow/pkg/patent/entity"
)

const grantDoc = `<us-patent-grant>
<us-bibliographic-data-grant>
<publication-reference><document-id>
<country>US</country><doc-number>D0801234</doc-number><kind>S1</kind><date>20180109</date>
</document-id></publication-reference>
<application-reference appl-type="design"><document-id>
<country>US</country><doc-number>29551316</doc-number><date>20160112</date>
</document-id></application-reference>
<us-application-series-code>29</us-application-series-code>
<priority-claims>
<priority-claim sequence="01" kind="national"><country>DE</country><doc-number>102016100</doc-number><date>20150601</date></priority-claim>
</priority-claims>
<invention-title id="d0">Display screen</invention-title>
<us-term-of-grant><length-of-grant>14</length-of-grant></us-term-of-grant>
<classifications-ipcr>
<classification-ipcr>
<ipc-version-indicator><date>20060101</date></ipc-version-indicator>
<classification-level>A</classification-level>
<section>G</section><class>06</class><subclass>F</subclass>
<main-group>3</main-group><subgroup>048</subgroup>
<symbol-position>F</symbol-position>
<classification-value>I</classification-value>
<action-date><date>20180109</date></action-date>
<classification-status>B</classification-status>
<classification-data-source>H</classification-data-source>
</classification-ipcr>
</classifications-ipcr>
<classification-national><country>US</country><main-classification>D14138</main-classification><further-classification>D14138</further-classification></classification-national>
<references-cited>
<citation><patcit><document-id><country>US</country><doc-number>5123456</doc-number><kind>A</kind><name>Smith</name><date>19900000</date></document-id></patcit><category>cited by examiner</category></citation>
<citation><patcit><document-id><country>US</country><doc-number>2005/0123456</doc-number><kind>A1</kind></document-id></patcit><category>cited by applicant</category></citation>
<citation><patcit><document-id><country>EP</country><doc-number>1234567</doc-number></document-id></patcit><category>cited by examiner</category></citation>
<citation><nplcit><othercit>Widget Journal, vol. 3.</othercit></nplcit><category>cited by examiner</category></citation>
</references-cited>
<number-of-claims>2</number-of-claims>
<us-exemplary-claim>1</us-exemplary-claim>
<figures><number-of-drawing-sheets>7</number-of-drawing-sheets><number-of-figures>7</number-of-figures></figures>
<us-related-documents>
<continuation><relation>
<parent-doc><document-id><country>US</country><doc-number>14123456</doc-number><date>20140301</date></document-id><parent-status>GRANTED</parent-status></parent-doc>
<child-doc><document-id><country>US</country><doc-number>29551316</doc-number></document-id></child-doc>
</relation></continuation>
</us-related-documents>
<us-parties>
<us-applicants>
<us-applicant sequence="001" app-type="applicant" designation="us-only" applicant-authority-category="assignee">
<addressbook><orgname>Acme Corp</orgname><address><city>Springfield</city><state>IL</state><country>US</country></address></addressbook>
</us-applicant>
<us-applicant sequence="002" app-type="applicant-inventor" designation="us-only">
<addressbook><last-name>Rivera</last-name><first-name>Ana</first-name><address><city>Lyon</city><country>FR</country></address></addressbook>
</us-applicant>
</us-applicants>
<inventors>
<inventor sequence="001" designation="us-only">
<addressbook><last-name>Rivera</last-name><first-name>Ana</first-name><address><city>Lyon</city><country>FR</country></address></addressbook>
</inventor>
</inventors>
<agents>
<agent sequence="01" rep-type="attorney">
<addressbook><orgname>Patel &amp; Lowe LLP</orgname><address><country>US</country></address></addressbook>
</agent>
</agents>
</us-parties>
<assignees>
<assignee>
<addressbook><orgname>Acme Corp</orgname><role>02</role><address><city>Springfield</city><state>IL</state><country>US</country></address></addressbook>
</assignee>
</assignees>
<examiners>
<primary-examiner><last-name>Doe</last-name><first-name>J</first-name><department>2915</department></primary-examiner>
<assistant-examiner><last-name>Nguyen</last-name><first-name>T</first-name></assistant-examiner>
</examiners>
</us-bibliographic-data-grant>
<abstract id="abstract"><p num="0000">The ornamental design for a display screen.</p></abstract>
<description id="description">
<?BRFSUM description="Brief Summary" end="lead"?>
<p num="0001">A short summary.</p>
<?BRFSUM description="Brief Summary" end="tail"?>
<?RELAPP description="Other Patent Relations" end="lead"?>
<heading level="1">CROSS-REFERENCE</heading>
<p num="0002">This is a continuation of application 14123456.</p>
<?RELAPP description="Other Patent Relations" end="tail"?>
<?DETDESC description="Detailed Description" end="lead"?>
<p num="0003">The detail.</p>
<?DETDESC description="Detailed Description" end="tail"?>
<description-of-drawings>
<p num="0004">FIG. 1 is a front view.</p>
</description-of-drawings>
</description>
<claims id="claims">
<claim id="CLM-00001" num="00001"><claim-text>1. A widget.</claim-text></claim>
<claim id="CLM-00002" num="00002"><claim-text>2. The widget of <claim-ref idref="CLM-00001">claim 1</claim-ref>.</claim-text></claim>
</claims>
</us-patent-grant>`

func decomposeGrant(t *testing.T) (*entity.Batch, *classify.Accumulator) {
	t.Helper()
	frag := parseDoc(t, grantDoc, "us-patent-grant")
	classes := classify.NewAccumulator()
	g := NewGrant(classes)

	b := &entity.Batch{}
	if err := g.Primary(frag, "ipg180109.xml", b); err != nil {
		t.Fatalf("Primary: %v", err)
	}
	for _, task := range g.Tasks(frag, b) {
		apply, err := task.Run()
		if err != nil {
			t.Fatalf("task %s: %v", task.Entity, err)
		}
		apply(b)
	}
	return b, classes
}

func TestGrantIdentify(t *testing.T) {
	frag := parseDoc(t, grantDoc, "us-patent-grant")
	g := NewGrant(classify.NewAccumulator())
	id, err := g.Identify(frag)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if id != "D801234" {
		t.Errorf("Identify = %q, want D801234", id)
	}
}

func TestGrantPrimary(t *testing.T) {
	b, _ := decomposeGrant(t)
	p := b.Patent
	if p.ID != "D801234" || p.AppID != 29551316 {
		t.Errorf("Patent ids = (%q, %d)", p.ID, p.AppID)
	}
	if p.Type != "design" || p.Kind != "S1" || p.Country != "US" {
		t.Errorf("Patent metadata = (%q, %q, %q)", p.Type, p.Kind, p.Country)
	}
	if p.Date != "2018-01-09" {
		t.Errorf("Patent date = %q", p.Date)
	}
	if p.NumClaims != 2 || p.Filename != "ipg180109.xml" {
		t.Errorf("Patent claims/filename = (%d, %q)", p.NumClaims, p.Filename)
	}
	if p.Abstract == "" || p.Title != "Display screen" {
		t.Errorf("Patent text = (%q, %q)", p.Abstract, p.Title)
	}
}

func TestGrantApplicationChild(t *testing.T) {
	b, _ := decomposeGrant(t)
	a := b.Application
	if a == nil {
		t.Fatal("No application row")
	}
	if a.ID != "2016/29551316" || a.PatentID != "D801234" {
		t.Errorf("Application ids = (%q, %q)", a.ID, a.PatentID)
	}
	if a.SeriesCode != "29" || a.Date != "2016-01-12" {
		t.Errorf("Application fields = (%q, %q)", a.SeriesCode, a.Date)
	}
}

func TestGrantClaims(t *testing.T) {
	b, _ := decomposeGrant(t)
	if len(b.Claims) != 2 {
		t.Fatalf("Got %d claims, want 2", len(b.Claims))
	}
	c1, c2 := b.Claims[0], b.Claims[1]
	if !c1.Exemplary || c2.Exemplary {
		t.Errorf("Exemplary flags = (%v, %v), want (true, false)", c1.Exemplary, c2.Exemplary)
	}
	if c1.Dependent != nil {
		t.Errorf("Claim 1 should be independent")
	}
	if c2.Dependent == nil || *c2.Dependent != 1 {
		t.Errorf("Claim 2 dependent = %v, want 1", c2.Dependent)
	}
	if c1.Text != "A widget." {
		t.Errorf("Claim text = %q, numbering should be stripped", c1.Text)
	}
	if c1.Sequence != 1 || c2.Sequence != 2 {
		t.Errorf("Claim sequences = (%d, %d)", c1.Sequence, c2.Sequence)
	}
}

func TestGrantCitationRouting(t *testing.T) {
	b, _ := decomposeGrant(t)
	if len(b.USPatentCits) != 1 || len(b.USAppCits) != 1 || len(b.ForeignCits) != 1 || len(b.OtherRefs) != 1 {
		t.Fatalf("Routing counts = (%d, %d, %d, %d), want (1, 1, 1, 1)",
			len(b.USPatentCits), len(b.USAppCits), len(b.ForeignCits), len(b.OtherRefs))
	}
	us := b.USPatentCits[0]
	if us.CitationID != "5123456" || us.Date != "1990-01-01" {
		t.Errorf("US citation = (%q, %q)", us.CitationID, us.Date)
	}
	if b.USAppCits[0].ApplicationID != "2005/0123456" {
		t.Errorf("App citation id = %q", b.USAppCits[0].ApplicationID)
	}
	if b.ForeignCits[0].Country != "EP" {
		t.Errorf("Foreign citation country = %q", b.ForeignCits[0].Country)
	}
}

func TestGrantPartyRouting(t *testing.T) {
	b, _ := decomposeGrant(t)
	if len(b.NonInventorApps) != 1 {
		t.Fatalf("Got %d non-inventor applicants, want 1", len(b.NonInventorApps))
	}
	nia := b.NonInventorApps[0]
	if nia.Organization != "Acme Corp" || nia.ApplicantType != "assignee" {
		t.Errorf("Non-inventor applicant = (%q, %q)", nia.Organization, nia.ApplicantType)
	}
	// One from <inventors>, one routed from the applicant-inventor entry.
	if len(b.Inventors) != 2 {
		t.Fatalf("Got %d inventors, want 2", len(b.Inventors))
	}
	for _, inv := range b.Inventors {
		if inv.NameLast != "Rivera" {
			t.Errorf("Inventor = %q", inv.NameLast)
		}
		if inv.RawLocationID == "" {
			t.Error("Inventor missing location back-reference")
		}
	}
	if len(b.Lawyers) != 1 || b.Lawyers[0].Organization != "Patel & Lowe LLP" {
		t.Errorf("Lawyers = %+v", b.Lawyers)
	}
	if len(b.Examiners) != 2 {
		t.Fatalf("Got %d examiners, want 2", len(b.Examiners))
	}
	if b.Examiners[0].Role != "primary" || b.Examiners[1].Role != "assistant" {
		t.Errorf("Examiner roles = (%q, %q)", b.Examiners[0].Role, b.Examiners[1].Role)
	}
	if b.Examiners[1].NameLast != "Nguyen" {
		t.Errorf("Assistant examiner = %q", b.Examiners[1].NameLast)
	}
}

func TestGrantAssignee(t *testing.T) {
	b, _ := decomposeGrant(t)
	if len(b.Assignees) != 1 {
		t.Fatalf("Got %d assignees, want 1", len(b.Assignees))
	}
	a := b.Assignees[0]
	if a.Organization != "Acme Corp" || a.Type != "02" {
		t.Errorf("Assignee = (%q, %q)", a.Organization, a.Type)
	}
}

func TestGrantClassifications(t *testing.T) {
	b, classes := decomposeGrant(t)
	if len(b.USPCs) != 1 {
		t.Fatalf("Got %d uspc rows, want 1", len(b.USPCs))
	}
	u := b.USPCs[0]
	if u.MainClassID != "D14" || u.SubClassID != "D14/138" {
		t.Errorf("USPC = (%q, %q)", u.MainClassID, u.SubClassID)
	}
	mains, subs := classes.Len()
	if mains != 1 || subs != 1 {
		t.Errorf("Accumulated (%d, %d) classes", mains, subs)
	}
	if len(b.IPCRs) != 1 || b.IPCRs[0].Section != "G" || b.IPCRs[0].VersionDate != "2006-01-01" {
		t.Errorf("IPCR = %+v", b.IPCRs)
	}
	// Design patent: first D class becomes the WIPO field.
	if len(b.WIPOFields) != 1 || b.WIPOFields[0].FieldID != "D14" {
		t.Errorf("WIPO fields = %+v", b.WIPOFields)
	}
}

func TestGrantTextSections(t *testing.T) {
	b, _ := decomposeGrant(t)
	byRel := make(map[string][]entity.TextSection)
	for _, s := range b.TextSections {
		byRel[s.Relation] = append(byRel[s.Relation], s)
	}
	if got := byRel[entity.RelBriefSummary]; len(got) != 1 || got[0].Text != "A short summary." {
		t.Errorf("Brief summary = %+v", got)
	}
	if got := byRel[entity.RelDetailDesc]; len(got) != 1 || got[0].Text != "The detail." {
		t.Errorf("Detail description = %+v", got)
	}
	if got := byRel[entity.RelRelAppText]; len(got) != 2 {
		t.Errorf("Got %d rel_app_text rows, want 2 (heading + paragraph)", len(got))
	}
	if got := byRel[entity.RelDrawDescText]; len(got) != 1 || got[0].Sequence != 4 {
		t.Errorf("Drawing descriptions = %+v", got)
	}
	if got := byRel[entity.RelGovernmentInterest]; len(got) != 0 {
		t.Errorf("Unexpected government interest rows: %+v", got)
	}
}

func TestGrantSupplementBlocks(t *testing.T) {
	b, _ := decomposeGrant(t)
	if b.TermOfGrant == nil || b.TermOfGrant.TermGrant != "14" {
		t.Errorf("Term of grant = %+v", b.TermOfGrant)
	}
	if b.Figures == nil || b.Figures.NumFigures != 7 || b.Figures.NumSheets != 7 {
		t.Errorf("Figures = %+v", b.Figures)
	}
	if b.Botanic != nil {
		t.Errorf("Unexpected botanic row: %+v", b.Botanic)
	}
	if len(b.RelatedDocs) != 2 {
		t.Fatalf("Got %d related docs, want 2", len(b.RelatedDocs))
	}
	parent := b.RelatedDocs[0]
	if parent.DocType != "continuation" || parent.RelKind != "parent-doc" || parent.Status != "GRANTED" {
		t.Errorf("Parent doc = %+v", parent)
	}
	if b.RelatedDocs[1].RelKind != "child-doc" {
		t.Errorf("Child doc = %+v", b.RelatedDocs[1])
	}
	if len(b.Priorities) != 1 || b.Priorities[0].Country != "DE" || b.Priorities[0].Date != "2015-06-01" {
		t.Errorf("Priorities = %+v", b.Priorities)
	}
	if len(b.Locations) == 0 {
		t.Error("No rawlocation rows generated")
	}
}
