package decompose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/patentflow/patentflow/pkg/patent/classify"
	"github.com/patentflow/patentflow/pkg/patent/entity"
	"github.com/patentflow/patentflow/pkg/patent/fragment"
	"github.com/patentflow/patentflow/pkg/patent/internalerr"
)

// Grant decomposes <us-patent-grant> fragments (2018 redbook schema).
type Grant struct {
	ids     *IDSource
	classes *classify.Accumulator
}

// NewGrant returns a grant-corpus decomposer set sharing the run-scoped
// classification accumulator.
func NewGrant(classes *classify.Accumulator) *Grant {
	return &Grant{ids: NewIDSource(), classes: classes}
}

// Tag names the document element this corpus streams on.
func (g *Grant) Tag() string { return "us-patent-grant" }

// Relations lists every relation a supersede cycle must clear.
func (g *Grant) Relations() []string { return entity.GrantRelations }

// Identify extracts the normalized patent id, cheap enough to run before
// the versioning gate decides anything.
func (g *Grant) Identify(frag *fragment.Node) (string, error) {
	docno, ok := frag.TextOr("us-bibliographic-data-grant/publication-reference/document-id/doc-number")
	if !ok {
		return "", &internalerr.DocumentError{Err: fmt.Errorf("missing publication doc-number")}
	}
	return NormalizeDocNumber(docno), nil
}

// Primary decomposes the patent row. Failure here invalidates the whole
// document.
func (g *Grant) Primary(frag *fragment.Node, filename string, b *entity.Batch) error {
	bib := frag.Find("us-bibliographic-data-grant")
	if bib == nil {
		return &internalerr.DocumentError{Err: fmt.Errorf("missing us-bibliographic-data-grant")}
	}
	patentID, err := g.Identify(frag)
	if err != nil {
		return err
	}
	appRef := bib.Find("application-reference")
	appID, err := bib.Int("application-reference/document-id/doc-number")
	if err != nil {
		return &internalerr.DocumentError{DocID: patentID, Err: err}
	}
	date, _, err := bib.Date("publication-reference/document-id/date")
	if err != nil {
		return &internalerr.DocumentError{DocID: patentID, Err: err}
	}
	numClaims, err := bib.Int("number-of-claims")
	if err != nil {
		return &internalerr.DocumentError{DocID: patentID, Err: err}
	}
	applType, _ := appRef.Attr("appl-type")

	b.Patent = &entity.Patent{
		ID:        patentID,
		AppID:     appID,
		Type:      applType,
		Number:    text(bib, "publication-reference/document-id/doc-number"),
		Country:   text(bib, "publication-reference/document-id/country"),
		Date:      date,
		Abstract:  abstractText(frag),
		Title:     text(bib, "invention-title"),
		Kind:      text(bib, "publication-reference/document-id/kind"),
		NumClaims: numClaims,
		Filename:  filename,
	}
	// Plant patents map to WIPO technology field 36 directly.
	if applType == "plant" {
		b.WIPOFields = append(b.WIPOFields, entity.WIPOField{
			DocID: patentID, AppID: appID, FieldID: "36", Sequence: 0,
		})
	}
	return nil
}

// Tasks returns the independent child decomposers for one fragment. Primary
// must have run first; every closure reads b.Patent but writes nothing until
// its Apply runs under the coordinator.
func (g *Grant) Tasks(frag *fragment.Node, b *entity.Batch) []Task {
	bib := frag.Find("us-bibliographic-data-grant")
	p := b.Patent
	return []Task{
		{Entity: entity.RelApplication, Run: func() (Apply, error) {
			app, err := g.application(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.Application = app }, nil
		}},
		{Entity: entity.RelClaim, Run: func() (Apply, error) {
			rows, err := g.claims(frag, bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.Claims = rows }, nil
		}},
		{Entity: entity.RelIPCR, Run: func() (Apply, error) {
			rows, err := g.ipcr(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.IPCRs = rows }, nil
		}},
		{Entity: entity.RelUSPC, Run: func() (Apply, error) {
			rows, wipo, err := g.uspc(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) {
				b.USPCs = rows
				b.WIPOFields = append(b.WIPOFields, wipo...)
			}, nil
		}},
		{Entity: "citations", Run: func() (Apply, error) {
			us, app, foreign, other, err := g.citations(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) {
				b.USPatentCits, b.USAppCits = us, app
				b.ForeignCits, b.OtherRefs = foreign, other
			}, nil
		}},
		{Entity: entity.RelRawAssignee, Run: func() (Apply, error) {
			rows, locs, err := g.assignees(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) {
				b.Assignees = rows
				b.Locations = append(b.Locations, locs...)
			}, nil
		}},
		{Entity: entity.RelRawInventor, Run: func() (Apply, error) {
			rows, locs, err := g.inventors(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) {
				b.Inventors = append(b.Inventors, rows...)
				b.Locations = append(b.Locations, locs...)
			}, nil
		}},
		{Entity: entity.RelNonInventorApplicant, Run: func() (Apply, error) {
			apps, invs, locs, err := g.applicantParties(frag, bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) {
				b.NonInventorApps = apps
				b.Inventors = append(b.Inventors, invs...)
				b.Locations = append(b.Locations, locs...)
			}, nil
		}},
		{Entity: entity.RelRawLawyer, Run: func() (Apply, error) {
			rows, err := g.agents(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.Lawyers = rows }, nil
		}},
		{Entity: entity.RelRawExaminer, Run: func() (Apply, error) {
			rows, err := g.examiners(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.Examiners = rows }, nil
		}},
		{Entity: entity.RelRelatedDoc, Run: func() (Apply, error) {
			rows, err := g.relatedDocs(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.RelatedDocs = rows }, nil
		}},
		{Entity: entity.RelForeignPriority, Run: func() (Apply, error) {
			rows, err := g.priorities(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.Priorities = rows }, nil
		}},
		{Entity: entity.RelDrawDescText, Run: func() (Apply, error) {
			rows, err := g.drawingDescriptions(frag, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.TextSections = append(b.TextSections, rows...) }, nil
		}},
		{Entity: "description_sections", Run: func() (Apply, error) {
			rows, err := g.descriptionSections(frag, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.TextSections = append(b.TextSections, rows...) }, nil
		}},
		{Entity: entity.RelTermOfGrant, Run: func() (Apply, error) {
			row := g.termOfGrant(bib, p)
			return func(b *entity.Batch) { b.TermOfGrant = row }, nil
		}},
		{Entity: entity.RelPCTData, Run: func() (Apply, error) {
			rows, err := g.pctData(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.PCTData = rows }, nil
		}},
		{Entity: entity.RelFigures, Run: func() (Apply, error) {
			row, err := g.figures(bib, p)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.Figures = row }, nil
		}},
		{Entity: entity.RelBotanic, Run: func() (Apply, error) {
			row := g.botanic(bib, p)
			return func(b *entity.Batch) { b.Botanic = row }, nil
		}},
	}
}

func (g *Grant) application(bib *fragment.Node, p *entity.Patent) (*entity.Application, error) {
	appRef := bib.Find("application-reference")
	if appRef == nil {
		return nil, &internalerr.FieldError{Path: "application-reference", Value: ""}
	}
	date, ok, err := bib.Date("application-reference/document-id/date")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &internalerr.FieldError{Path: "application-reference/document-id/date", Value: ""}
	}
	series, ok := bib.TextOr("us-application-series-code")
	if !ok {
		series = ""
	}
	number := text(bib, "application-reference/document-id/doc-number")
	return &entity.Application{
		ID:         date[:4] + "/" + number,
		AppID:      p.AppID,
		PatentID:   p.ID,
		Type:       series,
		Number:     number,
		Country:    text(bib, "application-reference/document-id/country"),
		Date:       date,
		SeriesCode: series,
	}, nil
}

func (g *Grant) claims(frag, bib *fragment.Node, p *entity.Patent) ([]entity.Claim, error) {
	exemplary := make(map[string]bool)
	for _, ex := range bib.FindAll("us-exemplary-claim") {
		if s := strings.TrimSpace(ex.Text); s != "" {
			exemplary[strings.TrimLeft(s, "0")] = true
		}
	}
	var rows []entity.Claim
	for _, c := range frag.FindAll("claims/claim") {
		seq, err := c.AttrInt("num")
		if err != nil {
			return nil, err
		}
		num, _ := c.Attr("num")
		rows = append(rows, entity.Claim{
			DocID:     p.ID,
			AppID:     p.AppID,
			Text:      cleanBlockText(c),
			Dependent: dependentRef(c),
			Sequence:  seq,
			Exemplary: exemplary[strings.TrimLeft(num, "0")],
		})
	}
	return rows, nil
}

func (g *Grant) ipcr(bib *fragment.Node, p *entity.Patent) ([]entity.IPCR, error) {
	var rows []entity.IPCR
	for seq, el := range bib.FindAll("classifications-ipcr/classification-ipcr") {
		actionDate, _, err := el.Date("action-date/date")
		if err != nil {
			return nil, err
		}
		versionDate, _, err := el.Date("ipc-version-indicator/date")
		if err != nil {
			return nil, err
		}
		rows = append(rows, entity.IPCR{
			DocID:       p.ID,
			AppID:       p.AppID,
			Level:       text(el, "classification-level"),
			Section:     text(el, "section"),
			Class:       text(el, "class"),
			SubClass:    text(el, "subclass"),
			MainGroup:   text(el, "main-group"),
			SubGroup:    text(el, "subgroup"),
			SymbolPos:   text(el, "symbol-position"),
			Value:       text(el, "classification-value"),
			Status:      text(el, "classification-status"),
			DataSource:  text(el, "classification-data-source"),
			ActionDate:  actionDate,
			VersionDate: versionDate,
			Sequence:    seq,
		})
	}
	return rows, nil
}

// uspc normalizes every classification-national entry. The main
// classification feeds the canonical class sets only; further
// classifications additionally become uspc rows. A design patent's first
// D-class row also yields its WIPO field.
func (g *Grant) uspc(bib *fragment.Node, p *entity.Patent) ([]entity.USPC, []entity.WIPOField, error) {
	var rows []entity.USPC
	var wipo []entity.WIPOField
	seq := 0
	for _, el := range bib.FindAll("classification-national") {
		if raw, ok := el.TextOr("main-classification"); ok {
			main, sub, hasSub := classify.Normalize(raw)
			g.classes.RecordMain(main)
			if hasSub {
				g.classes.RecordSub(sub)
			}
		}
		raw, ok := el.TextOr("further-classification")
		if !ok {
			continue
		}
		main, sub, hasSub := classify.Normalize(raw)
		g.classes.RecordMain(main)
		if !hasSub {
			continue
		}
		g.classes.RecordSub(sub)
		rows = append(rows, entity.USPC{
			DocID:       p.ID,
			AppID:       p.AppID,
			MainClassID: main,
			SubClassID:  sub,
			Sequence:    seq,
		})
		if seq == 0 && strings.HasPrefix(main, "D") && p.Type == "design" {
			wipo = append(wipo, entity.WIPOField{
				DocID: p.ID, AppID: p.AppID, FieldID: main, Sequence: 0,
			})
		}
		seq++
	}
	return rows, wipo, nil
}

var plainDocNoRe = regexp.MustCompile(`^[A-Z]*\d+$`)

// citations routes each cited reference to the US-patent, US-application,
// foreign or other-reference relation. A US doc-number that is anything but
// an optional letter prefix plus digits is an application publication.
func (g *Grant) citations(bib *fragment.Node, p *entity.Patent) (
	us []entity.USPatentCitation,
	app []entity.USApplicationCitation,
	foreign []entity.ForeignCitation,
	other []entity.OtherReference,
	err error,
) {
	cits := bib.FindAll("references-cited/citation")
	if len(cits) == 0 {
		// 2021 schema renamed the block.
		cits = bib.FindAll("us-references-cited/us-citation")
	}
	usSeq, appSeq, forSeq, otherSeq := 0, 0, 0, 0
	for _, el := range cits {
		country := text(el, "patcit/document-id/country")
		docno, hasDocNo := el.TextOr("patcit/document-id/doc-number")
		appFlag := false
		if hasDocNo && plainDocNoRe.MatchString(docno) {
			docno = NormalizeDocNumber(docno)
		} else {
			appFlag = true
		}

		var date string
		if raw, ok := el.TextOr("patcit/document-id/date"); ok {
			date, err = fragment.NormalizeDate(raw, true)
			if err != nil {
				return nil, nil, nil, nil, &internalerr.FieldError{
					Path: "patcit/document-id/date", Value: raw, Err: err,
				}
			}
		}

		switch {
		case country == "US" && hasDocNo && !appFlag:
			us = append(us, entity.USPatentCitation{
				DocID:      p.ID,
				AppID:      p.AppID,
				CitationID: docno,
				Date:       date,
				Name:       text(el, "patcit/document-id/name"),
				Kind:       text(el, "patcit/document-id/kind"),
				Country:    country,
				Category:   text(el, "category"),
				Sequence:   usSeq,
			})
			usSeq++
		case country == "US" && hasDocNo && appFlag:
			app = append(app, entity.USApplicationCitation{
				DocID:         p.ID,
				AppID:         p.AppID,
				ApplicationID: docno,
				Date:          date,
				Name:          text(el, "patcit/document-id/name"),
				Kind:          text(el, "patcit/document-id/kind"),
				Number:        docno,
				Country:       country,
				Category:      text(el, "category"),
				Sequence:      appSeq,
			})
			appSeq++
		case country != "US" && hasDocNo:
			foreign = append(foreign, entity.ForeignCitation{
				DocID:    p.ID,
				AppID:    p.AppID,
				Date:     date,
				Number:   docno,
				Country:  country,
				Category: text(el, "category"),
				Sequence: forSeq,
			})
			forSeq++
		}
		if t, ok := el.TextOr("nplcit/othercit"); ok {
			other = append(other, entity.OtherReference{
				DocID:    p.ID,
				AppID:    p.AppID,
				Text:     t,
				Sequence: otherSeq,
			})
			otherSeq++
		}
	}
	return us, app, foreign, other, nil
}

func (g *Grant) assignees(bib *fragment.Node, p *entity.Patent) ([]entity.RawAssignee, []entity.RawLocation, error) {
	var rows []entity.RawAssignee
	var locs []entity.RawLocation
	for seq, el := range bib.FindAll("assignees/assignee") {
		role, ok := el.TextOr("addressbook/role")
		if !ok {
			role = text(el, "role")
		}
		locID := g.ids.next()
		rows = append(rows, entity.RawAssignee{
			DocID:         p.ID,
			AppID:         p.AppID,
			RawLocationID: locID,
			Type:          role,
			NameFirst:     text(el, "addressbook/first-name"),
			NameLast:      text(el, "addressbook/last-name"),
			Organization:  text(el, "addressbook/orgname"),
			City:          text(el, "addressbook/address/city"),
			State:         text(el, "addressbook/address/state"),
			Country:       text(el, "addressbook/address/country"),
			Sequence:      seq,
		})
		locs = append(locs, partyLocation(locID, el))
	}
	return rows, locs, nil
}

func (g *Grant) inventors(bib *fragment.Node, p *entity.Patent) ([]entity.RawInventor, []entity.RawLocation, error) {
	rule47 := bib.Find("rule-47-flag") != nil
	var rows []entity.RawInventor
	var locs []entity.RawLocation
	for seq, el := range bib.FindAll("us-parties/inventors/inventor") {
		locID := g.ids.next()
		rows = append(rows, entity.RawInventor{
			DocID:         p.ID,
			AppID:         p.AppID,
			RawLocationID: locID,
			NameFirst:     text(el, "addressbook/first-name"),
			NameLast:      text(el, "addressbook/last-name"),
			City:          text(el, "addressbook/address/city"),
			State:         text(el, "addressbook/address/state"),
			Country:       text(el, "addressbook/address/country"),
			Sequence:      seq,
			Rule47:        rule47,
		})
		locs = append(locs, partyLocation(locID, el))
	}
	return rows, locs, nil
}

// nonInventorTypes are the post-2013 applicant-authority-category values
// that mark an applicant who is not an inventor.
var nonInventorTypes = map[string]bool{
	"legal-representative": true,
	"party-of-interest":    true,
	"obligated-assignee":   true,
	"assignee":             true,
}

// applicantParties routes each us-applicant by its explicit type attributes,
// never by guessing from field presence: the 2013+ applicant-authority-category
// selects non-inventor applicants; the legacy app-type routes
// "applicant-inventor" entries to the inventor relation and everything else
// to non-inventor applicants.
func (g *Grant) applicantParties(frag, bib *fragment.Node, p *entity.Patent) (
	apps []entity.NonInventorApplicant,
	invs []entity.RawInventor,
	locs []entity.RawLocation,
	err error,
) {
	rule47 := bib.Find("rule-47-flag") != nil
	seq, invSeq := 0, 0
	for _, el := range bib.FindAll("us-parties/us-applicants/us-applicant") {
		locID := g.ids.next()
		locs = append(locs, partyLocation(locID, el))

		designation, _ := el.Attr("designation")
		earlierType, _ := el.Attr("app-type")
		laterType, _ := el.Attr("applicant-authority-category")

		switch {
		case nonInventorTypes[laterType]:
			apps = append(apps, entity.NonInventorApplicant{
				DocID:         p.ID,
				AppID:         p.AppID,
				RawLocationID: locID,
				NameFirst:     text(el, "addressbook/first-name"),
				NameLast:      text(el, "addressbook/last-name"),
				Organization:  text(el, "addressbook/orgname"),
				Designation:   designation,
				ApplicantType: laterType,
				Sequence:      seq,
			})
			seq++
		case earlierType == "applicant-inventor":
			invs = append(invs, entity.RawInventor{
				DocID:         p.ID,
				AppID:         p.AppID,
				RawLocationID: locID,
				NameFirst:     text(el, "addressbook/first-name"),
				NameLast:      text(el, "addressbook/last-name"),
				City:          text(el, "addressbook/address/city"),
				State:         text(el, "addressbook/address/state"),
				Country:       text(el, "addressbook/address/country"),
				Sequence:      invSeq,
				Rule47:        rule47,
			})
			invSeq++
		case earlierType != "":
			apps = append(apps, entity.NonInventorApplicant{
				DocID:         p.ID,
				AppID:         p.AppID,
				RawLocationID: locID,
				NameFirst:     text(el, "addressbook/first-name"),
				NameLast:      text(el, "addressbook/last-name"),
				Organization:  text(el, "addressbook/orgname"),
				Designation:   designation,
				ApplicantType: earlierType,
				Sequence:      seq,
			})
			seq++
		}
	}
	return apps, invs, locs, nil
}

func (g *Grant) agents(bib *fragment.Node, p *entity.Patent) ([]entity.RawLawyer, error) {
	var rows []entity.RawLawyer
	for seq, el := range bib.FindAll("us-parties/agents/agent") {
		rows = append(rows, entity.RawLawyer{
			DocID:        p.ID,
			AppID:        p.AppID,
			NameFirst:    text(el, "addressbook/first-name"),
			NameLast:     text(el, "addressbook/last-name"),
			Organization: text(el, "addressbook/orgname"),
			Country:      text(el, "addressbook/address/country"),
			Sequence:     seq,
		})
	}
	return rows, nil
}

func (g *Grant) examiners(bib *fragment.Node, p *entity.Patent) ([]entity.RawExaminer, error) {
	var rows []entity.RawExaminer
	for _, el := range bib.FindAll("examiners/primary-examiner") {
		rows = append(rows, g.examiner(el, p, "primary"))
	}
	for _, el := range bib.FindAll("examiners/assistant-examiner") {
		rows = append(rows, g.examiner(el, p, "assistant"))
	}
	return rows, nil
}

func (g *Grant) examiner(el *fragment.Node, p *entity.Patent, role string) entity.RawExaminer {
	return entity.RawExaminer{
		DocID:     p.ID,
		AppID:     p.AppID,
		NameFirst: text(el, "first-name"),
		NameLast:  text(el, "last-name"),
		Role:      role,
		Group:     text(el, "department"),
	}
}

var relatedDocTypes = []string{
	"division", "continuation", "continuation-in-part", "continuing-reissue",
	"us-divisional-reissue", "reexamination", "substitution",
	"us-provisional-application", "utility-model-basis", "reissue",
	"related-publication", "correction", "us-reexamination-reissue-merger",
}

var relatedDocRelations = []string{
	"parent-doc", "parent-grant-document", "parent-pct-document", "child-doc",
}

func (g *Grant) relatedDocs(bib *fragment.Node, p *entity.Patent) ([]entity.RelatedDoc, error) {
	related := bib.Find("us-related-documents")
	if related == nil {
		return nil, nil
	}
	var rows []entity.RelatedDoc
	seq := 0
	for _, docType := range relatedDocTypes {
		el := related.Find(docType)
		if el == nil {
			continue
		}
		if docType == "us-provisional-application" || docType == "related-publication" {
			date, _, err := el.Date("document-id/date")
			if err != nil {
				return nil, err
			}
			rows = append(rows, entity.RelatedDoc{
				DocID:    p.ID,
				AppID:    p.AppID,
				DocType:  docType,
				RelDocNo: text(el, "document-id/doc-number"),
				Country:  text(el, "document-id/country"),
				Date:     date,
				Kind:     text(el, "document-id/kind"),
				Sequence: seq,
			})
			seq++
			continue
		}
		for _, rel := range relatedDocRelations {
			relEl := el.Find("relation/" + rel)
			if relEl == nil {
				continue
			}
			date, _, err := relEl.Date("document-id/date")
			if err != nil {
				return nil, err
			}
			rows = append(rows, entity.RelatedDoc{
				DocID:    p.ID,
				AppID:    p.AppID,
				DocType:  docType,
				RelKind:  rel,
				RelDocNo: text(relEl, "document-id/doc-number"),
				Country:  text(relEl, "document-id/country"),
				Date:     date,
				Status:   text(relEl, "parent-status"),
				Kind:     text(relEl, "document-id/kind"),
				Sequence: seq,
			})
			seq++
		}
	}
	return rows, nil
}

func (g *Grant) priorities(bib *fragment.Node, p *entity.Patent) ([]entity.ForeignPriority, error) {
	var rows []entity.ForeignPriority
	for seq, el := range bib.FindAll("priority-claims/priority-claim") {
		date, _, err := el.Date("date")
		if err != nil {
			return nil, err
		}
		kind, _ := el.Attr("kind")
		rows = append(rows, entity.ForeignPriority{
			DocID:    p.ID,
			AppID:    p.AppID,
			Kind:     kind,
			Number:   text(el, "doc-number"),
			Date:     date,
			Country:  text(el, "country"),
			Sequence: seq,
		})
	}
	return rows, nil
}

func (g *Grant) drawingDescriptions(frag *fragment.Node, p *entity.Patent) ([]entity.TextSection, error) {
	var rows []entity.TextSection
	for _, el := range frag.FindAll("description/description-of-drawings/p") {
		seq, err := el.AttrInt("num")
		if err != nil {
			return nil, err
		}
		rows = append(rows, entity.TextSection{
			DocID:    p.ID,
			AppID:    p.AppID,
			Relation: entity.RelDrawDescText,
			Text:     el.AllText(),
			Sequence: seq,
		})
	}
	return rows, nil
}

func (g *Grant) termOfGrant(bib *fragment.Node, p *entity.Patent) *entity.TermOfGrant {
	el := bib.Find("us-term-of-grant")
	if el == nil {
		return nil
	}
	return &entity.TermOfGrant{
		DocID:          p.ID,
		AppID:          p.AppID,
		LapseOfPatent:  text(el, "lapse-of-patent"),
		TermDisclaimer: text(el, "text"),
		TermGrant:      text(el, "length-of-grant"),
		TermExtension:  text(el, "us-term-extension"),
	}
}

func (g *Grant) pctData(bib *fragment.Node, p *entity.Patent) ([]entity.PCTData, error) {
	var rows []entity.PCTData
	if el := bib.Find("pct-or-regional-publishing-data"); el != nil {
		date, _, err := el.Date("document-id/date")
		if err != nil {
			return nil, err
		}
		rows = append(rows, entity.PCTData{
			DocID:   p.ID,
			AppID:   p.AppID,
			RelID:   text(el, "document-id/doc-number"),
			Date:    date,
			Country: text(el, "document-id/country"),
			Kind:    text(el, "document-id/kind"),
			DocType: "wo_grant",
		})
	}
	if el := bib.Find("pct-or-regional-filing-data"); el != nil {
		date, _, err := el.Date("document-id/date")
		if err != nil {
			return nil, err
		}
		date371, _, err := el.Date("us-371c124-date/date")
		if err != nil {
			return nil, err
		}
		rows = append(rows, entity.PCTData{
			DocID:   p.ID,
			AppID:   p.AppID,
			RelID:   text(el, "document-id/doc-number"),
			Date:    date,
			Date371: date371,
			Country: text(el, "document-id/country"),
			Kind:    text(el, "document-id/kind"),
			DocType: "pct_application",
		})
	}
	return rows, nil
}

func (g *Grant) figures(bib *fragment.Node, p *entity.Patent) (*entity.Figures, error) {
	el := bib.Find("figures")
	if el == nil {
		return nil, nil
	}
	numFigures, err := el.Int("number-of-figures")
	if err != nil {
		return nil, err
	}
	numSheets, err := el.Int("number-of-drawing-sheets")
	if err != nil {
		return nil, err
	}
	return &entity.Figures{
		DocID:      p.ID,
		AppID:      p.AppID,
		NumFigures: numFigures,
		NumSheets:  numSheets,
	}, nil
}

func (g *Grant) botanic(bib *fragment.Node, p *entity.Patent) *entity.Botanic {
	el := bib.Find("us-botanic")
	if el == nil {
		return nil
	}
	return &entity.Botanic{
		DocID:     p.ID,
		AppID:     p.AppID,
		LatinName: text(el, "latin-name"),
		Variety:   text(el, "variety"),
	}
}
