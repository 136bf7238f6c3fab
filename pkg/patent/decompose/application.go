package decompose

import (
	"fmt"

	"github.com/patentflow/patentflow/pkg/patent/classify"
	"github.com/patentflow/patentflow/pkg/patent/entity"
	"github.com/patentflow/patentflow/pkg/patent/fragment"
	"github.com/patentflow/patentflow/pkg/patent/internalerr"
)

// App decomposes <us-patent-application> fragments. The application corpus
// fans out into far fewer relations than the grant corpus: no citations, no
// examiners, no grant-only blocks.
type App struct {
	ids     *IDSource
	classes *classify.Accumulator
}

// NewApp returns an application-corpus decomposer set sharing the run-scoped
// classification accumulator.
func NewApp(classes *classify.Accumulator) *App {
	return &App{ids: NewIDSource(), classes: classes}
}

// Tag names the document element this corpus streams on.
func (a *App) Tag() string { return "us-patent-application" }

// Relations lists every relation a supersede cycle must clear.
func (a *App) Relations() []string { return entity.ApplicationRelations }

// Identify extracts the document id: publication year + "/" + normalized
// publication document number.
func (a *App) Identify(frag *fragment.Node) (string, error) {
	bib := frag.Find("us-bibliographic-data-application")
	if bib == nil {
		return "", &internalerr.DocumentError{Err: fmt.Errorf("missing us-bibliographic-data-application")}
	}
	docno, ok := bib.TextOr("publication-reference/document-id/doc-number")
	if !ok {
		return "", &internalerr.DocumentError{Err: fmt.Errorf("missing publication doc-number")}
	}
	date, ok, err := bib.Date("publication-reference/document-id/date")
	if err != nil || !ok {
		return "", &internalerr.DocumentError{Err: fmt.Errorf("missing publication date")}
	}
	return date[:4] + "/" + NormalizeDocNumber(docno), nil
}

// Primary decomposes the application row. Failure here invalidates the whole
// document.
func (a *App) Primary(frag *fragment.Node, filename string, b *entity.Batch) error {
	bib := frag.Find("us-bibliographic-data-application")
	if bib == nil {
		return &internalerr.DocumentError{Err: fmt.Errorf("missing us-bibliographic-data-application")}
	}
	docID, err := a.Identify(frag)
	if err != nil {
		return err
	}
	appRef := bib.Find("application-reference")
	appID, err := bib.Int("application-reference/document-id/doc-number")
	if err != nil {
		return &internalerr.DocumentError{DocID: docID, Err: err}
	}
	date, _, err := bib.Date("application-reference/document-id/date")
	if err != nil {
		return &internalerr.DocumentError{DocID: docID, Err: err}
	}
	applType, _ := appRef.Attr("appl-type")

	b.Application = &entity.Application{
		ID:        docID,
		AppID:     appID,
		Type:      applType,
		Number:    text(bib, "publication-reference/document-id/doc-number"),
		Country:   text(bib, "publication-reference/document-id/country"),
		Date:      date,
		Abstract:  abstractText(frag),
		Title:     text(bib, "invention-title"),
		NumClaims: len(frag.FindAll("claims/claim")),
		Filename:  filename,
	}
	return nil
}

// Tasks returns the independent child decomposers for one fragment. Primary
// must have run first.
func (a *App) Tasks(frag *fragment.Node, b *entity.Batch) []Task {
	bib := frag.Find("us-bibliographic-data-application")
	app := b.Application
	return []Task{
		{Entity: entity.RelClaim, Run: func() (Apply, error) {
			rows, err := a.claims(frag, app)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.Claims = rows }, nil
		}},
		{Entity: entity.RelDescription, Run: func() (Apply, error) {
			row := a.description(frag, app)
			return func(b *entity.Batch) {
				if row != nil {
					b.TextSections = append(b.TextSections, *row)
				}
			}, nil
		}},
		{Entity: entity.RelUSPC, Run: func() (Apply, error) {
			rows, err := a.uspc(bib, app)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) { b.USPCs = rows }, nil
		}},
		{Entity: entity.RelRawAssignee, Run: func() (Apply, error) {
			rows, locs, err := a.assignees(bib, app)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) {
				b.Assignees = rows
				b.Locations = append(b.Locations, locs...)
			}, nil
		}},
		{Entity: entity.RelRawInventor, Run: func() (Apply, error) {
			rows, locs, err := a.inventors(bib, app)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) {
				b.Inventors = rows
				b.Locations = append(b.Locations, locs...)
			}, nil
		}},
		{Entity: entity.RelApplicant, Run: func() (Apply, error) {
			rows, locs, err := a.applicants(bib, app)
			if err != nil {
				return nil, err
			}
			return func(b *entity.Batch) {
				b.Applicants = rows
				b.Locations = append(b.Locations, locs...)
			}, nil
		}},
	}
}

func (a *App) claims(frag *fragment.Node, app *entity.Application) ([]entity.Claim, error) {
	var rows []entity.Claim
	for _, c := range frag.FindAll("claims/claim") {
		seq, err := c.AttrInt("num")
		if err != nil {
			return nil, err
		}
		rows = append(rows, entity.Claim{
			DocID:     app.ID,
			AppID:     app.AppID,
			Text:      cleanBlockText(c),
			Dependent: dependentRef(c),
			Sequence:  seq,
		})
	}
	return rows, nil
}

// description keeps the application body as one undivided text block; the
// application files carry no section markers worth splitting on.
func (a *App) description(frag *fragment.Node, app *entity.Application) *entity.TextSection {
	desc := frag.Find("description")
	if desc == nil {
		return nil
	}
	t := desc.AllText()
	if t == "" {
		return nil
	}
	return &entity.TextSection{
		DocID:    app.ID,
		AppID:    app.AppID,
		Relation: entity.RelDescription,
		Text:     t,
	}
}

func (a *App) uspc(bib *fragment.Node, app *entity.Application) ([]entity.USPC, error) {
	var rows []entity.USPC
	seq := 0
	for _, el := range bib.FindAll("classification-national") {
		if raw, ok := el.TextOr("main-classification"); ok {
			main, sub, hasSub := classify.Normalize(raw)
			a.classes.RecordMain(main)
			if hasSub {
				a.classes.RecordSub(sub)
			}
		}
		raw, ok := el.TextOr("further-classification")
		if !ok {
			continue
		}
		main, sub, hasSub := classify.Normalize(raw)
		a.classes.RecordMain(main)
		if !hasSub {
			continue
		}
		a.classes.RecordSub(sub)
		rows = append(rows, entity.USPC{
			DocID:       app.ID,
			AppID:       app.AppID,
			MainClassID: main,
			SubClassID:  sub,
			Sequence:    seq,
		})
		seq++
	}
	return rows, nil
}

func (a *App) assignees(bib *fragment.Node, app *entity.Application) ([]entity.RawAssignee, []entity.RawLocation, error) {
	var rows []entity.RawAssignee
	var locs []entity.RawLocation
	for seq, el := range bib.FindAll("assignees/assignee") {
		role, ok := el.TextOr("addressbook/role")
		if !ok {
			role = text(el, "role")
		}
		locID := a.ids.next()
		rows = append(rows, entity.RawAssignee{
			DocID:         app.ID,
			AppID:         app.AppID,
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

func (a *App) inventors(bib *fragment.Node, app *entity.Application) ([]entity.RawInventor, []entity.RawLocation, error) {
	els := bib.FindAll("us-parties/inventors/inventor")
	if len(els) == 0 {
		// Pre-2013 schema.
		els = bib.FindAll("parties/inventors/inventor")
	}
	var rows []entity.RawInventor
	var locs []entity.RawLocation
	for i, el := range els {
		seq := i
		if v, err := el.AttrInt("sequence"); err == nil {
			seq = v
		}
		locID := a.ids.next()
		rows = append(rows, entity.RawInventor{
			DocID:         app.ID,
			AppID:         app.AppID,
			RawLocationID: locID,
			NameFirst:     text(el, "addressbook/first-name"),
			NameLast:      text(el, "addressbook/last-name"),
			City:          text(el, "addressbook/address/city"),
			State:         text(el, "addressbook/address/state"),
			Country:       text(el, "addressbook/address/country"),
			Sequence:      seq,
		})
		locs = append(locs, partyLocation(locID, el))
	}
	return rows, locs, nil
}

func (a *App) applicants(bib *fragment.Node, app *entity.Application) ([]entity.Applicant, []entity.RawLocation, error) {
	els := bib.FindAll("us-parties/us-applicants/us-applicant")
	if len(els) == 0 {
		els = bib.FindAll("parties/applicants/applicant")
	}
	var rows []entity.Applicant
	var locs []entity.RawLocation
	for i, el := range els {
		seq := i
		if v, err := el.AttrInt("sequence"); err == nil {
			seq = v
		}
		designation, _ := el.Attr("designation")
		appType, _ := el.Attr("app-type")
		locID := a.ids.next()
		rows = append(rows, entity.Applicant{
			DocID:         app.ID,
			AppID:         app.AppID,
			RawLocationID: locID,
			NameFirst:     text(el, "addressbook/first-name"),
			NameLast:      text(el, "addressbook/last-name"),
			Organization:  text(el, "addressbook/orgname"),
			Designation:   designation,
			ApplicantType: appType,
			Sequence:      seq,
		})
		locs = append(locs, partyLocation(locID, el))
	}
	return rows, locs, nil
}

func partyLocation(id string, party *fragment.Node) entity.RawLocation {
	return entity.RawLocation{
		ID:      id,
		City:    text(party, "addressbook/address/city"),
		State:   text(party, "addressbook/address/state"),
		Country: text(party, "addressbook/address/country"),
	}
}
