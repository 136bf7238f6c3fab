package entity

// Relation names. These double as table names in the store and as the
// delete set during a supersede cycle.
const (
	RelPatent               = "patent"
	RelApplication          = "application"
	RelClaim                = "claim"
	RelIPCR                 = "ipcr"
	RelUSPC                 = "uspc"
	RelUSPatentCitation     = "uspatentcitation"
	RelUSAppCitation        = "usapplicationcitation"
	RelForeignCitation      = "foreigncitation"
	RelOtherReference       = "otherreference"
	RelRawAssignee          = "rawassignee"
	RelRawInventor          = "rawinventor"
	RelNonInventorApplicant = "non_inventor_applicant"
	RelApplicant            = "us_applicant"
	RelRawLawyer            = "rawlawyer"
	RelRawExaminer          = "rawexaminer"
	RelRelatedDoc           = "usreldoc"
	RelForeignPriority      = "foreign_priority"
	RelDrawDescText         = "draw_desc_text"
	RelRelAppText           = "rel_app_text"
	RelBriefSummary         = "brf_sum_text"
	RelDetailDesc           = "detail_desc_text"
	RelGovernmentInterest   = "government_interest"
	RelTermOfGrant          = "us_term_of_grant"
	RelPCTData              = "pct_data"
	RelFigures              = "figures"
	RelBotanic              = "botanic"
	RelWIPO                 = "wipo"
	RelRawLocation          = "rawlocation"
	RelDescription          = "description"
)

// GrantRelations is every relation a grant document may fan out into,
// primaries last. Deletion during supersede may run in any order; only the
// primary rows are referenced by the children.
var GrantRelations = []string{
	RelClaim, RelIPCR, RelUSPC, RelUSPatentCitation, RelUSAppCitation,
	RelForeignCitation, RelOtherReference, RelRawAssignee, RelRawInventor,
	RelNonInventorApplicant, RelRawLawyer, RelRawExaminer, RelRelatedDoc,
	RelForeignPriority, RelDrawDescText, RelRelAppText, RelBriefSummary,
	RelDetailDesc, RelGovernmentInterest, RelTermOfGrant, RelPCTData,
	RelFigures, RelBotanic, RelWIPO, RelApplication, RelPatent,
}

// ApplicationRelations is the application-corpus counterpart.
var ApplicationRelations = []string{
	RelClaim, RelUSPC, RelRawAssignee, RelRawInventor, RelApplicant,
	RelDescription, RelApplication,
}

// Batch collects every row decomposed from a single document. It is built
// concurrently (one decomposer per entity type) and committed in one
// transaction.
type Batch struct {
	Patent      *Patent
	Application *Application

	Claims          []Claim
	USPCs           []USPC
	IPCRs           []IPCR
	USPatentCits    []USPatentCitation
	USAppCits       []USApplicationCitation
	ForeignCits     []ForeignCitation
	OtherRefs       []OtherReference
	Assignees       []RawAssignee
	Inventors       []RawInventor
	NonInventorApps []NonInventorApplicant
	Applicants      []Applicant
	Lawyers         []RawLawyer
	Examiners       []RawExaminer
	RelatedDocs     []RelatedDoc
	Priorities      []ForeignPriority
	TextSections    []TextSection
	TermOfGrant     *TermOfGrant
	PCTData         []PCTData
	Figures         *Figures
	Botanic         *Botanic
	WIPOFields      []WIPOField
	Locations       []RawLocation
}

// DocID returns the primary record's id, whichever corpus built the batch.
func (b *Batch) DocID() string {
	if b.Patent != nil {
		return b.Patent.ID
	}
	if b.Application != nil {
		return b.Application.ID
	}
	return ""
}

// Rows reports the number of child rows in the batch (primaries excluded).
func (b *Batch) Rows() int {
	n := len(b.Claims) + len(b.USPCs) + len(b.IPCRs) + len(b.USPatentCits) +
		len(b.USAppCits) + len(b.ForeignCits) + len(b.OtherRefs) +
		len(b.Assignees) + len(b.Inventors) + len(b.NonInventorApps) +
		len(b.Applicants) + len(b.Lawyers) + len(b.Examiners) +
		len(b.RelatedDocs) + len(b.Priorities) + len(b.TextSections) +
		len(b.PCTData) + len(b.WIPOFields) + len(b.Locations)
	if b.TermOfGrant != nil {
		n++
	}
	if b.Figures != nil {
		n++
	}
	if b.Botanic != nil {
		n++
	}
	return n
}
