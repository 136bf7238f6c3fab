// Package entity defines one explicit record type per target relation.
// Optional text fields are plain strings ("" persists as NULL); optional
// numeric fields are pointers.
package entity

// Patent is the primary record of the grant corpus, one row per granted
// patent. ID is the normalized document number (leading zero of the numeric
// part stripped, letter prefix kept).
type Patent struct {
	ID        string
	AppID     int
	Type      string // appl-type attribute: utility, design, plant, reissue
	Number    string
	Country   string
	Date      string // YYYY-MM-DD
	Abstract  string
	Title     string
	Kind      string
	NumClaims int
	Filename  string
}

// Application is a primary record in the application corpus and a child
// record in the grant corpus (the application a grant issued from).
// ID is year + "/" + document number.
type Application struct {
	ID         string
	AppID      int
	PatentID   string // grant corpus only
	Type       string // appl-type (applications) or series code (grants)
	Number     string
	Country    string
	Date       string
	Abstract   string // application corpus only
	Title      string // application corpus only
	NumClaims  int    // application corpus only
	Filename   string // application corpus only
	SeriesCode string // grant corpus only
}

// Claim is one numbered claim. Dependent carries the claim number referenced
// by a <claim-ref idref="CLM-n"> element, when present.
type Claim struct {
	DocID     string // patent id or application id
	AppID     int
	Text      string
	Dependent *int
	Sequence  int
	Exemplary bool // grants only
}

// USPC is one normalized national classification row.
type USPC struct {
	DocID       string
	AppID       int
	MainClassID string
	SubClassID  string
	Sequence    int
}

// IPCR is one international classification row.
type IPCR struct {
	DocID       string
	AppID       int
	Level       string
	Section     string
	Class       string
	SubClass    string
	MainGroup   string
	SubGroup    string
	SymbolPos   string
	Value       string
	Status      string
	DataSource  string
	ActionDate  string
	VersionDate string
	Sequence    int
}

// USPatentCitation cites an already-granted US patent.
type USPatentCitation struct {
	DocID      string
	AppID      int
	CitationID string
	Date       string
	Name       string
	Kind       string
	Country    string
	Category   string
	Sequence   int
}

// USApplicationCitation cites a US application publication.
type USApplicationCitation struct {
	DocID         string
	AppID         int
	ApplicationID string
	Date          string
	Name          string
	Kind          string
	Number        string
	Country       string
	Category      string
	Sequence      int
}

// ForeignCitation cites a non-US document.
type ForeignCitation struct {
	DocID    string
	AppID    int
	Date     string
	Number   string
	Country  string
	Category string
	Sequence int
}

// OtherReference is a non-patent literature citation.
type OtherReference struct {
	DocID    string
	AppID    int
	Text     string
	Sequence int
}

// RawAssignee is one assignee occurrence. RawLocationID is a weak reference
// into the rawlocation relation, generated at decompose time.
type RawAssignee struct {
	DocID         string
	AppID         int
	RawLocationID string
	Type          string
	NameFirst     string
	NameLast      string
	Organization  string
	City          string
	State         string
	Country       string
	Sequence      int
}

// RawInventor is one inventor occurrence.
type RawInventor struct {
	DocID         string
	AppID         int
	RawLocationID string
	NameFirst     string
	NameLast      string
	City          string
	State         string
	Country       string
	Sequence      int
	Rule47        bool // grants only
}

// NonInventorApplicant is a post-2013 applicant that is not an inventor
// (legal representative, party of interest, obligated assignee, assignee),
// or a pre-2013 non-inventor applicant.
type NonInventorApplicant struct {
	DocID         string
	AppID         int
	RawLocationID string
	NameFirst     string
	NameLast      string
	Organization  string
	Designation   string
	ApplicantType string
	Sequence      int
}

// Applicant is an application-corpus us-applicant row.
type Applicant struct {
	DocID         string
	AppID         int
	RawLocationID string
	NameFirst     string
	NameLast      string
	Organization  string
	Designation   string
	ApplicantType string
	Sequence      int
}

// RawLocation is a per-party-occurrence address, referenced from party rows
// by generated id rather than owned by them.
type RawLocation struct {
	ID      string
	City    string
	State   string
	Country string
}

// RawLawyer is one agent/attorney occurrence.
type RawLawyer struct {
	DocID        string
	AppID        int
	NameFirst    string
	NameLast     string
	Organization string
	Country      string
	Sequence     int
}

// RawExaminer is a primary or assistant examiner.
type RawExaminer struct {
	DocID     string
	AppID     int
	NameFirst string
	NameLast  string
	Role      string // primary, assistant
	Group     string
}

// RelatedDoc is one entry of the us-related-documents matrix.
type RelatedDoc struct {
	DocID    string
	AppID    int
	DocType  string
	RelKind  string
	RelDocNo string
	Country  string
	Date     string
	Status   string
	Kind     string
	Sequence int
}

// ForeignPriority is one priority-claim row.
type ForeignPriority struct {
	DocID    string
	AppID    int
	Kind     string
	Number   string
	Date     string
	Country  string
	Sequence int
}

// TextSection is a text block carved out of the description: drawing
// descriptions, RELAPP, BRFSUM, DETDESC and GOVINT sections, and the whole
// description in the application corpus.
type TextSection struct {
	DocID    string
	AppID    int
	Relation string // target relation name
	Text     string
	Sequence int
}

// TermOfGrant captures us-term-of-grant.
type TermOfGrant struct {
	DocID          string
	AppID          int
	LapseOfPatent  string
	TermDisclaimer string
	TermGrant      string
	TermExtension  string
}

// PCTData is a PCT/regional publishing or filing record.
type PCTData struct {
	DocID   string
	AppID   int
	RelID   string
	Date    string
	Date371 string
	Country string
	Kind    string
	DocType string // wo_grant, pct_application
}

// Figures counts drawing figures and sheets.
type Figures struct {
	DocID      string
	AppID      int
	NumFigures int
	NumSheets  int
}

// Botanic describes a plant patent subject.
type Botanic struct {
	DocID     string
	AppID     int
	LatinName string
	Variety   string
}

// WIPOField maps a patent to a WIPO technology field.
type WIPOField struct {
	DocID    string
	AppID    int
	FieldID  string
	Sequence int
}
