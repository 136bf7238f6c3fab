// Package sqlite implements the corpus store on modernc.org/sqlite. One
// database file holds one corpus partition; the schema is the grant relation
// superset so both corpora share the builder.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/patentflow/patentflow/pkg/patent/entity"
	"github.com/patentflow/patentflow/pkg/patent/internalerr"
	"github.com/patentflow/patentflow/pkg/patent/store"
)

type sqliteStore struct {
	db *sql.DB
	// primary is the relation holding this corpus's primary records:
	// entity.RelPatent for grants, entity.RelApplication for applications.
	primary string
}

// OpenSQLite opens (and if needed initializes) a corpus partition with WAL
// mode enabled.
func OpenSQLite(ctx context.Context, path, primary string) (store.Store, error) {
	if primary != entity.RelPatent && primary != entity.RelApplication {
		return nil, fmt.Errorf("open sqlite: unknown primary relation %q", primary)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, primary: primary}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS file_info (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT UNIQUE NOT NULL,
	url TEXT,
	size INTEGER,
	date TEXT,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS patent (
	id TEXT PRIMARY KEY,
	app_id INTEGER,
	type TEXT,
	number TEXT,
	country TEXT,
	date TEXT,
	abstract TEXT,
	title TEXT,
	kind TEXT,
	num_claims INTEGER,
	filename TEXT
);

CREATE TABLE IF NOT EXISTS application (
	id TEXT PRIMARY KEY,
	app_id INTEGER,
	patent_id TEXT,
	type TEXT,
	number TEXT,
	country TEXT,
	date TEXT,
	abstract TEXT,
	title TEXT,
	num_claims INTEGER,
	filename TEXT,
	series_code TEXT
);

CREATE TABLE IF NOT EXISTS claim (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	text TEXT,
	dependent INTEGER,
	sequence INTEGER,
	exemplary INTEGER
);

CREATE TABLE IF NOT EXISTS uspc (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	mainclass_id TEXT,
	subclass_id TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS ipcr (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	classification_level TEXT,
	section TEXT,
	class TEXT,
	subclass TEXT,
	main_group TEXT,
	subgroup TEXT,
	symbol_position TEXT,
	classification_value TEXT,
	classification_status TEXT,
	classification_data_source TEXT,
	action_date TEXT,
	version_date TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS uspatentcitation (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	citation_id TEXT,
	date TEXT,
	name TEXT,
	kind TEXT,
	country TEXT,
	category TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS usapplicationcitation (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	application_id TEXT,
	date TEXT,
	name TEXT,
	kind TEXT,
	number TEXT,
	country TEXT,
	category TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS foreigncitation (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	date TEXT,
	number TEXT,
	country TEXT,
	category TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS otherreference (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	text TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS rawassignee (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	rawlocation_id TEXT,
	type TEXT,
	name_first TEXT,
	name_last TEXT,
	organization TEXT,
	city TEXT,
	state TEXT,
	country TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS rawinventor (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	rawlocation_id TEXT,
	name_first TEXT,
	name_last TEXT,
	city TEXT,
	state TEXT,
	country TEXT,
	sequence INTEGER,
	rule_47 INTEGER
);

CREATE TABLE IF NOT EXISTS non_inventor_applicant (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	rawlocation_id TEXT,
	name_first TEXT,
	name_last TEXT,
	organization TEXT,
	designation TEXT,
	applicant_type TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS us_applicant (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	rawlocation_id TEXT,
	name_first TEXT,
	name_last TEXT,
	organization TEXT,
	designation TEXT,
	applicant_type TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS rawlawyer (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	name_first TEXT,
	name_last TEXT,
	organization TEXT,
	country TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS rawexaminer (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	name_first TEXT,
	name_last TEXT,
	role TEXT,
	department TEXT
);

CREATE TABLE IF NOT EXISTS usreldoc (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	doctype TEXT,
	relkind TEXT,
	reldocno TEXT,
	country TEXT,
	date TEXT,
	status TEXT,
	kind TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS foreign_priority (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	kind TEXT,
	number TEXT,
	date TEXT,
	country TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS draw_desc_text (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	text TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS rel_app_text (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	text TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS brf_sum_text (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	text TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS detail_desc_text (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	text TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS government_interest (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	text TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS description (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	text TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS us_term_of_grant (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	lapse_of_patent TEXT,
	disclaimer TEXT,
	term TEXT,
	term_extension TEXT
);

CREATE TABLE IF NOT EXISTS pct_data (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	rel_id TEXT,
	date TEXT,
	date_371 TEXT,
	country TEXT,
	kind TEXT,
	doc_type TEXT
);

CREATE TABLE IF NOT EXISTS figures (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	num_figures INTEGER,
	num_sheets INTEGER
);

CREATE TABLE IF NOT EXISTS botanic (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	latin_name TEXT,
	variety TEXT
);

CREATE TABLE IF NOT EXISTS wipo (
	document_id TEXT NOT NULL,
	app_id INTEGER,
	field_id TEXT,
	sequence INTEGER
);

CREATE TABLE IF NOT EXISTS rawlocation (
	id TEXT PRIMARY KEY,
	city TEXT,
	state TEXT,
	country TEXT
);

CREATE TABLE IF NOT EXISTS mainclass (
	id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS subclass (
	id TEXT PRIMARY KEY
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// InsertFile registers a source file and returns its row id.
func (s *sqliteStore) InsertFile(ctx context.Context, f store.FileInfo) (int64, error) {
	const stmt = `
INSERT INTO file_info (filename, url, size, date, status)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(filename) DO UPDATE SET
	url=excluded.url,
	size=excluded.size,
	date=excluded.date
RETURNING id;
`
	var id int64
	err := s.db.QueryRowContext(ctx, stmt, f.Name, ns(f.URL), f.Size, ns(f.Date), f.Status).Scan(&id)
	return id, err
}

// FileByNameOrURL finds a registered file by either key.
func (s *sqliteStore) FileByNameOrURL(ctx context.Context, name, url string) (store.FileInfo, bool, error) {
	var (
		f    store.FileInfo
		u, d sql.NullString
		size sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, filename, url, size, date, status
FROM file_info
WHERE filename = ? OR url = ?;
`, name, url).Scan(&f.ID, &f.Name, &u, &size, &d, &f.Status)
	if err == sql.ErrNoRows {
		return store.FileInfo{}, false, nil
	}
	if err != nil {
		return store.FileInfo{}, false, err
	}
	f.URL, f.Date, f.Size = u.String, d.String, size.Int64
	return f, true, nil
}

// MarkFileStatus transitions a file's processing state.
func (s *sqliteStore) MarkFileStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE file_info SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("file %d: %w", id, internalerr.ErrNotFound)
	}
	return nil
}

// ExistsPrimary looks up a stored primary record together with the status of
// the file that produced it.
func (s *sqliteStore) ExistsPrimary(ctx context.Context, id string) (store.ExistingDoc, bool, error) {
	query := fmt.Sprintf(`
SELECT p.id, IFNULL(p.filename, ''), IFNULL(f.status, '')
FROM %s p
LEFT JOIN file_info f ON f.filename = p.filename
WHERE p.id = ?;
`, s.primary)

	var doc store.ExistingDoc
	err := s.db.QueryRowContext(ctx, query, id).Scan(&doc.ID, &doc.Filename, &doc.FileStatus)
	if err == sql.ErrNoRows {
		return store.ExistingDoc{}, false, nil
	}
	if err != nil {
		return store.ExistingDoc{}, false, err
	}
	return doc, true, nil
}

// deleteColumns maps each relation to the column its rows key on. Relations
// not listed key on document_id.
var deleteColumns = map[string]string{
	entity.RelPatent: "id",
}

// DeleteDocument removes every row of the document in one transaction: the
// supersede half of a supersede-and-reinsert cycle. Relation order does not
// matter; the schema carries no cross-child references.
func (s *sqliteStore) DeleteDocument(ctx context.Context, id string, relations []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rel := range relations {
		col, ok := deleteColumns[rel]
		if !ok {
			col = "document_id"
		}
		if rel == entity.RelApplication {
			if s.primary == entity.RelApplication {
				col = "id"
			} else {
				col = "patent_id"
			}
		}
		stmt := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, rel, col)
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete %s: %w", rel, err)
		}
	}
	return tx.Commit()
}

// InsertBatch commits one decomposed document atomically.
func (s *sqliteStore) InsertBatch(ctx context.Context, b *entity.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if b.Patent != nil {
		if err := insertPatent(ctx, tx, b.Patent); err != nil {
			return fmt.Errorf("insert patent: %w", err)
		}
	}
	if b.Application != nil {
		if err := insertApplication(ctx, tx, b.Application); err != nil {
			return fmt.Errorf("insert application: %w", err)
		}
	}

	inserts := []struct {
		name string
		fn   func(context.Context, *sql.Tx, *entity.Batch) error
	}{
		{entity.RelClaim, insertClaims},
		{entity.RelUSPC, insertUSPCs},
		{entity.RelIPCR, insertIPCRs},
		{entity.RelUSPatentCitation, insertUSPatentCitations},
		{entity.RelUSAppCitation, insertUSAppCitations},
		{entity.RelForeignCitation, insertForeignCitations},
		{entity.RelOtherReference, insertOtherReferences},
		{entity.RelRawAssignee, insertAssignees},
		{entity.RelRawInventor, insertInventors},
		{entity.RelNonInventorApplicant, insertNonInventorApplicants},
		{entity.RelApplicant, insertApplicants},
		{entity.RelRawLawyer, insertLawyers},
		{entity.RelRawExaminer, insertExaminers},
		{entity.RelRelatedDoc, insertRelatedDocs},
		{entity.RelForeignPriority, insertPriorities},
		{"text sections", insertTextSections},
		{entity.RelTermOfGrant, insertTermOfGrant},
		{entity.RelPCTData, insertPCTData},
		{entity.RelFigures, insertFigures},
		{entity.RelBotanic, insertBotanic},
		{entity.RelWIPO, insertWIPOFields},
		{entity.RelRawLocation, insertLocations},
	}
	for _, ins := range inserts {
		if err := ins.fn(ctx, tx, b); err != nil {
			return fmt.Errorf("insert %s: %w", ins.name, err)
		}
	}

	return tx.Commit()
}

// FlushClasses writes the canonical class sets. Insert-or-ignore keeps the
// flush idempotent across runs.
func (s *sqliteStore) FlushClasses(ctx context.Context, mains, subs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	mainStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO mainclass (id) VALUES (?)`)
	if err != nil {
		return err
	}
	defer mainStmt.Close()
	for _, id := range mains {
		if _, err := mainStmt.ExecContext(ctx, id); err != nil {
			return err
		}
	}

	subStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO subclass (id) VALUES (?)`)
	if err != nil {
		return err
	}
	defer subStmt.Close()
	for _, id := range subs {
		if _, err := subStmt.ExecContext(ctx, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertPatent(ctx context.Context, tx *sql.Tx, p *entity.Patent) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO patent (id, app_id, type, number, country, date, abstract, title, kind, num_claims, filename)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`, p.ID, p.AppID, ns(p.Type), ns(p.Number), ns(p.Country), ns(p.Date),
		ns(p.Abstract), ns(p.Title), ns(p.Kind), p.NumClaims, ns(p.Filename))
	return err
}

func insertApplication(ctx context.Context, tx *sql.Tx, a *entity.Application) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO application (id, app_id, patent_id, type, number, country, date, abstract, title, num_claims, filename, series_code)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`, a.ID, a.AppID, ns(a.PatentID), ns(a.Type), ns(a.Number), ns(a.Country),
		ns(a.Date), ns(a.Abstract), ns(a.Title), a.NumClaims, ns(a.Filename), ns(a.SeriesCode))
	return err
}

func insertClaims(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.Claims) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO claim (document_id, app_id, text, dependent, sequence, exemplary)
VALUES (?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range b.Claims {
		if _, err := stmt.ExecContext(ctx, c.DocID, c.AppID, ns(c.Text), c.Dependent, c.Sequence, c.Exemplary); err != nil {
			return err
		}
	}
	return nil
}

func insertUSPCs(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.USPCs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO uspc (document_id, app_id, mainclass_id, subclass_id, sequence)
VALUES (?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.USPCs {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.MainClassID, r.SubClassID, r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertIPCRs(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.IPCRs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO ipcr (document_id, app_id, classification_level, section, class, subclass,
	main_group, subgroup, symbol_position, classification_value, classification_status,
	classification_data_source, action_date, version_date, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.IPCRs {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, ns(r.Level), ns(r.Section),
			ns(r.Class), ns(r.SubClass), ns(r.MainGroup), ns(r.SubGroup), ns(r.SymbolPos),
			ns(r.Value), ns(r.Status), ns(r.DataSource), ns(r.ActionDate), ns(r.VersionDate),
			r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertUSPatentCitations(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.USPatentCits) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO uspatentcitation (document_id, app_id, citation_id, date, name, kind, country, category, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.USPatentCits {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.CitationID, ns(r.Date),
			ns(r.Name), ns(r.Kind), ns(r.Country), ns(r.Category), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertUSAppCitations(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.USAppCits) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO usapplicationcitation (document_id, app_id, application_id, date, name, kind, number, country, category, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.USAppCits {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.ApplicationID, ns(r.Date),
			ns(r.Name), ns(r.Kind), ns(r.Number), ns(r.Country), ns(r.Category), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertForeignCitations(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.ForeignCits) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO foreigncitation (document_id, app_id, date, number, country, category, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.ForeignCits {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, ns(r.Date), ns(r.Number),
			ns(r.Country), ns(r.Category), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertOtherReferences(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.OtherRefs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO otherreference (document_id, app_id, text, sequence)
VALUES (?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.OtherRefs {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, ns(r.Text), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertAssignees(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.Assignees) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO rawassignee (document_id, app_id, rawlocation_id, type, name_first, name_last, organization, city, state, country, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.Assignees {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.RawLocationID, ns(r.Type),
			ns(r.NameFirst), ns(r.NameLast), ns(r.Organization), ns(r.City), ns(r.State),
			ns(r.Country), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertInventors(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.Inventors) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO rawinventor (document_id, app_id, rawlocation_id, name_first, name_last, city, state, country, sequence, rule_47)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.Inventors {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.RawLocationID,
			ns(r.NameFirst), ns(r.NameLast), ns(r.City), ns(r.State), ns(r.Country),
			r.Sequence, r.Rule47); err != nil {
			return err
		}
	}
	return nil
}

func insertNonInventorApplicants(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.NonInventorApps) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO non_inventor_applicant (document_id, app_id, rawlocation_id, name_first, name_last, organization, designation, applicant_type, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.NonInventorApps {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.RawLocationID,
			ns(r.NameFirst), ns(r.NameLast), ns(r.Organization), ns(r.Designation),
			ns(r.ApplicantType), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertApplicants(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.Applicants) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO us_applicant (document_id, app_id, rawlocation_id, name_first, name_last, organization, designation, applicant_type, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.Applicants {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.RawLocationID,
			ns(r.NameFirst), ns(r.NameLast), ns(r.Organization), ns(r.Designation),
			ns(r.ApplicantType), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertLawyers(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.Lawyers) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO rawlawyer (document_id, app_id, name_first, name_last, organization, country, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.Lawyers {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, ns(r.NameFirst), ns(r.NameLast),
			ns(r.Organization), ns(r.Country), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertExaminers(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.Examiners) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO rawexaminer (document_id, app_id, name_first, name_last, role, department)
VALUES (?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.Examiners {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, ns(r.NameFirst), ns(r.NameLast),
			r.Role, ns(r.Group)); err != nil {
			return err
		}
	}
	return nil
}

func insertRelatedDocs(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.RelatedDocs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO usreldoc (document_id, app_id, doctype, relkind, reldocno, country, date, status, kind, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.RelatedDocs {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.DocType, ns(r.RelKind),
			ns(r.RelDocNo), ns(r.Country), ns(r.Date), ns(r.Status), ns(r.Kind),
			r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertPriorities(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.Priorities) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO foreign_priority (document_id, app_id, kind, number, date, country, sequence)
VALUES (?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.Priorities {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, ns(r.Kind), ns(r.Number),
			ns(r.Date), ns(r.Country), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

// textTables guards the dynamic table name in insertTextSections; a section
// with an unlisted relation is a bug upstream.
var textTables = map[string]bool{
	entity.RelDrawDescText:       true,
	entity.RelRelAppText:         true,
	entity.RelBriefSummary:       true,
	entity.RelDetailDesc:         true,
	entity.RelGovernmentInterest: true,
	entity.RelDescription:        true,
}

func insertTextSections(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	for _, r := range b.TextSections {
		if !textTables[r.Relation] {
			return fmt.Errorf("unknown text relation %q", r.Relation)
		}
		stmt := fmt.Sprintf(`INSERT INTO %s (document_id, app_id, text, sequence) VALUES (?, ?, ?, ?)`, r.Relation)
		if _, err := tx.ExecContext(ctx, stmt, r.DocID, r.AppID, ns(r.Text), r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertTermOfGrant(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if b.TermOfGrant == nil {
		return nil
	}
	r := b.TermOfGrant
	_, err := tx.ExecContext(ctx, `
INSERT INTO us_term_of_grant (document_id, app_id, lapse_of_patent, disclaimer, term, term_extension)
VALUES (?, ?, ?, ?, ?, ?);
`, r.DocID, r.AppID, ns(r.LapseOfPatent), ns(r.TermDisclaimer), ns(r.TermGrant), ns(r.TermExtension))
	return err
}

func insertPCTData(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.PCTData) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO pct_data (document_id, app_id, rel_id, date, date_371, country, kind, doc_type)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.PCTData {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, ns(r.RelID), ns(r.Date),
			ns(r.Date371), ns(r.Country), ns(r.Kind), r.DocType); err != nil {
			return err
		}
	}
	return nil
}

func insertFigures(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if b.Figures == nil {
		return nil
	}
	r := b.Figures
	_, err := tx.ExecContext(ctx, `
INSERT INTO figures (document_id, app_id, num_figures, num_sheets)
VALUES (?, ?, ?, ?);
`, r.DocID, r.AppID, r.NumFigures, r.NumSheets)
	return err
}

func insertBotanic(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if b.Botanic == nil {
		return nil
	}
	r := b.Botanic
	_, err := tx.ExecContext(ctx, `
INSERT INTO botanic (document_id, app_id, latin_name, variety)
VALUES (?, ?, ?, ?);
`, r.DocID, r.AppID, ns(r.LatinName), ns(r.Variety))
	return err
}

func insertWIPOFields(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.WIPOFields) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO wipo (document_id, app_id, field_id, sequence)
VALUES (?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.WIPOFields {
		if _, err := stmt.ExecContext(ctx, r.DocID, r.AppID, r.FieldID, r.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func insertLocations(ctx context.Context, tx *sql.Tx, b *entity.Batch) error {
	if len(b.Locations) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO rawlocation (id, city, state, country)
VALUES (?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range b.Locations {
		if _, err := stmt.ExecContext(ctx, r.ID, ns(r.City), ns(r.State), ns(r.Country)); err != nil {
			return err
		}
	}
	return nil
}

// ns maps "" to NULL.
func ns(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
