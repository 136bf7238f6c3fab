package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/patentflow/patentflow/pkg/patent/entity"
	"github.com/patentflow/patentflow/pkg/patent/internalerr"
	"github.com/patentflow/patentflow/pkg/patent/store"
)

func openTestStore(t *testing.T) (store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := OpenSQLite(context.Background(), path, entity.RelPatent)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, path
}

func testBatch() *entity.Batch {
	dep := 1
	return &entity.Batch{
		Patent: &entity.Patent{
			ID: "9000001", AppID: 10000001, Type: "utility", Number: "9000001",
			Country: "US", Date: "2018-01-09", Title: "Widget", Kind: "B2",
			NumClaims: 2, Filename: "ipg180109.xml",
		},
		Application: &entity.Application{
			ID: "2016/15551234", AppID: 10000001, PatentID: "9000001",
			Number: "15551234", Country: "US", Date: "2016-01-12", SeriesCode: "15",
		},
		Claims: []entity.Claim{
			{DocID: "9000001", AppID: 10000001, Text: "A widget.", Sequence: 1, Exemplary: true},
			{DocID: "9000001", AppID: 10000001, Text: "The widget of claim 1.", Dependent: &dep, Sequence: 2},
		},
		USPCs: []entity.USPC{
			{DocID: "9000001", AppID: 10000001, MainClassID: "257", SubClassID: "257/82"},
		},
		Assignees: []entity.RawAssignee{
			{DocID: "9000001", AppID: 10000001, RawLocationID: "LOC1", Organization: "Acme"},
		},
		Locations: []entity.RawLocation{
			{ID: "LOC1", City: "Springfield", State: "IL", Country: "US"},
		},
	}
}

func TestOpenRejectsUnknownPrimary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.db")
	if _, err := OpenSQLite(context.Background(), path, "claims"); err == nil {
		t.Fatal("Expected error for unknown primary relation")
	}
}

func TestFileLifecycle(t *testing.T) {
	ctx := context.Background()
	st, _ := openTestStore(t)

	id, err := st.InsertFile(ctx, store.FileInfo{
		Name: "ipg180109.xml", URL: "https://example.com/ipg180109.zip",
		Size: 12345, Date: "2018-01-09", Status: store.StatusNew,
	})
	if err != nil {
		t.Fatalf("InsertFile: %v", err)
	}

	f, found, err := st.FileByNameOrURL(ctx, "ipg180109.xml", "")
	if err != nil || !found {
		t.Fatalf("Lookup by name = (%v, %v)", found, err)
	}
	if f.ID != id || f.Status != store.StatusNew || f.Size != 12345 {
		t.Errorf("File = %+v", f)
	}

	if _, found, _ := st.FileByNameOrURL(ctx, "other.xml", "https://example.com/ipg180109.zip"); !found {
		t.Error("Lookup by URL failed")
	}
	if _, found, _ := st.FileByNameOrURL(ctx, "other.xml", "https://example.com/other.zip"); found {
		t.Error("Lookup of unknown file succeeded")
	}

	if err := st.MarkFileStatus(ctx, id, store.StatusFinished); err != nil {
		t.Fatalf("MarkFileStatus: %v", err)
	}
	f, _, _ = st.FileByNameOrURL(ctx, "ipg180109.xml", "")
	if f.Status != store.StatusFinished {
		t.Errorf("Status = %q after mark", f.Status)
	}

	// Re-registering keeps the existing status and id.
	id2, err := st.InsertFile(ctx, store.FileInfo{Name: "ipg180109.xml", Status: store.StatusNew})
	if err != nil {
		t.Fatalf("re-InsertFile: %v", err)
	}
	if id2 != id {
		t.Errorf("Re-registration changed id: %d -> %d", id, id2)
	}
	f, _, _ = st.FileByNameOrURL(ctx, "ipg180109.xml", "")
	if f.Status != store.StatusFinished {
		t.Errorf("Re-registration reset status to %q", f.Status)
	}
}

func TestMarkFileStatusUnknownID(t *testing.T) {
	st, _ := openTestStore(t)
	err := st.MarkFileStatus(context.Background(), 9999, store.StatusFinished)
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("MarkFileStatus on unknown id = %v, want ErrNotFound", err)
	}
}

func TestInsertBatchAndExists(t *testing.T) {
	ctx := context.Background()
	st, path := openTestStore(t)

	if _, found, err := st.ExistsPrimary(ctx, "9000001"); err != nil || found {
		t.Fatalf("ExistsPrimary on empty store = (%v, %v)", found, err)
	}

	if _, err := st.InsertFile(ctx, store.FileInfo{Name: "ipg180109.xml", Status: store.StatusUnfinished}); err != nil {
		t.Fatal(err)
	}
	if err := st.InsertBatch(ctx, testBatch()); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	doc, found, err := st.ExistsPrimary(ctx, "9000001")
	if err != nil || !found {
		t.Fatalf("ExistsPrimary = (%v, %v)", found, err)
	}
	if doc.Filename != "ipg180109.xml" || doc.FileStatus != store.StatusUnfinished {
		t.Errorf("Existing doc = %+v", doc)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	counts := map[string]int{"patent": 1, "application": 1, "claim": 2, "uspc": 1, "rawassignee": 1, "rawlocation": 1}
	for table, want := range counts {
		var got int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s has %d rows, want %d", table, got, want)
		}
	}

	// Empty strings persist as NULL, not "".
	var abstract sql.NullString
	if err := db.QueryRow(`SELECT abstract FROM patent WHERE id='9000001'`).Scan(&abstract); err != nil {
		t.Fatal(err)
	}
	if abstract.Valid {
		t.Errorf("Empty abstract stored as %q, want NULL", abstract.String)
	}
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()
	st, path := openTestStore(t)

	if err := st.InsertBatch(ctx, testBatch()); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if err := st.DeleteDocument(ctx, "9000001", entity.GrantRelations); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	if _, found, _ := st.ExistsPrimary(ctx, "9000001"); found {
		t.Error("Primary still present after delete")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, table := range []string{"patent", "application", "claim", "uspc", "rawassignee"} {
		var got int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != 0 {
			t.Errorf("%s has %d rows after delete, want 0", table, got)
		}
	}
}

func TestFlushClassesIdempotent(t *testing.T) {
	ctx := context.Background()
	st, path := openTestStore(t)

	for i := 0; i < 2; i++ {
		if err := st.FlushClasses(ctx, []string{"257", "D14"}, []string{"257/82"}); err != nil {
			t.Fatalf("FlushClasses: %v", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var mains, subs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM mainclass`).Scan(&mains); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM subclass`).Scan(&subs); err != nil {
		t.Fatal(err)
	}
	if mains != 2 || subs != 1 {
		t.Errorf("Class counts = (%d, %d), want (2, 1)", mains, subs)
	}
}
