package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"secmar/internal/schema"
	"secmar/internal/storage"
	"secmar/pkg/records"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "secmar.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(repo.Close)
	return repo
}

func createFlotteurs(t *testing.T, repo *Repository) {
	t.Helper()
	_, err := repo.DB().Exec(`CREATE TABLE flotteurs (
		operation_id INTEGER NOT NULL,
		numero_ordre INTEGER NOT NULL,
		pavillon TEXT,
		resultat_flotteur TEXT,
		type_flotteur TEXT,
		numero_immatriculation TEXT,
		UNIQUE (operation_id, numero_ordre)
	)`)
	if err != nil {
		t.Fatal(err)
	}
}

func countRows(t *testing.T, repo *Repository, table string) int {
	t.Helper()
	var n int
	if err := repo.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestColumnsDiscovery(t *testing.T) {
	repo := openTestRepo(t)
	createFlotteurs(t, repo)

	cols, err := repo.Columns(context.Background(), "flotteurs")
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 6 || cols[0] != "operation_id" {
		t.Fatalf("columns = %v", cols)
	}

	if _, err := repo.Columns(context.Background(), "nonexistent"); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestInsertIgnoreSkipsDuplicates(t *testing.T) {
	repo := openTestRepo(t)
	createFlotteurs(t, repo)

	cols := []string{"operation_id", "numero_ordre", "pavillon"}
	rows := [][]any{
		{int64(1), int64(1), "FR"},
		{int64(1), int64(2), "GB"},
		{int64(1), int64(1), "ES"}, // collides with the first row
	}
	policy := storage.ConflictPolicy{Columns: []string{"operation_id", "numero_ordre"}}

	n, err := repo.InsertIgnore(context.Background(), "flotteurs", cols, rows, policy)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}

	// The surviving row for (1,1) is the first one written.
	var pavillon string
	err = repo.DB().QueryRow(
		"SELECT pavillon FROM flotteurs WHERE operation_id = 1 AND numero_ordre = 1").Scan(&pavillon)
	if err != nil {
		t.Fatal(err)
	}
	if pavillon != "FR" {
		t.Fatalf("pavillon = %q, want FR", pavillon)
	}
}

func TestLoadTwiceSameRowCount(t *testing.T) {
	repo := openTestRepo(t)
	createFlotteurs(t, repo)

	batch := []records.Record{
		{"operation_id": int64(10), "numero_ordre": int64(1), "pavillon": "FR"},
		{"operation_id": int64(10), "numero_ordre": int64(2), "pavillon": nil},
		{"operation_id": int64(11), "numero_ordre": int64(1), "pavillon": "IT"},
	}
	policy := storage.ConflictPolicy{Columns: []string{"operation_id", "numero_ordre"}}
	ctx := context.Background()

	n1, err := storage.Load(ctx, repo, schema.Flotteurs(), batch, policy)
	if err != nil {
		t.Fatal(err)
	}
	if n1 != 3 {
		t.Fatalf("first load inserted %d, want 3", n1)
	}

	n2, err := storage.Load(ctx, repo, schema.Flotteurs(), batch, policy)
	if err != nil {
		t.Fatal(err)
	}
	if n2 != 0 {
		t.Fatalf("second load inserted %d, want 0", n2)
	}
	if got := countRows(t, repo, "flotteurs"); got != 3 {
		t.Fatalf("row count = %d, want 3", got)
	}
}

func TestTextNullStoredAsEmptyString(t *testing.T) {
	repo := openTestRepo(t)
	createFlotteurs(t, repo)

	batch := []records.Record{
		{"operation_id": int64(1), "numero_ordre": int64(1), "pavillon": nil},
	}
	policy := storage.ConflictPolicy{Columns: []string{"operation_id", "numero_ordre"}}
	if _, err := storage.Load(context.Background(), repo, schema.Flotteurs(), batch, policy); err != nil {
		t.Fatal(err)
	}

	var pavillon string
	err := repo.DB().QueryRow("SELECT pavillon FROM flotteurs").Scan(&pavillon)
	if err != nil {
		t.Fatal(err)
	}
	if pavillon != "" {
		t.Fatalf("pavillon = %q, want empty string", pavillon)
	}
}
