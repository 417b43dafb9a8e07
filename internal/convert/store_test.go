package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/clinicprep/internal/db"
	"github.com/gyeh/clinicprep/internal/output"
)

const (
	testPort     = 15433
	testDB       = "preptest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

// TestMain starts an embedded Postgres only when CLINICPREP_PG_TESTS is set;
// label store tests skip otherwise.
func TestMain(m *testing.M) {
	if os.Getenv("CLINICPREP_PG_TESTS") == "" {
		os.Exit(m.Run())
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB creates a connection pool on a clean prep schema.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if pg == nil {
		t.Skip("set CLINICPREP_PG_TESTS=1 to run label store tests")
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS prep CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}
	// Second application must be a no-op.
	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		pool.Close()
		t.Fatalf("re-apply migrations: %v", err)
	}
	var recorded int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM prep.schema_migrations").Scan(&recorded); err != nil {
		pool.Close()
		t.Fatalf("count migrations: %v", err)
	}
	if recorded != 2 {
		pool.Close()
		t.Fatalf("recorded migrations = %d, want 2", recorded)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func TestRun_StoresExamples(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	cfg := testConfig(t, buildCSV(t, 40))

	res, err := Run(ctx, Deps{Pool: pool}, zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Summary.RowsStored != 40 {
		t.Errorf("rows stored: %d", res.Summary.RowsStored)
	}

	var status string
	var examples, missing int64
	err = pool.QueryRow(ctx,
		"SELECT status, num_output_examples, missing_demographics FROM prep.runs WHERE run_id = $1",
		res.Summary.RunID,
	).Scan(&status, &examples, &missing)
	if err != nil {
		t.Fatalf("query run: %v", err)
	}
	if status != "stored" || examples != 40 || missing != res.Report.QualityIssues.MissingDemographics {
		t.Errorf("run row: status=%s examples=%d missing=%d", status, examples, missing)
	}

	var inspection, validation int
	err = pool.QueryRow(ctx,
		"SELECT count(*) FILTER (WHERE in_inspection), count(*) FILTER (WHERE in_validation) FROM prep.examples WHERE run_id = $1",
		res.Summary.RunID,
	).Scan(&inspection, &validation)
	if err != nil {
		t.Fatalf("query flags: %v", err)
	}
	if inspection != len(res.Inspection) || validation != len(res.Validation) {
		t.Errorf("flags: inspection=%d validation=%d", inspection, validation)
	}

	// Validation rows in the store match the validation file.
	file, err := output.ReadJSONL(cfg.ValidationPath())
	if err != nil {
		t.Fatal(err)
	}
	want := make(map[string]bool, len(file))
	for _, ex := range file {
		want[ex.ID] = true
	}
	rows, err := pool.Query(ctx, "SELECT example_id FROM prep.examples WHERE run_id = $1 AND in_validation", res.Summary.RunID)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			t.Fatal(err)
		}
		if !want[id] {
			t.Errorf("stored validation example %s not in validation file", id)
		}
	}

	var instruction string
	if err := pool.QueryRow(ctx,
		"SELECT payload->>'instruction' FROM prep.examples WHERE run_id = $1 AND seq = 1",
		res.Summary.RunID,
	).Scan(&instruction); err != nil {
		t.Fatal(err)
	}
	if instruction != res.Examples[0].Instruction {
		t.Errorf("payload instruction mismatch")
	}
}

func TestDeleteRunExamples(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	cfg := testConfig(t, buildCSV(t, 5))

	res, err := Run(ctx, Deps{Pool: pool}, zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	runID := uuid.MustParse(res.Summary.RunID)

	n, err := DeleteRunExamples(ctx, pool, runID)
	if err != nil {
		t.Fatalf("DeleteRunExamples: %v", err)
	}
	if n != 5 {
		t.Errorf("deleted %d rows, want 5", n)
	}
	if err := UpdateRunStatus(ctx, pool, runID, "purged"); err != nil {
		t.Fatalf("UpdateRunStatus: %v", err)
	}

	var remaining int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM prep.examples WHERE run_id = $1", runID).Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	var status string
	if err := pool.QueryRow(ctx, "SELECT status FROM prep.runs WHERE run_id = $1", runID).Scan(&status); err != nil {
		t.Fatal(err)
	}
	if remaining != 0 || status != "purged" {
		t.Errorf("after cleanup: remaining=%d status=%s", remaining, status)
	}
}

func TestStore_FinishFailureMarksRunFailed(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	// Reject the final status transition so FinishRun fails after the COPY.
	if _, err := pool.Exec(ctx, `
CREATE FUNCTION prep.reject_stored() RETURNS trigger AS $$
BEGIN
    IF NEW.status = 'stored' THEN
        RAISE EXCEPTION 'finish rejected';
    END IF;
    RETURN NEW;
END $$ LANGUAGE plpgsql;
CREATE TRIGGER reject_stored BEFORE UPDATE ON prep.runs
    FOR EACH ROW EXECUTE FUNCTION prep.reject_stored();`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	cfg := testConfig(t, buildCSV(t, 12))
	_, err := Run(ctx, Deps{Pool: pool}, zerolog.Nop(), cfg)
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != PhaseStore {
		t.Fatalf("expected store phase error, got %v", err)
	}

	var status string
	var runID uuid.UUID
	if err := pool.QueryRow(ctx, "SELECT run_id, status FROM prep.runs").Scan(&runID, &status); err != nil {
		t.Fatalf("query run: %v", err)
	}
	if status != "failed" {
		t.Errorf("status = %q, want failed", status)
	}
	var remaining int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM prep.examples WHERE run_id = $1", runID).Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("%d examples left behind by failed run", remaining)
	}
}
