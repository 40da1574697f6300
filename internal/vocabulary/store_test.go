package vocabulary

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"

	"visual-mapper/internal/catalog"
	"visual-mapper/internal/common/database"
	"visual-mapper/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== Test Helper Functions =====

func createMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, DialectPostgres), mock
}

func expectLoad(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta(queryVersion)).
		WithArgs(metaVersion).
		WillReturnRows(sqlmock.NewRows([]string{"meta_value"}).AddRow("db-7"))

	mock.ExpectQuery(regexp.QuoteMeta(queryComponents)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "category", "description"}).
			AddRow("ui.doctorsList", "medical", "Список врачей").
			AddRow("ui.form", "form", ""))

	mock.ExpectQuery(`SELECT c.name, t.term, s.synonym`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "term", "synonym"}).
			AddRow("ui.doctorsList", "врач", "доктор").
			AddRow("ui.doctorsList", "врач", "медик").
			AddRow("ui.form", "форма", nil).
			AddRow("ui.form", "форма", nil))

	mock.ExpectQuery(regexp.QuoteMeta(queryRules)).
		WillReturnRows(sqlmock.NewRows([]string{"rule_key", "component"}).
			AddRow("форма", "ui.form"))

	mock.ExpectQuery(regexp.QuoteMeta(queryTriggers)).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "target", "phrase"}).
			AddRow("context", "ui.doctorsList", "клиника").
			AddRow("position", "footer", "внизу").
			AddRow("position_keyword", "", "внизу").
			AddRow("generic", "", "сайт"))
}

// ===== Load Tests =====

func TestStore_Load(t *testing.T) {
	store, mock := createMockStore(t)
	expectLoad(mock)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "db-7", snap.Version)
	assert.Equal(t, []catalog.ComponentType{catalog.DoctorsList, catalog.Form}, snap.Types())
	assert.Equal(t, []string{"врач", "доктор", "медик"}, snap.TermsFor(catalog.DoctorsList))
	assert.Equal(t, []string{"форма"}, snap.TermsFor(catalog.Form))
	assert.Equal(t, []ExactRule{{Key: "форма", Component: catalog.Form}}, snap.ExactRules)
	assert.Equal(t, []string{"клиника"}, snap.ContextTriggers[catalog.DoctorsList])
	assert.Equal(t, []string{"внизу"}, snap.PositionTriggers[catalog.SectionFooter])
	assert.Equal(t, []string{"внизу"}, snap.PositionKeywords)
	assert.Equal(t, []string{"сайт"}, snap.GenericTerms)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Load_MissingVersion(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryVersion)).
		WithArgs(metaVersion).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(queryComponents)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "category", "description"}).AddRow("ui.text", "", ""))
	mock.ExpectQuery(`SELECT c.name, t.term, s.synonym`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "term", "synonym"}))
	mock.ExpectQuery(regexp.QuoteMeta(queryRules)).
		WillReturnRows(sqlmock.NewRows([]string{"rule_key", "component"}))
	mock.ExpectQuery(regexp.QuoteMeta(queryTriggers)).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "target", "phrase"}))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sql", snap.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Load_EmptyStoreIsInvalid(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryVersion)).WithArgs(metaVersion).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(queryComponents)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "category", "description"}))
	mock.ExpectQuery(`SELECT c.name, t.term, s.synonym`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "term", "synonym"}))
	mock.ExpectQuery(regexp.QuoteMeta(queryRules)).
		WillReturnRows(sqlmock.NewRows([]string{"rule_key", "component"}))
	mock.ExpectQuery(regexp.QuoteMeta(queryTriggers)).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "target", "phrase"}))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no components")
}

func TestStore_Load_UnknownTriggerKind(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryVersion)).WithArgs(metaVersion).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(queryComponents)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "category", "description"}).AddRow("ui.text", "", ""))
	mock.ExpectQuery(`SELECT c.name, t.term, s.synonym`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "term", "synonym"}))
	mock.ExpectQuery(regexp.QuoteMeta(queryRules)).
		WillReturnRows(sqlmock.NewRows([]string{"rule_key", "component"}))
	mock.ExpectQuery(regexp.QuoteMeta(queryTriggers)).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "target", "phrase"}).AddRow("weird", "", "x"))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown trigger kind")
}

func TestStore_Load_QueryError(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryVersion)).
		WithArgs(metaVersion).
		WillReturnError(assert.AnError)

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// ===== Migrate / Seed Tests =====

func TestStore_Migrate_ExecutesEveryStatement(t *testing.T) {
	store, mock := createMockStore(t)
	mock.MatchExpectationsInOrder(true)

	for range 9 {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Seed_RollsBackOnFailure(t *testing.T) {
	store, mock := createMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM mappings`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := store.Seed(context.Background(), Builtin())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Seed_RejectsInvalidSnapshot(t *testing.T) {
	store, mock := createMockStore(t)

	err := store.Seed(context.Background(), &Snapshot{})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no statements are issued")
}

func TestStore_SQLiteSeedAndLoad(t *testing.T) {
	client, err := database.NewSQLite(database.SQLiteConfig{Path: filepath.Join(t.TempDir(), "vocab.db")})
	require.NoError(t, err)
	defer client.Close()

	store := NewStore(client.DB, DialectSQLite)
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Seed(ctx, Builtin()))

	snap, err := store.Load(ctx)
	require.NoError(t, err)

	want := Builtin()
	assert.Equal(t, want.Version, snap.Version)
	assert.Equal(t, want.Types(), snap.Types())
	assert.Equal(t, want.ExactRules, snap.ExactRules)
	assert.Equal(t, want.TermsFor(catalog.ServicesGrid), snap.TermsFor(catalog.ServicesGrid))
	assert.Equal(t, want.ContextTriggers, snap.ContextTriggers)
	assert.Equal(t, want.PositionTriggers, snap.PositionTriggers)
	assert.Equal(t, want.PositionKeywords, snap.PositionKeywords)
	assert.Equal(t, want.GenericTerms, snap.GenericTerms)

	// seeding twice replaces rather than duplicates
	require.NoError(t, store.Seed(ctx, Builtin()))
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Types(), again.Types())
}

// ===== Loader Tests =====

func TestLoad_FallsBackToBuiltin(t *testing.T) {
	log := logger.NewTestLogger(t)

	snap := Load(context.Background(), SourceConfig{Source: "nosuch"}, log)
	assert.Equal(t, BuiltinVersion, snap.Version)

	snap = Load(context.Background(), SourceConfig{Source: SourceFile}, log)
	assert.Equal(t, BuiltinVersion, snap.Version)
}

func TestLoad_FileSource(t *testing.T) {
	snap := Load(context.Background(), SourceConfig{Source: SourceFile, Path: writeFile(t, overrideYAML)}, logger.NewTestLogger(t))
	assert.Equal(t, "clinic-1", snap.Version)
}

func TestLoadStrict_SQLSeedsEmptyStore(t *testing.T) {
	cfg := SourceConfig{
		Source:      SourceSQL,
		Driver:      string(DialectSQLite),
		SQLite:      database.SQLiteConfig{Path: filepath.Join(t.TempDir(), "vocab.db")},
		SeedIfEmpty: true,
	}

	snap, err := LoadStrict(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, BuiltinVersion, snap.Version)

	cfg.SeedIfEmpty = false
	snap, err = LoadStrict(context.Background(), cfg)
	require.NoError(t, err, "the seeded vocabulary persists")
	assert.Equal(t, Builtin().Types(), snap.Types())
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenStore(SourceConfig{Driver: "mysql"})
	assert.Error(t, err)
}
