package migration

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersAndFilters(t *testing.T) {
	src := fstest.MapFS{
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("ignored")},
	}

	migs, err := Load(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "first", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.NotEmpty(t, migs[0].Checksum)
}

func TestLoad_RejectsDuplicatesAndEmpty(t *testing.T) {
	_, err := Load(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 1;")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")

	_, err = Load(fstest.MapFS{"V3__empty.sql": {Data: []byte("  \n")}})
	assert.ErrorContains(t, err, "empty migration file")
}

func TestLoad_Embedded(t *testing.T) {
	src, err := Runner{}.source()
	require.NoError(t, err)

	migs, err := Load(src)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(migs), 2)
	assert.Equal(t, "store_match_counters", migs[0].Name)
	assert.Contains(t, migs[0].SQL, "store_match_counters")
	assert.Equal(t, "store_match_events", migs[1].Name)
}

func TestRun_AppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	src := fstest.MapFS{
		"V1__first.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"V2__second.sql": {Data: []byte("CREATE TABLE b (id INT);")},
	}
	migs, err := Load(src)
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_lock($1)")).WithArgs(lockKey).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, checksum FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "checksum"}).AddRow(int64(1), migs[0].Checksum))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT);")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(int64(2), "second", migs[1].Checksum, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_unlock($1)")).WithArgs(lockKey).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Runner{FS: src}.Run(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_ChecksumMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	src := fstest.MapFS{"V1__first.sql": {Data: []byte("CREATE TABLE a (id INT);")}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_lock($1)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, checksum FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "checksum"}).AddRow(int64(1), "stale"))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_unlock($1)")).WillReturnResult(sqlmock.NewResult(0, 0))

	err = Runner{FS: src}.Run(context.Background(), db)
	assert.ErrorContains(t, err, "checksum mismatch")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_NilDB(t *testing.T) {
	assert.Error(t, Runner{}.Run(context.Background(), nil))
}
