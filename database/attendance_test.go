package database

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sessionProbe   = `SELECT seance_id FROM seance`
	sessionInsert  = `INSERT INTO seance (date_debut, date_fin, salle, module_id, formateur_id, groupe_id)`
	presenceUpdate = `UPDATE presence SET etat = $1, date_enregistrement = NOW()`
	presenceInsert = `INSERT INTO presence (seance_id, etudiant_id, etat, date_enregistrement)`
)

func TestGetOrCreateSessionCreatesSlot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(sessionProbe)).
		WithArgs(int64(3), int64(1), int64(5), "2026-03-10").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(sessionInsert)).
		WithArgs("2026-03-10 08:00:00", "2026-03-10 10:00:00", int64(5), int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"seance_id"}).AddRow(int64(42)))

	id, err := repo.GetOrCreateSession(3, 1, 5, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	expectationsMet(t, mock)
}

func TestGetOrCreateSessionReusesExisting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(sessionProbe)).
		WithArgs(int64(3), int64(1), int64(5), "2026-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"seance_id"}).AddRow(int64(42)))

	id, err := repo.GetOrCreateSession(3, 1, 5, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	expectationsMet(t, mock)
}

func TestListRosterDefaultsToPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT e.etudiant_id, u.nom, u.prenom, e.cne, p.etat`)).
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"etudiant_id", "nom", "prenom", "cne", "etat"}).
			AddRow(int64(7), "Benali", "Omar", "D130001", "Present").
			AddRow(int64(9), "Tazi", "Yassine", "D130002", nil))

	roster, err := repo.ListRosterWithPresence(1, 42)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Present", roster[0].Status)
	assert.Equal(t, StatusPending, roster[1].Status)
	assert.Equal(t, "Benali Omar", roster[0].Name)
	expectationsMet(t, mock)
}

func TestSaveBulkPresenceUpdatesThenInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	// First student already has a row: the update suffices.
	mock.ExpectExec(regexp.QuoteMeta(presenceUpdate)).
		WithArgs("Present", int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Second student is new: zero rows updated, so an insert follows.
	mock.ExpectExec(regexp.QuoteMeta(presenceUpdate)).
		WithArgs("Absent", int64(42), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(presenceInsert)).
		WithArgs(int64(42), int64(9), "Absent").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SaveBulkPresence(42, []PresenceEntry{
		{StudentID: 7, Status: "Present"},
		{StudentID: 9, Status: "Absent"},
	})
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestSaveBulkPresenceRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(presenceUpdate)).
		WithArgs("Present", int64(42), int64(7)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.SaveBulkPresence(42, []PresenceEntry{{StudentID: 7, Status: "Present"}})
	assert.Error(t, err)
	expectationsMet(t, mock)
}

func TestPresenceRate(t *testing.T) {
	assert.Equal(t, float64(0), presenceRate(0, 0))
	assert.Equal(t, float64(100), presenceRate(3, 3))
	assert.Equal(t, 66.7, presenceRate(2, 3))
	assert.Equal(t, 33.3, presenceRate(1, 3))
}

func TestPresenceStatsEmptySessionReportsZero(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(p.presence_id) AS total`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "group_name", "present", "total"}).
			AddRow(day, "G1", 2, 3).
			AddRow(day, "G2", 0, 0))

	stats, err := repo.PresenceStats(3)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, PresenceStat{Date: "2026-03-10", Group: "G1", Rate: 66.7}, stats[0])
	assert.Equal(t, PresenceStat{Date: "2026-03-10", Group: "G2", Rate: 0}, stats[1])
	expectationsMet(t, mock)
}

func TestAggregateAbsences(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2026, 3, day, 8, 0, 0, 0, time.UTC) }
	rows := []absenceRow{
		{Name: "Benali Omar", CNE: "D130001", Group: "G1", Module: "Algebra", Date: d(2)},
		{Name: "Tazi Yassine", CNE: "D130002", Group: "G1", Module: "Algebra", Date: d(2)},
		{Name: "Benali Omar", CNE: "D130001", Group: "G1", Module: "Algebra", Date: d(9)},
		{Name: "Benali Omar", CNE: "D130001", Group: "G1", Module: "Analysis", Date: d(4)},
	}

	entries := aggregateAbsences(rows)
	require.Len(t, entries, 3)

	// Most absences first; ties keep encounter order.
	assert.Equal(t, "D130001", entries[0].CNE)
	assert.Equal(t, "Algebra", entries[0].Module)
	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, []string{"02 Mar", "09 Mar"}, entries[0].Dates)

	assert.Equal(t, "D130002", entries[1].CNE)
	assert.Equal(t, 1, entries[1].Count)

	assert.Equal(t, "Analysis", entries[2].Module)
	assert.Equal(t, []string{"04 Mar"}, entries[2].Dates)
}

func TestAggregateAbsencesEmpty(t *testing.T) {
	assert.Empty(t, aggregateAbsences(nil))
}
