package database

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRate(t *testing.T) {
	assert.Equal(t, float64(0), averageRate(nil))
	assert.Equal(t, 50.0, averageRate([]PresenceStat{{Rate: 100}, {Rate: 0}}))
	// Unweighted mean, rounded to one decimal.
	assert.Equal(t, 55.6, averageRate([]PresenceStat{{Rate: 66.7}, {Rate: 100}, {Rate: 0}}))
}

func TestStoreDegradesWithoutConnection(t *testing.T) {
	store := NewStore(nil)
	require.False(t, store.Alive())

	user, err := store.Login("sara@school.test", "123456")
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, ErrNotFound))

	accounts, err := store.ListAccounts()
	assert.NoError(t, err)
	assert.Empty(t, accounts)

	data, err := store.GetTeacherData(3)
	assert.NoError(t, err)
	assert.Empty(t, data.Assignments)
	assert.Empty(t, data.History)

	analytics, err := store.Analytics(0)
	assert.NoError(t, err)
	assert.Zero(t, analytics.KPIs.TotalSessions)
	assert.Empty(t, analytics.Stats)

	err = store.CreateAccount("A", "B", "a@b.c", "pw", RoleAdmin, ExtensionInput{})
	assert.True(t, errors.Is(err, ErrConnectionUnavailable))
	assert.True(t, errors.Is(store.SetGrade(1, 10), ErrConnectionUnavailable))
	assert.True(t, errors.Is(store.SaveBulkPresence(1, nil), ErrConnectionUnavailable))
}

func TestStudentCourseworkResolvesGroup(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)
	require.True(t, store.Alive())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM utilisateur WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "nom", "prenom", "email", "mot_de_passe", "role"}).
			AddRow(int64(7), "Benali", "Omar", "omar@school.test", HashPassword("pw"), RoleStudent))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT cne, groupe_id FROM etudiant WHERE etudiant_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"cne", "groupe_id"}).AddRow("D130001", int64(5)))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE tp.groupe_id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"tp_id", "titre", "description", "date_limite", "nom_module"}))

	list, err := store.StudentCoursework(7)
	require.NoError(t, err)
	assert.Empty(t, list)
	expectationsMet(t, mock)
}

func TestStudentCourseworkWithoutGroupSeesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM utilisateur WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "nom", "prenom", "email", "mot_de_passe", "role"}).
			AddRow(int64(7), "Benali", "Omar", "omar@school.test", HashPassword("pw"), RoleStudent))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT cne, groupe_id FROM etudiant WHERE etudiant_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"cne", "groupe_id"}).AddRow("D130001", nil))

	list, err := store.StudentCoursework(7)
	require.NoError(t, err)
	assert.Empty(t, list)
	expectationsMet(t, mock)
}

func TestAnalyticsComputesKPIs(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(p.presence_id) AS total`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "group_name", "present", "total"}).
			AddRow(day, "G1", 2, 3).
			AddRow(day, "G2", 3, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(p.etat) = 'absent'`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"nom", "prenom", "cne", "nom_groupe", "nom_module", "date_debut"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seance WHERE formateur_id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	data, err := store.Analytics(3)
	require.NoError(t, err)
	assert.Equal(t, 2, data.KPIs.TotalSessions)
	// Mean of 66.7 and 100, rounded to one decimal.
	assert.Equal(t, 83.4, data.KPIs.AvgRate)
	assert.Empty(t, data.Absences)
	expectationsMet(t, mock)
}
