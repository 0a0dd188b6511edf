package database

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const announcementInsert = `INSERT INTO annonce (titre, contenu, image_bin, formateur_id, groupe_id, module_id, date_publication)`

func TestCreateAnnouncementWithImage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)

	image := []byte{0x89, 0x50, 0x4e, 0x47}
	mock.ExpectExec(regexp.QuoteMeta(announcementInsert)).
		WithArgs("Exam moved", "Room B12 instead", image, int64(3), int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create("Exam moved", "Room B12 instead", image, 3, 1, 5)
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestCreateAnnouncementWithoutImageStoresNull(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(announcementInsert)).
		WithArgs("Exam moved", "Room B12 instead", nil, int64(3), int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create("Exam moved", "Room B12 instead", nil, 3, 1, 5)
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestTeacherHistoryMergesStreams(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)

	published := time.Date(2026, 3, 20, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`UNION ALL`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "titre", "d", "t", "nom_groupe", "nom_module"}).
			AddRow(int64(2), "Exam moved", published, "Annonce", "G1", "Algebra").
			AddRow(int64(1), "TP1", nil, "TP", nil, nil))

	history, err := repo.TeacherHistory(3)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, "Annonce", history[0].Type)
	assert.Equal(t, "2026-03-20 09:30", history[0].Date)

	// Orphaned rows fall back to the N/A labels and an empty date.
	assert.Equal(t, "TP", history[1].Type)
	assert.Equal(t, "", history[1].Date)
	assert.Equal(t, "N/A", history[1].Group)
	assert.Equal(t, "N/A", history[1].Module)
	expectationsMet(t, mock)
}
