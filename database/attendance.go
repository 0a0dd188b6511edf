package database

import (
	"database/sql"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

type AttendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// StatusPending is the roster sentinel for students whose attendance
// has not been recorded yet.
const StatusPending = "Pending"

type RosterEntry struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	CNE    string `json:"cne"`
	Status string `json:"status"`
}

type PresenceEntry struct {
	StudentID int64  `json:"student_id"`
	Status    string `json:"status"`
}

type PresenceStat struct {
	Date  string  `json:"date"`
	Group string  `json:"group"`
	Rate  float64 `json:"rate"`
}

type AbsenceEntry struct {
	Name   string   `json:"name"`
	CNE    string   `json:"cne"`
	Group  string   `json:"group"`
	Module string   `json:"module"`
	Count  int      `json:"count"`
	Dates  []string `json:"dates"`
}

// GetOrCreateSession is an idempotent lookup-or-insert keyed by the
// (teacher, group, module, calendar date) tuple. New sessions get the
// fixed 08:00-10:00 slot; the caller only supplies the date.
func (r *AttendanceRepository) GetOrCreateSession(teacherID, groupID, moduleID int64, date string) (int64, error) {
	var sessionID int64
	err := r.db.Get(&sessionID, `
        SELECT seance_id FROM seance
        WHERE formateur_id = $1 AND groupe_id = $2 AND module_id = $3 AND date_debut::date = $4::date`,
		teacherID, groupID, moduleID, date)
	if err == nil {
		return sessionID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, classifyError(err)
	}

	err = r.db.Get(&sessionID, `
        INSERT INTO seance (date_debut, date_fin, salle, module_id, formateur_id, groupe_id)
        VALUES ($1::timestamp, $2::timestamp, 'Virtual', $3, $4, $5)
        RETURNING seance_id`,
		date+" 08:00:00", date+" 10:00:00", moduleID, teacherID, groupID)
	if err != nil {
		return 0, classifyError(err)
	}
	return sessionID, nil
}

// ListRosterWithPresence lists every student of the group exactly once,
// with the recorded status for the session or the Pending sentinel.
func (r *AttendanceRepository) ListRosterWithPresence(groupID, sessionID int64) ([]RosterEntry, error) {
	rows, err := r.db.Queryx(`
        SELECT e.etudiant_id, u.nom, u.prenom, e.cne, p.etat
        FROM etudiant e
        JOIN utilisateur u ON e.etudiant_id = u.user_id
        LEFT JOIN presence p ON e.etudiant_id = p.etudiant_id AND p.seance_id = $1
        WHERE e.groupe_id = $2
        ORDER BY u.nom`, sessionID, groupID)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	roster := []RosterEntry{}
	for rows.Next() {
		var entry RosterEntry
		var nom, prenom string
		var status sql.NullString
		if err := rows.Scan(&entry.ID, &nom, &prenom, &entry.CNE, &status); err != nil {
			return nil, classifyError(err)
		}
		entry.Name = nom + " " + prenom
		entry.Status = StatusPending
		if status.Valid {
			entry.Status = status.String
		}
		roster = append(roster, entry)
	}
	return roster, classifyError(rows.Err())
}

// SaveBulkPresence upserts one row per (session, student): update
// first, insert only when no row was touched. Insert-or-ignore would
// leave stale statuses behind, update-then-insert keeps the pair
// unique. The whole batch commits or rolls back together.
func (r *AttendanceRepository) SaveBulkPresence(sessionID int64, entries []PresenceEntry) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return classifyError(err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		res, err := tx.Exec(`
            UPDATE presence SET etat = $1, date_enregistrement = NOW()
            WHERE seance_id = $2 AND etudiant_id = $3`,
			entry.Status, sessionID, entry.StudentID)
		if err != nil {
			return classifyError(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return classifyError(err)
		}
		if affected == 0 {
			_, err = tx.Exec(`
                INSERT INTO presence (seance_id, etudiant_id, etat, date_enregistrement)
                VALUES ($1, $2, $3, NOW())`,
				sessionID, entry.StudentID, entry.Status)
			if err != nil {
				return classifyError(err)
			}
		}
	}

	return classifyError(tx.Commit())
}

// PresenceStats aggregates presence per (calendar date, group).
// teacherID 0 means all teachers.
func (r *AttendanceRepository) PresenceStats(teacherID int64) ([]PresenceStat, error) {
	query := `
        SELECT s.date_debut::date AS day,
               COALESCE(g.nom_groupe, 'N/A') AS group_name,
               COUNT(*) FILTER (WHERE LOWER(p.etat) = 'present') AS present,
               COUNT(p.presence_id) AS total
        FROM seance s
        LEFT JOIN groupe g ON s.groupe_id = g.groupe_id
        LEFT JOIN presence p ON s.seance_id = p.seance_id`
	args := []interface{}{}
	if teacherID != 0 {
		query += ` WHERE s.formateur_id = $1`
		args = append(args, teacherID)
	}
	query += ` GROUP BY s.date_debut::date, g.nom_groupe`

	rows, err := r.db.Queryx(query, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	stats := []PresenceStat{}
	for rows.Next() {
		var (
			day            time.Time
			groupName      string
			present, total int
		)
		if err := rows.Scan(&day, &groupName, &present, &total); err != nil {
			return nil, classifyError(err)
		}
		stats = append(stats, PresenceStat{
			Date:  day.Format("2006-01-02"),
			Group: groupName,
			Rate:  presenceRate(present, total),
		})
	}
	return stats, classifyError(rows.Err())
}

// presenceRate is present/total as a percentage rounded to one
// decimal; an empty session reports 0 rather than dividing by zero.
func presenceRate(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(present) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type absenceRow struct {
	Name   string
	CNE    string
	Group  string
	Module string
	Date   time.Time
}

// AbsenceReport aggregates absent presence rows per (student CNE,
// module name) with the list of absence dates, most absences first.
// Two groups studying the same module merge under one key; that is the
// intended reporting granularity.
func (r *AttendanceRepository) AbsenceReport(teacherID int64) ([]AbsenceEntry, error) {
	query := `
        SELECT u.nom, u.prenom, e.cne, g.nom_groupe, m.nom_module, s.date_debut
        FROM presence p
        JOIN seance s ON p.seance_id = s.seance_id
        JOIN etudiant e ON p.etudiant_id = e.etudiant_id
        JOIN utilisateur u ON e.etudiant_id = u.user_id
        LEFT JOIN groupe g ON s.groupe_id = g.groupe_id
        LEFT JOIN module m ON s.module_id = m.module_id
        WHERE LOWER(p.etat) = 'absent'`
	args := []interface{}{}
	if teacherID != 0 {
		query += ` AND s.formateur_id = $1`
		args = append(args, teacherID)
	}

	rows, err := r.db.Queryx(query, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	absences := []absenceRow{}
	for rows.Next() {
		var (
			row               absenceRow
			nom, prenom       string
			group, moduleName sql.NullString
		)
		if err := rows.Scan(&nom, &prenom, &row.CNE, &group, &moduleName, &row.Date); err != nil {
			return nil, classifyError(err)
		}
		row.Name = nom + " " + prenom
		row.Group = group.String
		row.Module = moduleName.String
		absences = append(absences, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(err)
	}

	return aggregateAbsences(absences), nil
}

// aggregateAbsences folds rows into per-(CNE, module) entries sorted
// by descending count; ties keep encounter order.
func aggregateAbsences(rows []absenceRow) []AbsenceEntry {
	entries := []AbsenceEntry{}
	index := map[string]int{}
	for _, row := range rows {
		key := row.CNE + "-" + row.Module
		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, AbsenceEntry{
				Name:   row.Name,
				CNE:    row.CNE,
				Group:  row.Group,
				Module: row.Module,
				Dates:  []string{},
			})
		}
		entries[i].Count++
		entries[i].Dates = append(entries[i].Dates, row.Date.Format("02 Jan"))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// CountSessions is the only KPI computed at the storage level; the
// average rate roll-up lives in the access facade.
func (r *AttendanceRepository) CountSessions(teacherID int64) (int, error) {
	var total int
	var err error
	if teacherID != 0 {
		err = r.db.Get(&total, `SELECT COUNT(*) FROM seance WHERE formateur_id = $1`, teacherID)
	} else {
		err = r.db.Get(&total, `SELECT COUNT(*) FROM seance`)
	}
	return total, classifyError(err)
}
