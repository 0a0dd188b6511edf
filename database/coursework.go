package database

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

type CourseworkRepository struct {
	db *sqlx.DB
}

func NewCourseworkRepository(db *sqlx.DB) *CourseworkRepository {
	return &CourseworkRepository{db: db}
}

type CourseworkGlobal struct {
	ID       int64  `json:"id"`
	Titre    string `json:"titre"`
	Deadline string `json:"deadline"`
	Group    string `json:"group"`
	Module   string `json:"module"`
	Teacher  string `json:"teacher"`
}

type CourseworkForStudent struct {
	ID          int64  `json:"id"`
	Titre       string `json:"titre"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Module      string `json:"module"`
}

type Attachment struct {
	Data []byte `json:"data"`
	Name string `json:"name"`
}

type SubmissionDetail struct {
	ID       int64  `json:"id"`
	Student  string `json:"student"`
	Date     string `json:"date"`
	Grade    string `json:"grade"`
	FileName string `json:"file_name"`
}

// NormalizeDeadline converts the HTML datetime-local separator into the
// space-separated form stored in date_limite.
func NormalizeDeadline(deadline string) string {
	return strings.Replace(deadline, "T", " ", 1)
}

func (r *CourseworkRepository) CreateWithAttachment(titre, description string, fileData []byte, fileName, fileType, deadline string, moduleID, teacherID, groupID int64) error {
	_, err := r.db.Exec(`
        INSERT INTO tp (titre, description, fichier_data, fichier_nom, fichier_type, date_limite, module_id, formateur_id, groupe_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		titre, description, fileData, fileName, fileType, NormalizeDeadline(deadline), moduleID, teacherID, groupID)
	return classifyError(err)
}

// ListGlobal keeps coursework visible after its group/module/teacher
// was deleted by substituting fixed placeholder names.
func (r *CourseworkRepository) ListGlobal() ([]CourseworkGlobal, error) {
	rows, err := r.db.Queryx(`
        SELECT tp.tp_id, tp.titre, tp.date_limite,
               COALESCE(g.nom_groupe, 'No Group') AS group_name,
               COALESCE(m.nom_module, 'General') AS module_name,
               COALESCE(u.nom, 'System') AS nom,
               COALESCE(u.prenom, 'Admin') AS prenom
        FROM tp
        LEFT JOIN groupe g ON tp.groupe_id = g.groupe_id
        LEFT JOIN module m ON tp.module_id = m.module_id
        LEFT JOIN utilisateur u ON tp.formateur_id = u.user_id
        ORDER BY tp.date_limite DESC`)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	list := []CourseworkGlobal{}
	for rows.Next() {
		var (
			cw                    CourseworkGlobal
			deadline              sql.NullTime
			groupName, moduleName string
			nom, prenom           string
		)
		if err := rows.Scan(&cw.ID, &cw.Titre, &deadline, &groupName, &moduleName, &nom, &prenom); err != nil {
			return nil, classifyError(err)
		}
		cw.Deadline = "No Deadline"
		if deadline.Valid {
			cw.Deadline = deadline.Time.Format("2006-01-02 15:04")
		}
		cw.Group = groupName
		cw.Module = moduleName
		cw.Teacher = nom + " " + prenom
		list = append(list, cw)
	}
	return list, classifyError(rows.Err())
}

func (r *CourseworkRepository) ListForStudentGroup(groupID int64) ([]CourseworkForStudent, error) {
	rows, err := r.db.Queryx(`
        SELECT tp.tp_id, tp.titre, tp.description, tp.date_limite, m.nom_module
        FROM tp
        JOIN module m ON tp.module_id = m.module_id
        WHERE tp.groupe_id = $1
        ORDER BY tp.date_limite DESC`, groupID)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	list := []CourseworkForStudent{}
	for rows.Next() {
		var cw CourseworkForStudent
		var deadline sql.NullTime
		if err := rows.Scan(&cw.ID, &cw.Titre, &cw.Description, &deadline, &cw.Module); err != nil {
			return nil, classifyError(err)
		}
		if deadline.Valid {
			cw.Deadline = deadline.Time.Format("2006-01-02 15:04:05")
		}
		list = append(list, cw)
	}
	return list, classifyError(rows.Err())
}

func (r *CourseworkRepository) GetAttachment(tpID int64) (*Attachment, error) {
	var att Attachment
	err := r.db.QueryRowx(`SELECT fichier_data, fichier_nom FROM tp WHERE tp_id = $1`, tpID).
		Scan(&att.Data, &att.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyError(err)
	}
	return &att, nil
}

// CreateSubmission stamps date_soumission server-side at insert.
func (r *CourseworkRepository) CreateSubmission(tpID, studentID int64, fileData []byte, fileName, fileType string) error {
	_, err := r.db.Exec(`
        INSERT INTO soumission (tp_id, etudiant_id, fichier_data, fichier_nom, fichier_type, date_soumission)
        VALUES ($1, $2, $3, $4, $5, NOW())`,
		tpID, studentID, fileData, fileName, fileType)
	return classifyError(err)
}

func (r *CourseworkRepository) ListSubmissionsForTP(tpID int64) ([]SubmissionDetail, error) {
	rows, err := r.db.Queryx(`
        SELECT s.soumission_id, u.nom, u.prenom, s.date_soumission, s.note, s.fichier_nom
        FROM soumission s
        JOIN utilisateur u ON s.etudiant_id = u.user_id
        WHERE s.tp_id = $1
        ORDER BY u.nom`, tpID)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	list := []SubmissionDetail{}
	for rows.Next() {
		var (
			sub         SubmissionDetail
			nom, prenom string
			submitted   sql.NullTime
			note        sql.NullFloat64
		)
		if err := rows.Scan(&sub.ID, &nom, &prenom, &submitted, &note, &sub.FileName); err != nil {
			return nil, classifyError(err)
		}
		sub.Student = nom + " " + prenom
		if submitted.Valid {
			sub.Date = submitted.Time.Format("02 Jan 15:04")
		}
		if note.Valid {
			sub.Grade = strconv.FormatFloat(note.Float64, 'f', -1, 64)
		}
		list = append(list, sub)
	}
	return list, classifyError(rows.Err())
}

func (r *CourseworkRepository) SetGrade(submissionID int64, grade float64) error {
	_, err := r.db.Exec(`UPDATE soumission SET note = $1 WHERE soumission_id = $2`, grade, submissionID)
	return classifyError(err)
}
