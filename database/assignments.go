package database

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type AssignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

type AssignmentDetail struct {
	ID     int64  `json:"id"`
	Group  string `json:"group"`
	Module string `json:"module"`
}

type TeacherModule struct {
	ModuleID   int64  `db:"module_id" json:"module_id"`
	ModuleName string `db:"module_name" json:"module_name"`
	GroupID    int64  `db:"group_id" json:"group_id"`
	GroupName  string `db:"group_name" json:"group_name"`
}

// Assign links a teacher to a (group, module) pair. The triple is
// probed first so the common duplicate case reports ErrDuplicate
// without touching the constraint; a lost race against a concurrent
// insert surfaces as the same ErrDuplicate via classifyError.
func (r *AssignmentRepository) Assign(teacherID, groupID, moduleID int64) error {
	var one int
	err := r.db.Get(&one, `
        SELECT 1 FROM affectation
        WHERE formateur_id = $1 AND groupe_id = $2 AND module_id = $3`,
		teacherID, groupID, moduleID)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return classifyError(err)
	}

	_, err = r.db.Exec(`
        INSERT INTO affectation (formateur_id, groupe_id, module_id)
        VALUES ($1, $2, $3)`,
		teacherID, groupID, moduleID)
	return classifyError(err)
}

func (r *AssignmentRepository) ListForTeacher(teacherID int64) ([]AssignmentDetail, error) {
	rows, err := r.db.Queryx(`
        SELECT a.affectation_id, g.nom_groupe, m.nom_module
        FROM affectation a
        JOIN groupe g ON a.groupe_id = g.groupe_id
        JOIN module m ON a.module_id = m.module_id
        WHERE a.formateur_id = $1`, teacherID)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	assignments := []AssignmentDetail{}
	for rows.Next() {
		var a AssignmentDetail
		if err := rows.Scan(&a.ID, &a.Group, &a.Module); err != nil {
			return nil, classifyError(err)
		}
		assignments = append(assignments, a)
	}
	return assignments, classifyError(rows.Err())
}

// TeacherModules returns the (module, group) pairs a teacher may
// publish coursework or record attendance for.
func (r *AssignmentRepository) TeacherModules(teacherID int64) ([]TeacherModule, error) {
	modules := []TeacherModule{}
	err := r.db.Select(&modules, `
        SELECT m.module_id, m.nom_module AS module_name, g.groupe_id AS group_id, g.nom_groupe AS group_name
        FROM affectation a
        JOIN module m ON a.module_id = m.module_id
        JOIN groupe g ON a.groupe_id = g.groupe_id
        WHERE a.formateur_id = $1`, teacherID)
	return modules, classifyError(err)
}

func (r *AssignmentRepository) Remove(assignmentID int64) error {
	_, err := r.db.Exec(`DELETE FROM affectation WHERE affectation_id = $1`, assignmentID)
	return classifyError(err)
}
