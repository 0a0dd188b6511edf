package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type AnnouncementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// HistoryItem is one row of a teacher's mixed publication history;
// Type is either "TP" or "Annonce".
type HistoryItem struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Group  string `json:"group"`
	Module string `json:"module"`
}

func (r *AnnouncementRepository) Create(titre, contenu string, image []byte, teacherID, groupID, moduleID int64) error {
	var imageArg interface{}
	if len(image) > 0 {
		imageArg = image
	}
	_, err := r.db.Exec(`
        INSERT INTO annonce (titre, contenu, image_bin, formateur_id, groupe_id, module_id, date_publication)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		titre, contenu, imageArg, teacherID, groupID, moduleID)
	return classifyError(err)
}

// TeacherHistory merges the teacher's coursework and announcements into
// one stream ordered by publication/deadline date.
func (r *AnnouncementRepository) TeacherHistory(teacherID int64) ([]HistoryItem, error) {
	rows, err := r.db.Queryx(`
        SELECT tp.tp_id AS id, tp.titre, tp.date_limite AS d, 'TP' AS t, g.nom_groupe, m.nom_module
        FROM tp
        LEFT JOIN groupe g ON tp.groupe_id = g.groupe_id
        LEFT JOIN module m ON tp.module_id = m.module_id
        WHERE tp.formateur_id = $1
        UNION ALL
        SELECT a.annonce_id, a.titre, a.date_publication, 'Annonce', g.nom_groupe, m.nom_module
        FROM annonce a
        LEFT JOIN groupe g ON a.groupe_id = g.groupe_id
        LEFT JOIN module m ON a.module_id = m.module_id
        WHERE a.formateur_id = $1
        ORDER BY d DESC`, teacherID)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	history := []HistoryItem{}
	for rows.Next() {
		var (
			item              HistoryItem
			date              sql.NullTime
			group, moduleName sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Title, &date, &item.Type, &group, &moduleName); err != nil {
			return nil, classifyError(err)
		}
		if date.Valid {
			item.Date = date.Time.Format("2006-01-02 15:04")
		}
		item.Group = "N/A"
		if group.Valid {
			item.Group = group.String
		}
		item.Module = "N/A"
		if moduleName.Valid {
			item.Module = moduleName.String
		}
		history = append(history, item)
	}
	return history, classifyError(rows.Err())
}
