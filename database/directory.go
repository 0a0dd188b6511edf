package database

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type DirectoryRepository struct {
	db *sqlx.DB
}

func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// ExtensionInput carries the role-specific fields of a new account;
// only the fields matching the role are read.
type ExtensionInput struct {
	CNE       string
	GroupeID  int64
	Matricule string
}

type AccountUpdate struct {
	Nom       string
	Prenom    string
	Email     string
	Password  string // empty means keep the stored digest
	CNE       string
	GroupeID  int64
	Matricule string
}

type AccountListing struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	StudentGroup  string   `json:"student_group"`
	Matricule     string   `json:"matricule"`
	CNE           string   `json:"cne"`
	TeacherGroups []string `json:"teacher_groups"`
}

type AccountDetail struct {
	ID        int64  `json:"id"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CNE       string `json:"cne"`
	Matricule string `json:"matricule"`
	GroupeID  int64  `json:"groupe_id"`
}

type GroupOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ModuleOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TeacherOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateAccount inserts the utilisateur row plus exactly one extension
// row for Etudiant/Formateur roles. The whole unit commits or rolls
// back together; no partial account survives a failure.
func (r *DirectoryRepository) CreateAccount(nom, prenom, email, password, role string, extra ExtensionInput) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return classifyError(err)
	}
	defer tx.Rollback()

	if err := r.CreateAccountTx(tx, nom, prenom, email, password, role, extra); err != nil {
		return err
	}

	return classifyError(tx.Commit())
}

// CreateAccountTx is the transactional body of CreateAccount, exposed
// so the CSV importer can batch many accounts into one transaction.
func (r *DirectoryRepository) CreateAccountTx(tx *sqlx.Tx, nom, prenom, email, password, role string, extra ExtensionInput) error {
	var userID int64
	err := tx.Get(&userID, `
        INSERT INTO utilisateur (nom, prenom, email, mot_de_passe, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING user_id`,
		nom, prenom, email, HashPassword(password), role)
	if err != nil {
		return classifyError(err)
	}

	switch role {
	case RoleStudent:
		_, err = tx.Exec(`
            INSERT INTO etudiant (etudiant_id, cne, groupe_id, date_naissance)
            VALUES ($1, $2, $3, NOW())`,
			userID, extra.CNE, extra.GroupeID)
	case RoleTeacher:
		_, err = tx.Exec(`
            INSERT INTO formateur (formateur_id, matricule, specialite)
            VALUES ($1, $2, 'General')`,
			userID, extra.Matricule)
	}
	return classifyError(err)
}

func (r *DirectoryRepository) GroupIDByName(tx *sqlx.Tx, groupName string) (int64, error) {
	var groupID int64
	err := tx.Get(&groupID, `SELECT groupe_id FROM groupe WHERE nom_groupe = $1`, groupName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, classifyError(err)
	}
	return groupID, nil
}

// UpdateAccount edits name/email always and the digest only when a new
// password was supplied. The extension row is resolved from the stored
// role: role changes via edit are not supported, a differing role in
// the payload is ignored.
func (r *DirectoryRepository) UpdateAccount(userID int64, upd AccountUpdate) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return classifyError(err)
	}
	defer tx.Rollback()

	var storedRole string
	err = tx.Get(&storedRole, `SELECT role FROM utilisateur WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return classifyError(err)
	}

	if upd.Password != "" {
		_, err = tx.Exec(`
            UPDATE utilisateur SET nom = $1, prenom = $2, email = $3, mot_de_passe = $4
            WHERE user_id = $5`,
			upd.Nom, upd.Prenom, upd.Email, HashPassword(upd.Password), userID)
	} else {
		_, err = tx.Exec(`
            UPDATE utilisateur SET nom = $1, prenom = $2, email = $3
            WHERE user_id = $4`,
			upd.Nom, upd.Prenom, upd.Email, userID)
	}
	if err != nil {
		return classifyError(err)
	}

	switch storedRole {
	case RoleStudent:
		_, err = tx.Exec(`UPDATE etudiant SET cne = $1, groupe_id = $2 WHERE etudiant_id = $3`,
			upd.CNE, upd.GroupeID, userID)
	case RoleTeacher:
		_, err = tx.Exec(`UPDATE formateur SET matricule = $1 WHERE formateur_id = $2`,
			upd.Matricule, userID)
	}
	if err != nil {
		return classifyError(err)
	}

	return classifyError(tx.Commit())
}

// DeleteAccount hard-deletes; extension and dependent rows go with it
// via the schema's ON DELETE CASCADE rules.
func (r *DirectoryRepository) DeleteAccount(userID int64) error {
	_, err := r.db.Exec(`DELETE FROM utilisateur WHERE user_id = $1`, userID)
	return classifyError(err)
}

// ListAccounts returns every account with its role-specific fields and,
// for teachers, the "Group (Module)" labels from affectation.
func (r *DirectoryRepository) ListAccounts() ([]AccountListing, error) {
	rows, err := r.db.Queryx(`
        SELECT u.user_id, u.nom, u.prenom, u.email, u.role,
               g.nom_groupe, f.matricule, e.cne
        FROM utilisateur u
        LEFT JOIN etudiant e ON u.user_id = e.etudiant_id
        LEFT JOIN groupe g ON e.groupe_id = g.groupe_id
        LEFT JOIN formateur f ON u.user_id = f.formateur_id
        ORDER BY u.role, u.nom`)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	accounts := []AccountListing{}
	index := map[int64]int{}
	for rows.Next() {
		var (
			id                       int64
			nom, prenom, email, role string
			groupName, matricule     sql.NullString
			cne                      sql.NullString
		)
		if err := rows.Scan(&id, &nom, &prenom, &email, &role, &groupName, &matricule, &cne); err != nil {
			return nil, classifyError(err)
		}
		index[id] = len(accounts)
		accounts = append(accounts, AccountListing{
			ID:            id,
			Name:          nom + " " + prenom,
			Email:         email,
			Role:          role,
			StudentGroup:  groupName.String,
			Matricule:     matricule.String,
			CNE:           cne.String,
			TeacherGroups: []string{},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(err)
	}

	links, err := r.db.Queryx(`
        SELECT a.formateur_id, g.nom_groupe, m.nom_module
        FROM affectation a
        JOIN groupe g ON a.groupe_id = g.groupe_id
        JOIN module m ON a.module_id = m.module_id`)
	if err != nil {
		return nil, classifyError(err)
	}
	defer links.Close()

	for links.Next() {
		var teacherID int64
		var groupName, moduleName string
		if err := links.Scan(&teacherID, &groupName, &moduleName); err != nil {
			return nil, classifyError(err)
		}
		if i, ok := index[teacherID]; ok {
			accounts[i].TeacherGroups = append(accounts[i].TeacherGroups, groupName+" ("+moduleName+")")
		}
	}
	return accounts, classifyError(links.Err())
}

// GetAccountDetail fills role-specific fields, defaulting to zero
// values when the extension row is missing.
func (r *DirectoryRepository) GetAccountDetail(userID int64) (*AccountDetail, error) {
	var u User
	err := r.db.Get(&u, `SELECT * FROM utilisateur WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyError(err)
	}

	detail := &AccountDetail{
		ID:     u.UserID,
		Nom:    u.Nom,
		Prenom: u.Prenom,
		Email:  u.Email,
		Role:   u.Role,
	}

	switch u.Role {
	case RoleStudent:
		var ext struct {
			CNE      string        `db:"cne"`
			GroupeID sql.NullInt64 `db:"groupe_id"`
		}
		err = r.db.Get(&ext, `SELECT cne, groupe_id FROM etudiant WHERE etudiant_id = $1`, userID)
		if err == nil {
			detail.CNE = ext.CNE
			detail.GroupeID = ext.GroupeID.Int64
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, classifyError(err)
		}
	case RoleTeacher:
		var matricule string
		err = r.db.Get(&matricule, `SELECT matricule FROM formateur WHERE formateur_id = $1`, userID)
		if err == nil {
			detail.Matricule = matricule
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, classifyError(err)
		}
	}

	return detail, nil
}

// ListGroupsByTrack groups the admin's group selector by filiere name.
func (r *DirectoryRepository) ListGroupsByTrack() (map[string][]GroupOption, error) {
	rows, err := r.db.Queryx(`
        SELECT f.nom_filiere, g.groupe_id, g.nom_groupe
        FROM groupe g
        JOIN filiere f ON g.filiere_id = f.filiere_id
        ORDER BY f.nom_filiere, g.nom_groupe`)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	res := map[string][]GroupOption{}
	for rows.Next() {
		var track string
		var opt GroupOption
		if err := rows.Scan(&track, &opt.ID, &opt.Name); err != nil {
			return nil, classifyError(err)
		}
		res[track] = append(res[track], opt)
	}
	return res, classifyError(rows.Err())
}

func (r *DirectoryRepository) ListModules() ([]ModuleOption, error) {
	modules := []ModuleOption{}
	err := r.db.Select(&modules, `SELECT module_id AS id, nom_module AS name FROM module ORDER BY nom_module`)
	return modules, classifyError(err)
}

func (r *DirectoryRepository) ListTeachers() ([]TeacherOption, error) {
	rows, err := r.db.Queryx(`
        SELECT user_id, nom, prenom FROM utilisateur WHERE role = $1 ORDER BY nom`, RoleTeacher)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	teachers := []TeacherOption{}
	for rows.Next() {
		var id int64
		var nom, prenom string
		if err := rows.Scan(&id, &nom, &prenom); err != nil {
			return nil, classifyError(err)
		}
		teachers = append(teachers, TeacherOption{ID: id, Name: nom + " " + prenom})
	}
	return teachers, classifyError(rows.Err())
}
