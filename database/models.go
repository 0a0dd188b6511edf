package database

import (
	"time"
)

const (
	RoleAdmin   = "Direction"
	RoleTeacher = "Formateur"
	RoleStudent = "Etudiant"
)

type User struct {
	UserID     int64  `db:"user_id" json:"user_id"`
	Nom        string `db:"nom" json:"nom"`
	Prenom     string `db:"prenom" json:"prenom"`
	Email      string `db:"email" json:"email"`
	MotDePasse string `db:"mot_de_passe" json:"-"`
	Role       string `db:"role" json:"role"`
}

type Student struct {
	EtudiantID    int64     `db:"etudiant_id" json:"etudiant_id"`
	CNE           string    `db:"cne" json:"cne"`
	GroupeID      *int64    `db:"groupe_id" json:"groupe_id"`
	DateNaissance time.Time `db:"date_naissance" json:"date_naissance"`
}

type Teacher struct {
	FormateurID int64  `db:"formateur_id" json:"formateur_id"`
	Matricule   string `db:"matricule" json:"matricule"`
	Specialite  string `db:"specialite" json:"specialite"`
}

type Track struct {
	FiliereID  int64  `db:"filiere_id" json:"filiere_id"`
	NomFiliere string `db:"nom_filiere" json:"nom_filiere"`
}

type Group struct {
	GroupeID  int64  `db:"groupe_id" json:"groupe_id"`
	NomGroupe string `db:"nom_groupe" json:"nom_groupe"`
	FiliereID int64  `db:"filiere_id" json:"filiere_id"`
}

type Module struct {
	ModuleID  int64  `db:"module_id" json:"module_id"`
	NomModule string `db:"nom_module" json:"nom_module"`
}

type Assignment struct {
	AffectationID int64 `db:"affectation_id" json:"affectation_id"`
	FormateurID   int64 `db:"formateur_id" json:"formateur_id"`
	GroupeID      int64 `db:"groupe_id" json:"groupe_id"`
	ModuleID      int64 `db:"module_id" json:"module_id"`
}

type Coursework struct {
	TPID        int64     `db:"tp_id" json:"tp_id"`
	Titre       string    `db:"titre" json:"titre"`
	Description string    `db:"description" json:"description"`
	FichierData []byte    `db:"fichier_data" json:"-"`
	FichierNom  string    `db:"fichier_nom" json:"fichier_nom"`
	FichierType string    `db:"fichier_type" json:"fichier_type"`
	DateLimite  time.Time `db:"date_limite" json:"date_limite"`
	ModuleID    *int64    `db:"module_id" json:"module_id"`
	FormateurID *int64    `db:"formateur_id" json:"formateur_id"`
	GroupeID    *int64    `db:"groupe_id" json:"groupe_id"`
}

type Submission struct {
	SoumissionID   int64     `db:"soumission_id" json:"soumission_id"`
	TPID           int64     `db:"tp_id" json:"tp_id"`
	EtudiantID     int64     `db:"etudiant_id" json:"etudiant_id"`
	FichierData    []byte    `db:"fichier_data" json:"-"`
	FichierNom     string    `db:"fichier_nom" json:"fichier_nom"`
	FichierType    string    `db:"fichier_type" json:"fichier_type"`
	DateSoumission time.Time `db:"date_soumission" json:"date_soumission"`
	Note           *float64  `db:"note" json:"note"`
}

type Session struct {
	SeanceID    int64     `db:"seance_id" json:"seance_id"`
	DateDebut   time.Time `db:"date_debut" json:"date_debut"`
	DateFin     time.Time `db:"date_fin" json:"date_fin"`
	Salle       string    `db:"salle" json:"salle"`
	ModuleID    *int64    `db:"module_id" json:"module_id"`
	FormateurID int64     `db:"formateur_id" json:"formateur_id"`
	GroupeID    *int64    `db:"groupe_id" json:"groupe_id"`
}

type Presence struct {
	PresenceID         int64     `db:"presence_id" json:"presence_id"`
	SeanceID           int64     `db:"seance_id" json:"seance_id"`
	EtudiantID         int64     `db:"etudiant_id" json:"etudiant_id"`
	Etat               string    `db:"etat" json:"etat"`
	DateEnregistrement time.Time `db:"date_enregistrement" json:"date_enregistrement"`
}

type Announcement struct {
	AnnonceID       int64     `db:"annonce_id" json:"annonce_id"`
	Titre           string    `db:"titre" json:"titre"`
	Contenu         string    `db:"contenu" json:"contenu"`
	ImageBin        []byte    `db:"image_bin" json:"-"`
	FormateurID     int64     `db:"formateur_id" json:"formateur_id"`
	GroupeID        int64     `db:"groupe_id" json:"groupe_id"`
	ModuleID        int64     `db:"module_id" json:"module_id"`
	DatePublication time.Time `db:"date_publication" json:"date_publication"`
}
