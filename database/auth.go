package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/jmoiron/sqlx"
)

// AccountSummary is what a successful login hands back to both the web
// and the RPC surface.
type AccountSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

const digestLength = 64

// HashPassword is the single digest choke point; stored rows hold
// unsalted sha256 hex, so changing this breaks every existing account.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

type AuthRepository struct {
	db *sqlx.DB
}

func NewAuthRepository(db *sqlx.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

// VerifyCredentials accepts either a precomputed 64-char hex digest or a
// plaintext password; both client surfaces submit different shapes.
// Absent account and wrong password collapse into the same ErrNotFound.
func (r *AuthRepository) VerifyCredentials(email, candidate string) (*AccountSummary, error) {
	var row struct {
		UserID     int64  `db:"user_id"`
		Nom        string `db:"nom"`
		Prenom     string `db:"prenom"`
		Role       string `db:"role"`
		MotDePasse string `db:"mot_de_passe"`
	}

	err := r.db.Get(&row, `
        SELECT user_id, nom, prenom, role, mot_de_passe
        FROM utilisateur
        WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyError(err)
	}

	matched := len(candidate) == digestLength && row.MotDePasse == candidate
	if !matched {
		matched = row.MotDePasse == HashPassword(candidate)
	}
	if !matched {
		return nil, ErrNotFound
	}

	return &AccountSummary{
		ID:    row.UserID,
		Name:  row.Nom + " " + row.Prenom,
		Role:  row.Role,
		Email: email,
	}, nil
}
