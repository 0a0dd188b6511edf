package services

import (
	"encoding/csv"
	"io"

	"github.com/jmoiron/sqlx"

	"schoolManager/database"
)

type CSVImporter struct {
	directory *database.DirectoryRepository
	db        *sqlx.DB
}

func NewCSVImporter(db *sqlx.DB) *CSVImporter {
	return &CSVImporter{
		directory: database.NewDirectoryRepository(db),
		db:        db,
	}
}

// ImportStudents creates one student account per CSV row
// (Last_name,First_name,Email,Password,CNE,Group) in a single
// transaction: either every row lands or none does. Returns the number
// of accounts created.
func (imp *CSVImporter) ImportStudents(r io.Reader) (int, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return 0, &ValidationError{Message: "Could not read the CSV file. Check the file format."}
	}

	if err := ValidateCSVStructure(records, FileTypeStudents); err != nil {
		return 0, err
	}

	tx, err := imp.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	created := 0
	for i := 1; i < len(records); i++ {
		record := records[i]

		lastName := record[0]
		firstName := record[1]
		email := record[2]
		password := record[3]
		cne := record[4]
		groupName := record[5]

		groupID, err := imp.directory.GroupIDByName(tx, groupName)
		if err != nil {
			return 0, err
		}

		err = imp.directory.CreateAccountTx(tx, lastName, firstName, email, password, database.RoleStudent,
			database.ExtensionInput{CNE: cne, GroupeID: groupID})
		if err != nil {
			return 0, err
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return created, nil
}
