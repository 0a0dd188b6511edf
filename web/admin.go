package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"schoolManager/database"
)

func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListAccounts()
	if err != nil {
		s.logger.Errorf("list users failed: %v", err)
		respondWithError(w, statusFromError(err), "could not list users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamInt64(r, "userID")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	detail, err := s.store.GetAccountDetail(userID)
	if err != nil {
		respondWithError(w, statusFromError(err), "user not found")
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

type createUserRequest struct {
	Nom       string `json:"nom" validate:"required"`
	Prenom    string `json:"prenom" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=Direction Formateur Etudiant"`
	CNE       string `json:"cne"`
	GroupeID  int64  `json:"groupe_id"`
	Matricule string `json:"matricule"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	err := s.store.CreateAccount(req.Nom, req.Prenom, req.Email, req.Password, req.Role, database.ExtensionInput{
		CNE:       req.CNE,
		GroupeID:  req.GroupeID,
		Matricule: req.Matricule,
	})
	if err != nil {
		s.logger.Errorf("create user failed: %v", err)
	}
	respondWriteOutcome(w, err)
}

type updateUserRequest struct {
	UserID    int64  `json:"user_id" validate:"required"`
	Nom       string `json:"nom" validate:"required"`
	Prenom    string `json:"prenom" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password"`
	CNE       string `json:"cne"`
	GroupeID  int64  `json:"groupe_id"`
	Matricule string `json:"matricule"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	err := s.store.UpdateAccount(req.UserID, database.AccountUpdate{
		Nom:       req.Nom,
		Prenom:    req.Prenom,
		Email:     req.Email,
		Password:  req.Password,
		CNE:       req.CNE,
		GroupeID:  req.GroupeID,
		Matricule: req.Matricule,
	})
	if err != nil {
		s.logger.Errorf("update user %d failed: %v", req.UserID, err)
	}
	respondWriteOutcome(w, err)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamInt64(r, "userID")
	if err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	err = s.store.DeleteAccount(userID)
	if err != nil {
		s.logger.Errorf("delete user %d failed: %v", userID, err)
	}
	respondWriteOutcome(w, err)
}

type assignModuleRequest struct {
	FormateurID int64 `json:"formateur_id" validate:"required"`
	GroupeID    int64 `json:"groupe_id" validate:"required"`
	ModuleID    int64 `json:"module_id" validate:"required"`
}

func (s *Server) handleAssignModule(w http.ResponseWriter, r *http.Request) {
	var req assignModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	err := s.store.Assign(req.FormateurID, req.GroupeID, req.ModuleID)
	if err != nil {
		s.logger.Warnf("assign %d/%d/%d failed: %v", req.FormateurID, req.GroupeID, req.ModuleID, err)
	}
	respondWriteOutcome(w, err)
}

func (s *Server) handleGetAssignments(w http.ResponseWriter, r *http.Request) {
	teacherID, err := urlParamInt64(r, "teacherID")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid teacher id")
		return
	}

	assignments, err := s.store.ListAssignments(teacherID)
	if err != nil {
		respondWithError(w, statusFromError(err), "could not list assignments")
		return
	}
	respondWithJSON(w, http.StatusOK, assignments)
}

func (s *Server) handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := urlParamInt64(r, "assignmentID")
	if err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}
	respondWriteOutcome(w, s.store.RemoveAssignment(assignmentID))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroupsByTrack()
	if err != nil {
		respondWithError(w, statusFromError(err), "could not list groups")
		return
	}
	respondWithJSON(w, http.StatusOK, groups)
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := s.store.ListModules()
	if err != nil {
		respondWithError(w, statusFromError(err), "could not list modules")
		return
	}
	respondWithJSON(w, http.StatusOK, modules)
}

func (s *Server) handleListCourseworkGlobal(w http.ResponseWriter, r *http.Request) {
	tps, err := s.store.ListCourseworkGlobal()
	if err != nil {
		respondWithError(w, statusFromError(err), "could not list coursework")
		return
	}
	respondWithJSON(w, http.StatusOK, tps)
}

func (s *Server) handleImportStudents(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}
	defer file.Close()

	created, err := s.importer.ImportStudents(file)
	if err != nil {
		s.logger.Errorf("student import failed: %v", err)
		respondWriteOutcome(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "created": created})
}
