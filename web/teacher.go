package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"

	"schoolManager/database"
)

// 32 MB, attachments are stored inline in the database.
const maxUploadSize = 32 << 20

func readUpload(r *http.Request, field string) ([]byte, string, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", "", err
	}
	return data, header.Filename, header.Header.Get("Content-Type"), nil
}

func (s *Server) handleTeacherData(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())

	data, err := s.store.GetTeacherData(claimUserID(claims))
	if err != nil {
		respondWithError(w, statusFromError(err), "could not load teacher data")
		return
	}
	respondWithJSON(w, http.StatusOK, data)
}

func (s *Server) handleCreateCoursework(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	data, fileName, fileType, err := readUpload(r, "file")
	if err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	moduleID, _ := strconv.ParseInt(r.FormValue("module_id"), 10, 64)
	groupID, _ := strconv.ParseInt(r.FormValue("groupe_id"), 10, 64)
	titre := r.FormValue("titre")
	if titre == "" || moduleID == 0 || groupID == 0 {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	err = s.store.CreateCoursework(titre, r.FormValue("description"), data, fileName, fileType,
		r.FormValue("deadline"), moduleID, claimUserID(claims), groupID)
	if err != nil {
		s.logger.Errorf("create coursework failed: %v", err)
	}
	respondWriteOutcome(w, err)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	tpID, err := urlParamInt64(r, "tpID")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid coursework id")
		return
	}

	submissions, err := s.store.ListSubmissions(tpID)
	if err != nil {
		respondWithError(w, statusFromError(err), "could not list submissions")
		return
	}
	respondWithJSON(w, http.StatusOK, submissions)
}

type gradeRequest struct {
	Grade float64 `json:"grade"`
}

func (s *Server) handleGradeSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID, err := urlParamInt64(r, "submissionID")
	if err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	respondWriteOutcome(w, s.store.SetGrade(submissionID, req.Grade))
}

func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	// The image is optional.
	var image []byte
	if data, _, _, err := readUpload(r, "image"); err == nil {
		image = data
	}

	groupID, _ := strconv.ParseInt(r.FormValue("groupe_id"), 10, 64)
	moduleID, _ := strconv.ParseInt(r.FormValue("module_id"), 10, 64)
	titre := r.FormValue("titre")
	if titre == "" || groupID == 0 || moduleID == 0 {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	err := s.store.CreateAnnouncement(titre, r.FormValue("contenu"), image, claimUserID(claims), groupID, moduleID)
	if err != nil {
		s.logger.Errorf("create announcement failed: %v", err)
	}
	respondWriteOutcome(w, err)
}

type attendanceSessionRequest struct {
	GroupeID int64  `json:"groupe_id" validate:"required"`
	ModuleID int64  `json:"module_id" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
}

type attendanceSessionResponse struct {
	SessionID int64                  `json:"session_id"`
	Roster    []database.RosterEntry `json:"roster"`
}

// handleAttendanceSession resolves (or creates) the day's session for
// the teacher and returns the group roster with recorded statuses.
func (s *Server) handleAttendanceSession(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())

	var req attendanceSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	sessionID, err := s.store.GetOrCreateSession(claimUserID(claims), req.GroupeID, req.ModuleID, req.Date)
	if err != nil {
		s.logger.Errorf("get-or-create session failed: %v", err)
		respondWithError(w, statusFromError(err), "could not open session")
		return
	}

	roster, err := s.store.SessionRoster(req.GroupeID, sessionID)
	if err != nil {
		respondWithError(w, statusFromError(err), "could not load roster")
		return
	}

	respondWithJSON(w, http.StatusOK, attendanceSessionResponse{SessionID: sessionID, Roster: roster})
}

type saveAttendanceRequest struct {
	SessionID int64                    `json:"session_id" validate:"required"`
	Entries   []database.PresenceEntry `json:"entries" validate:"required,dive"`
}

func (s *Server) handleSaveAttendance(w http.ResponseWriter, r *http.Request) {
	var req saveAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	err := s.store.SaveBulkPresence(req.SessionID, req.Entries)
	if err != nil {
		s.logger.Errorf("save attendance for session %d failed: %v", req.SessionID, err)
	}
	respondWriteOutcome(w, err)
}

func (s *Server) handleStudentCoursework(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())

	tps, err := s.store.StudentCoursework(claimUserID(claims))
	if err != nil {
		respondWithError(w, statusFromError(err), "could not list coursework")
		return
	}
	respondWithJSON(w, http.StatusOK, tps)
}

func (s *Server) handleSubmitCoursework(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())

	tpID, err := urlParamInt64(r, "tpID")
	if err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	data, fileName, fileType, err := readUpload(r, "file")
	if err != nil {
		respondWriteOutcome(w, database.ErrValidation)
		return
	}

	err = s.store.CreateSubmission(tpID, claimUserID(claims), data, fileName, fileType)
	if err != nil {
		s.logger.Errorf("submission for tp %d failed: %v", tpID, err)
	}
	respondWriteOutcome(w, err)
}

func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	tpID, err := urlParamInt64(r, "tpID")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid coursework id")
		return
	}

	att, err := s.store.GetCourseworkAttachment(tpID)
	if err != nil {
		respondWithError(w, statusFromError(err), "attachment not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Name))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(att.Data)
}
