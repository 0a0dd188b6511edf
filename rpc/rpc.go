// Package rpc mirrors a fixed subset of the store for the external
// client application: one POST endpoint, a method name plus positional
// params, binary payloads base64-encoded. Failures collapse to
// false/empty results; the cause is only logged server-side.
package rpc

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"schoolManager/database"
	"schoolManager/logger"
)

type Handler struct {
	store  *database.Store
	logger *logger.Logger
}

func NewHandler(store *database.Store, log *logger.Logger) *Handler {
	return &Handler{store: store, logger: log}
}

type request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type response struct {
	Result interface{} `json:"result"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, nil)
		return
	}

	result, ok := h.dispatch(&req)
	if !ok {
		h.respond(w, http.StatusNotFound, nil)
		return
	}
	h.respond(w, http.StatusOK, result)
}

func (h *Handler) respond(w http.ResponseWriter, code int, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response{Result: result})
}

// dispatch returns (result, known-method).
func (h *Handler) dispatch(req *request) (interface{}, bool) {
	switch req.Method {
	case "login":
		return h.login(req.Params), true
	case "get_student_tps":
		return h.getStudentTPs(req.Params), true
	case "get_submissions":
		return h.getSubmissions(req.Params), true
	case "grade_submission":
		return h.gradeSubmission(req.Params), true
	case "get_teacher_data":
		return h.getTeacherData(req.Params), true
	case "submit_rapport":
		return h.submitRapport(req.Params), true
	case "get_session_students":
		return h.getSessionStudents(req.Params), true
	case "save_attendance":
		return h.saveAttendance(req.Params), true
	default:
		return nil, false
	}
}

func stringParam(params []json.RawMessage, i int) string {
	var s string
	if i < len(params) {
		_ = json.Unmarshal(params[i], &s)
	}
	return s
}

func intParam(params []json.RawMessage, i int) int64 {
	var n int64
	if i < len(params) {
		_ = json.Unmarshal(params[i], &n)
	}
	return n
}

func floatParam(params []json.RawMessage, i int) float64 {
	var f float64
	if i < len(params) {
		_ = json.Unmarshal(params[i], &f)
	}
	return f
}

func (h *Handler) login(params []json.RawMessage) interface{} {
	user, err := h.store.Login(stringParam(params, 0), stringParam(params, 1))
	if err != nil {
		return nil
	}
	return user
}

func (h *Handler) getStudentTPs(params []json.RawMessage) interface{} {
	tps, err := h.store.StudentCoursework(intParam(params, 0))
	if err != nil {
		h.logger.Errorf("rpc get_student_tps failed: %v", err)
		return []database.CourseworkForStudent{}
	}
	return tps
}

func (h *Handler) getSubmissions(params []json.RawMessage) interface{} {
	submissions, err := h.store.ListSubmissions(intParam(params, 0))
	if err != nil {
		h.logger.Errorf("rpc get_submissions failed: %v", err)
		return []database.SubmissionDetail{}
	}
	return submissions
}

func (h *Handler) gradeSubmission(params []json.RawMessage) interface{} {
	err := h.store.SetGrade(intParam(params, 0), floatParam(params, 1))
	if err != nil {
		h.logger.Errorf("rpc grade_submission failed: %v", err)
	}
	return err == nil
}

func (h *Handler) getTeacherData(params []json.RawMessage) interface{} {
	data, err := h.store.GetTeacherData(intParam(params, 0))
	if err != nil {
		h.logger.Errorf("rpc get_teacher_data failed: %v", err)
		return &database.TeacherData{
			Assignments: []database.TeacherModule{},
			History:     []database.HistoryItem{},
		}
	}
	return data
}

func (h *Handler) submitRapport(params []json.RawMessage) interface{} {
	fileData, err := base64.StdEncoding.DecodeString(stringParam(params, 2))
	if err != nil {
		return false
	}

	err = h.store.CreateSubmission(intParam(params, 0), intParam(params, 1),
		fileData, stringParam(params, 3), stringParam(params, 4))
	if err != nil {
		h.logger.Errorf("rpc submit_rapport failed: %v", err)
	}
	return err == nil
}

func (h *Handler) getSessionStudents(params []json.RawMessage) interface{} {
	roster, err := h.store.SessionRoster(intParam(params, 0), intParam(params, 1))
	if err != nil {
		h.logger.Errorf("rpc get_session_students failed: %v", err)
		return []database.RosterEntry{}
	}
	return roster
}

func (h *Handler) saveAttendance(params []json.RawMessage) interface{} {
	sessionID := intParam(params, 0)

	var entries []database.PresenceEntry
	if len(params) > 1 {
		if err := json.Unmarshal(params[1], &entries); err != nil {
			return false
		}
	}

	err := h.store.SaveBulkPresence(sessionID, entries)
	if err != nil {
		h.logger.Errorf("rpc save_attendance failed: %v", err)
	}
	return err == nil
}
