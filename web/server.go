package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"

	"schoolManager/config"
	"schoolManager/database"
	"schoolManager/logger"
	"schoolManager/services"
)

type Server struct {
	store     *database.Store
	importer  *services.CSVImporter
	logger    *logger.Logger
	tokenAuth *jwtauth.JWTAuth
	tokenTTL  time.Duration
	validate  *validator.Validate
	rpc       http.Handler
}

func NewServer(cfg *config.AuthConfig, log *logger.Logger, store *database.Store, importer *services.CSVImporter, rpcHandler http.Handler) *Server {
	return &Server{
		store:     store,
		importer:  importer,
		logger:    log,
		tokenAuth: newTokenAuth(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		validate:  validator.New(),
		rpc:       rpcHandler,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Post("/login", s.handleLogin)

	// The RPC client authenticates per call, no token involved.
	if s.rpc != nil {
		r.Method(http.MethodPost, "/rpc2", s.rpc)
	}

	r.Group(func(protected chi.Router) {
		protected.Use(jwtauth.Verifier(s.tokenAuth))
		protected.Use(jwtauth.Authenticator(s.tokenAuth))

		protected.Route("/admin", func(admin chi.Router) {
			admin.Use(requireRole(database.RoleAdmin))
			admin.Get("/users", s.handleListUsers)
			admin.Get("/get_user/{userID}", s.handleGetUser)
			admin.Post("/create_user", s.handleCreateUser)
			admin.Post("/update_user", s.handleUpdateUser)
			admin.Post("/delete_user/{userID}", s.handleDeleteUser)
			admin.Post("/assign_module", s.handleAssignModule)
			admin.Get("/get_assignments/{teacherID}", s.handleGetAssignments)
			admin.Post("/delete_assignment/{assignmentID}", s.handleDeleteAssignment)
			admin.Get("/groups", s.handleListGroups)
			admin.Get("/modules", s.handleListModules)
			admin.Get("/tps", s.handleListCourseworkGlobal)
			admin.Post("/import_students", s.handleImportStudents)
		})

		protected.Get("/analytics/teachers", s.handleAnalyticsTeachers)
		protected.Post("/api/analytics_data", s.handleAnalyticsData)

		protected.Group(func(teacher chi.Router) {
			teacher.Use(requireRole(database.RoleTeacher))
			teacher.Get("/teacher/data", s.handleTeacherData)
			teacher.Post("/tp/create", s.handleCreateCoursework)
			teacher.Get("/tp/{tpID}/submissions", s.handleListSubmissions)
			teacher.Post("/submission/{submissionID}/grade", s.handleGradeSubmission)
			teacher.Post("/annonce/create", s.handleCreateAnnouncement)
			teacher.Post("/attendance/session", s.handleAttendanceSession)
			teacher.Post("/attendance/save", s.handleSaveAttendance)
		})

		protected.Group(func(student chi.Router) {
			student.Use(requireRole(database.RoleStudent))
			student.Get("/student/tps", s.handleStudentCoursework)
			student.Post("/tp/{tpID}/submit", s.handleSubmitCoursework)
		})

		protected.Get("/tp/{tpID}/file", s.handleDownloadAttachment)
	})

	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string                   `json:"token"`
	User  *database.AccountSummary `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := s.store.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid Credentials")
		return
	}

	token, err := s.generateToken(user)
	if err != nil {
		s.logger.Errorf("token generation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
