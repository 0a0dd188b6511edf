package database

import (
	"github.com/jmoiron/sqlx"
)

// Store is the single data-access facade both surfaces talk to. Reads
// degrade to empty results when the connection never came up, so the
// calling layer can keep its generic error messaging; writes report
// ErrConnectionUnavailable instead.
type Store struct {
	db    *sqlx.DB
	alive bool

	auth          *AuthRepository
	directory     *DirectoryRepository
	assignments   *AssignmentRepository
	coursework    *CourseworkRepository
	announcements *AnnouncementRepository
	attendance    *AttendanceRepository
}

func NewStore(db *sqlx.DB) *Store {
	s := &Store{db: db}
	if db != nil && db.Ping() == nil {
		s.alive = true
	}
	s.auth = NewAuthRepository(db)
	s.directory = NewDirectoryRepository(db)
	s.assignments = NewAssignmentRepository(db)
	s.coursework = NewCourseworkRepository(db)
	s.announcements = NewAnnouncementRepository(db)
	s.attendance = NewAttendanceRepository(db)
	return s
}

func (s *Store) Alive() bool { return s.alive }

// --- authentication ---

func (s *Store) Login(email, candidate string) (*AccountSummary, error) {
	if !s.alive {
		return nil, ErrNotFound
	}
	return s.auth.VerifyCredentials(email, candidate)
}

// --- directory ---

func (s *Store) CreateAccount(nom, prenom, email, password, role string, extra ExtensionInput) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.directory.CreateAccount(nom, prenom, email, password, role, extra)
}

func (s *Store) UpdateAccount(userID int64, upd AccountUpdate) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.directory.UpdateAccount(userID, upd)
}

func (s *Store) DeleteAccount(userID int64) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.directory.DeleteAccount(userID)
}

func (s *Store) ListAccounts() ([]AccountListing, error) {
	if !s.alive {
		return []AccountListing{}, nil
	}
	return s.directory.ListAccounts()
}

func (s *Store) GetAccountDetail(userID int64) (*AccountDetail, error) {
	if !s.alive {
		return nil, ErrNotFound
	}
	return s.directory.GetAccountDetail(userID)
}

func (s *Store) ListGroupsByTrack() (map[string][]GroupOption, error) {
	if !s.alive {
		return map[string][]GroupOption{}, nil
	}
	return s.directory.ListGroupsByTrack()
}

func (s *Store) ListModules() ([]ModuleOption, error) {
	if !s.alive {
		return []ModuleOption{}, nil
	}
	return s.directory.ListModules()
}

func (s *Store) ListTeachers() ([]TeacherOption, error) {
	if !s.alive {
		return []TeacherOption{}, nil
	}
	return s.directory.ListTeachers()
}

// --- assignments ---

func (s *Store) Assign(teacherID, groupID, moduleID int64) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.assignments.Assign(teacherID, groupID, moduleID)
}

func (s *Store) ListAssignments(teacherID int64) ([]AssignmentDetail, error) {
	if !s.alive {
		return []AssignmentDetail{}, nil
	}
	return s.assignments.ListForTeacher(teacherID)
}

func (s *Store) RemoveAssignment(assignmentID int64) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.assignments.Remove(assignmentID)
}

// --- coursework ---

func (s *Store) CreateCoursework(titre, description string, fileData []byte, fileName, fileType, deadline string, moduleID, teacherID, groupID int64) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.coursework.CreateWithAttachment(titre, description, fileData, fileName, fileType, deadline, moduleID, teacherID, groupID)
}

func (s *Store) ListCourseworkGlobal() ([]CourseworkGlobal, error) {
	if !s.alive {
		return []CourseworkGlobal{}, nil
	}
	return s.coursework.ListGlobal()
}

// StudentCoursework resolves the student's group and lists the
// coursework published for it; students without a group see nothing.
func (s *Store) StudentCoursework(studentID int64) ([]CourseworkForStudent, error) {
	if !s.alive {
		return []CourseworkForStudent{}, nil
	}
	detail, err := s.directory.GetAccountDetail(studentID)
	if err != nil || detail.Role != RoleStudent || detail.GroupeID == 0 {
		return []CourseworkForStudent{}, nil
	}
	return s.coursework.ListForStudentGroup(detail.GroupeID)
}

func (s *Store) GetCourseworkAttachment(tpID int64) (*Attachment, error) {
	if !s.alive {
		return nil, ErrNotFound
	}
	return s.coursework.GetAttachment(tpID)
}

func (s *Store) CreateSubmission(tpID, studentID int64, fileData []byte, fileName, fileType string) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.coursework.CreateSubmission(tpID, studentID, fileData, fileName, fileType)
}

func (s *Store) ListSubmissions(tpID int64) ([]SubmissionDetail, error) {
	if !s.alive {
		return []SubmissionDetail{}, nil
	}
	return s.coursework.ListSubmissionsForTP(tpID)
}

func (s *Store) SetGrade(submissionID int64, grade float64) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.coursework.SetGrade(submissionID, grade)
}

// --- announcements ---

func (s *Store) CreateAnnouncement(titre, contenu string, image []byte, teacherID, groupID, moduleID int64) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.announcements.Create(titre, contenu, image, teacherID, groupID, moduleID)
}

// TeacherData bundles the selector feed and the publication history
// the teacher portal fetches in one call.
type TeacherData struct {
	Assignments []TeacherModule `json:"assignments"`
	History     []HistoryItem   `json:"history"`
}

func (s *Store) GetTeacherData(teacherID int64) (*TeacherData, error) {
	data := &TeacherData{Assignments: []TeacherModule{}, History: []HistoryItem{}}
	if !s.alive {
		return data, nil
	}

	assignments, err := s.assignments.TeacherModules(teacherID)
	if err != nil {
		return nil, err
	}
	history, err := s.announcements.TeacherHistory(teacherID)
	if err != nil {
		return nil, err
	}
	data.Assignments = assignments
	data.History = history
	return data, nil
}

// --- attendance ---

func (s *Store) GetOrCreateSession(teacherID, groupID, moduleID int64, date string) (int64, error) {
	if !s.alive {
		return 0, ErrConnectionUnavailable
	}
	return s.attendance.GetOrCreateSession(teacherID, groupID, moduleID, date)
}

func (s *Store) SessionRoster(groupID, sessionID int64) ([]RosterEntry, error) {
	if !s.alive {
		return []RosterEntry{}, nil
	}
	return s.attendance.ListRosterWithPresence(groupID, sessionID)
}

func (s *Store) SaveBulkPresence(sessionID int64, entries []PresenceEntry) error {
	if !s.alive {
		return ErrConnectionUnavailable
	}
	return s.attendance.SaveBulkPresence(sessionID, entries)
}

// --- analytics ---

type KPIs struct {
	TotalSessions int     `json:"total_sessions"`
	AvgRate       float64 `json:"avg_rate"`
}

type AnalyticsData struct {
	Stats    []PresenceStat `json:"stats"`
	KPIs     KPIs           `json:"kpis"`
	Absences []AbsenceEntry `json:"absences"`
}

// Analytics assembles the dashboard payload. The average is the
// unweighted mean of per-(date, group) rates: small and large sessions
// count the same, matching how the dashboard always reported it.
func (s *Store) Analytics(teacherID int64) (*AnalyticsData, error) {
	data := &AnalyticsData{Stats: []PresenceStat{}, Absences: []AbsenceEntry{}}
	if !s.alive {
		return data, nil
	}

	stats, err := s.attendance.PresenceStats(teacherID)
	if err != nil {
		return nil, err
	}
	absences, err := s.attendance.AbsenceReport(teacherID)
	if err != nil {
		return nil, err
	}
	total, err := s.attendance.CountSessions(teacherID)
	if err != nil {
		return nil, err
	}

	data.Stats = stats
	data.Absences = absences
	data.KPIs.TotalSessions = total
	data.KPIs.AvgRate = averageRate(stats)
	return data, nil
}

func averageRate(stats []PresenceStat) float64 {
	if len(stats) == 0 {
		return 0
	}
	var sum float64
	for _, s := range stats {
		sum += s.Rate
	}
	return round1(sum / float64(len(stats)))
}
