package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
)

// memoryRepository is an in-memory stand-in for the PostgreSQL repository.
// Transactions share the same maps, so rollback is not simulated; tests using
// it only exercise the commit path.
type memoryRepository struct {
	mu sync.Mutex

	nextID uint

	users          map[uint]*models.User
	teachers       map[uint]*models.Teacher
	students       map[uint]*models.Student
	courses        map[uint]*models.Course
	subjects       map[uint]*models.Subject
	courseSubjects map[uint]*models.CourseSubject
	assignments    map[uint]*models.Assignment
	questions      map[uint]*models.Question
	submissions    map[uint]*models.Submission
	answers        []models.Answer
	notifications  []*models.Notification
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		users:          make(map[uint]*models.User),
		teachers:       make(map[uint]*models.Teacher),
		students:       make(map[uint]*models.Student),
		courses:        make(map[uint]*models.Course),
		subjects:       make(map[uint]*models.Subject),
		courseSubjects: make(map[uint]*models.CourseSubject),
		assignments:    make(map[uint]*models.Assignment),
		questions:      make(map[uint]*models.Question),
		submissions:    make(map[uint]*models.Submission),
	}
}

func (m *memoryRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memoryRepository) User() repositories.UserRepository                 { return &memoryUserRepo{m} }
func (m *memoryRepository) Teacher() repositories.TeacherRepository           { return &memoryTeacherRepo{m} }
func (m *memoryRepository) Student() repositories.StudentRepository           { return &memoryStudentRepo{m} }
func (m *memoryRepository) Course() repositories.CourseRepository             { return &memoryCourseRepo{m} }
func (m *memoryRepository) Subject() repositories.SubjectRepository           { return &memorySubjectRepo{m} }
func (m *memoryRepository) CourseSubject() repositories.CourseSubjectRepository {
	return &memoryCourseSubjectRepo{m}
}
func (m *memoryRepository) Assignment() repositories.AssignmentRepository { return &memoryAssignmentRepo{m} }
func (m *memoryRepository) Question() repositories.QuestionRepository     { return &memoryQuestionRepo{m} }
func (m *memoryRepository) Submission() repositories.SubmissionRepository { return &memorySubmissionRepo{m} }
func (m *memoryRepository) Answer() repositories.AnswerRepository         { return &memoryAnswerRepo{m} }
func (m *memoryRepository) Notification() repositories.NotificationRepository {
	return &memoryNotificationRepo{m}
}

func (m *memoryRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memoryRepository) Ping(ctx context.Context) error { return nil }
func (m *memoryRepository) Close() error                   { return nil }

// ===== seed helpers =====

func (m *memoryRepository) seedUser(username string, role models.UserRole) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := &models.User{ID: m.id(), Username: username, Email: username + "@example.com", Role: role}
	m.users[user.ID] = user
	return user
}

func (m *memoryRepository) seedStudent(username string) *models.Student {
	user := m.seedUser(username, models.RoleStudent)
	m.mu.Lock()
	defer m.mu.Unlock()
	student := &models.Student{ID: m.id(), UserID: user.ID, User: user}
	m.students[student.ID] = student
	return student
}

func (m *memoryRepository) seedTeacher(username string) *models.Teacher {
	user := m.seedUser(username, models.RoleTeacher)
	m.mu.Lock()
	defer m.mu.Unlock()
	teacher := &models.Teacher{ID: m.id(), UserID: user.ID, User: user}
	m.teachers[teacher.ID] = teacher
	return teacher
}

// seedAssignment wires the full owner chain when teacher is non-nil.
func (m *memoryRepository) seedAssignment(title string, dueDate *time.Time, teacher *models.Teacher) *models.Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()

	course := &models.Course{ID: m.id(), Name: "Curso " + title}
	if teacher != nil {
		course.TeacherID = &teacher.ID
		course.Teacher = teacher
	}
	m.courses[course.ID] = course

	subject := &models.Subject{ID: m.id(), Name: "Materia " + title}
	m.subjects[subject.ID] = subject

	link := &models.CourseSubject{ID: m.id(), CourseID: course.ID, SubjectID: subject.ID, Course: course, Subject: subject}
	m.courseSubjects[link.ID] = link

	assignment := &models.Assignment{
		ID:              m.id(),
		CourseSubjectID: link.ID,
		Title:           title,
		DueDate:         dueDate,
		Type:            models.AssignmentTask,
		CourseSubject:   link,
	}
	m.assignments[assignment.ID] = assignment
	return assignment
}

func (m *memoryRepository) seedSubmission(assignment *models.Assignment, student *models.Student) *models.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := &models.Submission{
		ID:             m.id(),
		AssignmentID:   assignment.ID,
		StudentID:      student.ID,
		SubmissionDate: time.Now(),
		Status:         models.SubmissionPending,
		Assignment:     assignment,
		Student:        student,
	}
	m.submissions[sub.ID] = sub
	return sub
}

func (m *memoryRepository) seedAnswer(submission *models.Submission, questionID uint, text string) models.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	answer := models.Answer{
		ID:           m.id(),
		SubmissionID: submission.ID,
		QuestionID:   questionID,
		TextAnswer:   &text,
	}
	m.answers = append(m.answers, answer)
	return answer
}

func (m *memoryRepository) answersForSubmission(submissionID uint) []models.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Answer
	for i := range m.answers {
		if m.answers[i].SubmissionID == submissionID {
			out = append(out, m.answers[i])
		}
	}
	return out
}

func (m *memoryRepository) notificationsForUser(userID uint) []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// ===== users =====

type memoryUserRepo struct{ m *memoryRepository }

func (r *memoryUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user.ID = r.m.id()
	r.m.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if user, ok := r.m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ===== teachers =====

type memoryTeacherRepo struct{ m *memoryRepository }

func (r *memoryTeacherRepo) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	teacher.ID = r.m.id()
	r.m.teachers[teacher.ID] = teacher
	return nil
}

func (r *memoryTeacherRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if teacher, ok := r.m.teachers[id]; ok {
		return teacher, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryTeacherRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Teacher, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, teacher := range r.m.teachers {
		if teacher.UserID == userID {
			return teacher, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ===== students =====

type memoryStudentRepo struct{ m *memoryRepository }

func (r *memoryStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	student.ID = r.m.id()
	r.m.students[student.ID] = student
	return nil
}

func (r *memoryStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if student, ok := r.m.students[id]; ok {
		return student, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryStudentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, student := range r.m.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryStudentRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Student, 0, len(r.m.students))
	for _, student := range r.m.students {
		out = append(out, student)
	}
	return out, nil
}

// ===== courses =====

type memoryCourseRepo struct{ m *memoryRepository }

func (r *memoryCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course.ID = r.m.id()
	r.m.courses[course.ID] = course
	return nil
}

func (r *memoryCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if course, ok := r.m.courses[id]; ok {
		return course, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.courses[course.ID] = course
	return nil
}

func (r *memoryCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.courses, id)
	return nil
}

func (r *memoryCourseRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Course, 0, len(r.m.courses))
	for _, course := range r.m.courses {
		out = append(out, course)
	}
	return out, nil
}

func (r *memoryCourseRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Course
	for _, course := range r.m.courses {
		if course.TeacherID != nil && *course.TeacherID == teacherID {
			out = append(out, course)
		}
	}
	return out, nil
}

// ===== subjects =====

type memorySubjectRepo struct{ m *memoryRepository }

func (r *memorySubjectRepo) Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	subject.ID = r.m.id()
	r.m.subjects[subject.ID] = subject
	return nil
}

func (r *memorySubjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if subject, ok := r.m.subjects[id]; ok {
		return subject, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memorySubjectRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Subject, 0, len(r.m.subjects))
	for _, subject := range r.m.subjects {
		out = append(out, subject)
	}
	return out, nil
}

// ===== course subjects =====

type memoryCourseSubjectRepo struct{ m *memoryRepository }

func (r *memoryCourseSubjectRepo) Create(ctx context.Context, tx *gorm.DB, link *models.CourseSubject) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	link.ID = r.m.id()
	r.m.courseSubjects[link.ID] = link
	return nil
}

func (r *memoryCourseSubjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSubject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if link, ok := r.m.courseSubjects[id]; ok {
		return link, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryCourseSubjectRepo) Exists(ctx context.Context, tx *gorm.DB, courseID, subjectID uint) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, link := range r.m.courseSubjects {
		if link.CourseID == courseID && link.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryCourseSubjectRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.CourseSubject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.CourseSubject
	for _, link := range r.m.courseSubjects {
		if link.CourseID == courseID {
			out = append(out, link)
		}
	}
	return out, nil
}

// ===== assignments =====

type memoryAssignmentRepo struct{ m *memoryRepository }

func (r *memoryAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	assignment.ID = r.m.id()
	r.m.assignments[assignment.ID] = assignment
	return nil
}

func (r *memoryAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if assignment, ok := r.m.assignments[id]; ok {
		return assignment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryAssignmentRepo) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *memoryAssignmentRepo) GetByIDWithOwner(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *memoryAssignmentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Assignment, 0, len(r.m.assignments))
	for _, assignment := range r.m.assignments {
		out = append(out, assignment)
	}
	return out, int64(len(out)), nil
}

func (r *memoryAssignmentRepo) ListDueBetween(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*models.Assignment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Assignment
	for _, assignment := range r.m.assignments {
		if assignment.DueDate == nil {
			continue
		}
		due := *assignment.DueDate
		if !due.Before(from) && !due.After(to) {
			out = append(out, assignment)
		}
	}
	return out, nil
}

// ===== questions =====

type memoryQuestionRepo struct{ m *memoryRepository }

func (r *memoryQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if question, ok := r.m.questions[id]; ok {
		return question, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryQuestionRepo) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Question, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Question
	for _, question := range r.m.questions {
		if question.AssignmentID == assignmentID {
			out = append(out, question)
		}
	}
	return out, nil
}

// ===== submissions =====

type memorySubmissionRepo struct{ m *memoryRepository }

func (r *memorySubmissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	submission.ID = r.m.id()
	if submission.SubmissionDate.IsZero() {
		submission.SubmissionDate = time.Now()
	}
	r.m.submissions[submission.ID] = submission
	return nil
}

func (r *memorySubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if submission, ok := r.m.submissions[id]; ok {
		return submission, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memorySubmissionRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	sub := *stored
	sub.Answers = nil
	for i := range r.m.answers {
		if r.m.answers[i].SubmissionID != id {
			continue
		}
		answer := r.m.answers[i]
		if question, ok := r.m.questions[answer.QuestionID]; ok {
			answer.Question = question
		}
		sub.Answers = append(sub.Answers, answer)
	}
	return &sub, nil
}

func (r *memorySubmissionRepo) Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.submissions[submission.ID] = submission
	return nil
}

func (r *memorySubmissionRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Submission
	for _, sub := range r.m.submissions {
		assignment := r.m.assignments[sub.AssignmentID]
		if assignment == nil || assignment.CourseSubject == nil || assignment.CourseSubject.Course == nil {
			continue
		}
		course := assignment.CourseSubject.Course
		if course.TeacherID == nil || *course.TeacherID != teacherID {
			continue
		}
		if filters.Status != nil && sub.Status != *filters.Status {
			continue
		}
		if filters.AssignmentID != nil && sub.AssignmentID != *filters.AssignmentID {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

func (r *memorySubmissionRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Submission
	for _, sub := range r.m.submissions {
		if sub.StudentID != studentID {
			continue
		}
		if filters.Status != nil && sub.Status != *filters.Status {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

func (r *memorySubmissionRepo) GetByIDForStudent(ctx context.Context, tx *gorm.DB, id, studentID uint) (*models.Submission, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if sub, ok := r.m.submissions[id]; ok && sub.StudentID == studentID {
		return sub, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memorySubmissionRepo) StudentIDsByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]uint, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	seen := make(map[uint]bool)
	var out []uint
	for _, sub := range r.m.submissions {
		if sub.AssignmentID == assignmentID && !seen[sub.StudentID] {
			seen[sub.StudentID] = true
			out = append(out, sub.StudentID)
		}
	}
	return out, nil
}

func (r *memorySubmissionRepo) AssignmentIDsByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]uint, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	seen := make(map[uint]bool)
	var out []uint
	for _, sub := range r.m.submissions {
		if sub.StudentID == studentID && !seen[sub.AssignmentID] {
			seen[sub.AssignmentID] = true
			out = append(out, sub.AssignmentID)
		}
	}
	return out, nil
}

func (r *memorySubmissionRepo) CountByStudentAndStatus(ctx context.Context, tx *gorm.DB, studentID uint, status models.SubmissionStatus) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var count int64
	for _, sub := range r.m.submissions {
		if sub.StudentID == studentID && sub.Status == status {
			count++
		}
	}
	return count, nil
}

// ===== answers =====

type memoryAnswerRepo struct{ m *memoryRepository }

func (r *memoryAnswerRepo) CreateBatch(ctx context.Context, tx *gorm.DB, answers []models.Answer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range answers {
		answers[i].ID = r.m.id()
		r.m.answers = append(r.m.answers, answers[i])
	}
	return nil
}

func (r *memoryAnswerRepo) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uint) ([]*models.Answer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Answer
	for i := range r.m.answers {
		if r.m.answers[i].SubmissionID == submissionID {
			out = append(out, &r.m.answers[i])
		}
	}
	return out, nil
}

func (r *memoryAnswerRepo) Update(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.answers {
		if r.m.answers[i].ID == answer.ID {
			r.m.answers[i] = *answer
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ===== notifications =====

type memoryNotificationRepo struct{ m *memoryRepository }

func (r *memoryNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	notification.ID = r.m.id()
	notification.CreatedAt = time.Now()
	r.m.notifications = append(r.m.notifications, notification)
	return nil
}

func (r *memoryNotificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.Notification, error) {
	return r.m.notificationsForUser(userID), nil
}

func (r *memoryNotificationRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uint) (*models.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, n := range r.m.notifications {
		if n.ID == id && n.UserID == userID {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryNotificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, n := range r.m.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memoryNotificationRepo) ExistsReminder(ctx context.Context, tx *gorm.DB, userID, assignmentID uint) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, n := range r.m.notifications {
		if n.Kind != models.NotificationDueReminder || n.UserID != userID {
			continue
		}
		if n.AssignmentID != nil && *n.AssignmentID == assignmentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryNotificationRepo) CountUnread(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var count int64
	for _, n := range r.m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}
