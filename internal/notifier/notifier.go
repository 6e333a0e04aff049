package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arten331/observability/logger"
	"github.com/eduplatform/notifier/internal/dispatch"
	"github.com/eduplatform/notifier/internal/domain/enrollment"
	"github.com/eduplatform/notifier/internal/domain/event"
	"github.com/eduplatform/notifier/internal/domain/subscriber"
	"go.uber.org/zap"
)

type Options struct {
	Dispatcher  *dispatch.Dispatcher
	Enrollments enrollment.Lookup
}

// Service is the thin facade business code talks to. Each scenario method
// builds the event and picks exactly one dispatch primitive.
type Service struct {
	dispatcher  *dispatch.Dispatcher
	enrollments enrollment.Lookup
}

func New(o Options) (*Service, error) {
	if o.Dispatcher == nil {
		return nil, errors.New("service notifier require Dispatcher")
	}

	return &Service{
		dispatcher:  o.Dispatcher,
		enrollments: o.Enrollments,
	}, nil
}

// RegisterUser creates the role-matching subscriber and attaches it globally
// and to its role bucket.
func (s *Service) RegisterUser(userID int64, name, role string) error {
	sub, err := subscriber.New(userID, name, role)
	if err != nil {
		return err
	}

	s.dispatcher.Attach(sub)
	s.dispatcher.AttachToRole(sub, role)

	return nil
}

func (s *Service) UnregisterUser(userID int64) {
	s.dispatcher.DetachUser(userID)
}

func (s *Service) SubscribeStudentToCourse(studentID int64, name string, courseID int64) error {
	sub, err := subscriber.New(studentID, name, subscriber.RoleStudent)
	if err != nil {
		return err
	}

	s.dispatcher.Attach(sub)
	s.dispatcher.AttachToCourse(sub, courseID)

	return nil
}

func (s *Service) UnsubscribeStudentFromCourse(studentID, courseID int64) {
	s.dispatcher.DetachUserFromCourse(studentID, courseID)
}

func (s *Service) RegisterCourseTeacher(courseID, teacherID int64) {
	s.dispatcher.RegisterCourseTeacher(courseID, teacherID)
}

// SubscribeAllStudentsToCourse pulls the course's active enrollments from
// the enrollment collaborator and subscribes every student to the course
// bucket. Returns how many students were subscribed.
func (s *Service) SubscribeAllStudentsToCourse(ctx context.Context, courseID int64) (int, error) {
	if s.enrollments == nil {
		return 0, errors.New("notifier has no enrollment lookup configured")
	}

	active, err := s.enrollments.FindActiveEnrollments(ctx, courseID)
	if err != nil {
		return 0, err
	}

	for _, e := range active {
		if err := s.SubscribeStudentToCourse(e.StudentID, e.StudentName, courseID); err != nil {
			return 0, err
		}
	}

	logger.L().Info("bulk course subscription done",
		zap.Int64("course_id", courseID), zap.Int("students", len(active)))

	return len(active), nil
}

// AnnounceCourseCreated informs the administrator role bucket.
func (s *Service) AnnounceCourseCreated(ctx context.Context, courseID int64, courseName string) int {
	evt := event.New(event.CourseCreated,
		"Nuevo curso disponible",
		fmt.Sprintf("Se ha creado el curso %q", courseName)).
		WithTarget(courseID, "curso").
		WithMeta("course_name", courseName)

	return s.dispatcher.NotifyRole(ctx, subscriber.RoleAdmin, evt)
}

// AnnounceMaterialUploaded informs everyone subscribed to the course.
func (s *Service) AnnounceMaterialUploaded(ctx context.Context, courseID int64, materialName string) int {
	evt := event.New(event.MaterialAdded,
		"Nuevo material en el curso",
		fmt.Sprintf("Material %q disponible", materialName)).
		WithTarget(courseID, "curso").
		WithMeta("material_name", materialName)

	return s.dispatcher.NotifyCourse(ctx, courseID, evt)
}

// AnnounceAssignmentCreated informs everyone subscribed to the course.
func (s *Service) AnnounceAssignmentCreated(ctx context.Context, courseID int64, title string) int {
	evt := event.New(event.AssignmentCreated,
		"Nueva tarea asignada",
		fmt.Sprintf("Tarea %q publicada", title)).
		WithTarget(courseID, "curso").
		WithMeta("assignment_title", title)

	return s.dispatcher.NotifyCourse(ctx, courseID, evt)
}

// AnnounceStudentEnrolled informs the instructor of the course.
func (s *Service) AnnounceStudentEnrolled(ctx context.Context, courseID, studentID int64, studentName string) int {
	evt := event.New(event.StudentEnrolled,
		"Nuevo estudiante inscrito",
		fmt.Sprintf("%s se ha inscrito al curso", studentName)).
		WithSource(studentID).
		WithTarget(courseID, "curso").
		WithMeta("student_name", studentName)

	return s.dispatcher.NotifyCourseTeacher(ctx, courseID, evt)
}

// AnnounceAssignmentGraded informs the graded student directly.
func (s *Service) AnnounceAssignmentGraded(ctx context.Context, studentID int64, title, grade string) int {
	evt := event.New(event.AssignmentGraded,
		"Tarea calificada",
		fmt.Sprintf("Tu tarea %q fue calificada: %s", title, grade)).
		WithTarget(studentID, "estudiante").
		WithMeta("assignment_title", title).
		WithMeta("grade", grade)

	return s.dispatcher.NotifyUser(ctx, studentID, evt)
}

// AnnounceAssignmentSubmitted informs the instructor of the course.
func (s *Service) AnnounceAssignmentSubmitted(ctx context.Context, courseID, studentID int64, title string) int {
	evt := event.New(event.AssignmentSubmitted,
		"Tarea entregada",
		fmt.Sprintf("Entrega recibida para %q", title)).
		WithSource(studentID).
		WithTarget(courseID, "curso").
		WithMeta("assignment_title", title)

	return s.dispatcher.NotifyCourseTeacher(ctx, courseID, evt)
}
