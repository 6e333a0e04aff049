package enrollment

import (
	"context"
	"errors"
	"time"
)

var ErrSaveEnrollment = errors.New("unable save enrollment")

type Status string

const (
	StatusActive    Status = "ACTIVA"
	StatusCancelled Status = "CANCELADA"
)

type Enrollment struct {
	StudentID   int64
	StudentName string
	CourseID    int64
	Status      Status
	EnrolledAt  time.Time
}

// Lookup is the slice of the enrollment collaborator the notification engine
// needs: resolving the active audience of a course for bulk subscription.
type Lookup interface {
	FindActiveEnrollments(ctx context.Context, courseID int64) ([]Enrollment, error)
}

type Repository interface {
	Lookup
	Enroll(ctx context.Context, e Enrollment) error
	Cancel(ctx context.Context, studentID, courseID int64) error
}
