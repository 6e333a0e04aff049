package subscriber

import (
	"context"
	"sync"

	"github.com/Arten331/observability/logger"
	"github.com/eduplatform/notifier/internal/domain/event"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Subscriber is an addressable notification recipient. Identity is the user
// id alone: two subscribers with the same id are the same logical recipient
// no matter which concrete variant they are, so every index keys on ID().
type Subscriber interface {
	ID() int64
	Name() string
	Role() string
	InterestedIn(t event.Type) bool
	Subscribe(t event.Type)
	Unsubscribe(t event.Type)
	Update(ctx context.Context, evt event.Event) error
}

type base struct {
	id   int64
	name string
	role string

	mu        sync.RWMutex
	interests map[event.Type]struct{}
}

func newBase(id int64, name, role string, seed ...event.Type) *base {
	interests := make(map[event.Type]struct{}, len(seed))

	for _, t := range seed {
		interests[t] = struct{}{}
	}

	return &base{
		id:        id,
		name:      name,
		role:      role,
		interests: interests,
	}
}

func (b *base) ID() int64 { return b.id }

func (b *base) Name() string { return b.name }

func (b *base) Role() string { return b.role }

func (b *base) InterestedIn(t event.Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.interests[t]

	return ok
}

func (b *base) Subscribe(t event.Type) {
	b.mu.Lock()
	b.interests[t] = struct{}{}
	b.mu.Unlock()
}

func (b *base) Unsubscribe(t event.Type) {
	b.mu.Lock()
	delete(b.interests, t)
	b.mu.Unlock()
}

func (b *base) Update(_ context.Context, evt event.Event) error {
	logger.L().Debug("notification received", zap.Object("subscriber", b), zap.Object("event", evt))

	return nil
}

func (b *base) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt64("user_id", b.id)
	encoder.AddString("name", b.name)
	encoder.AddString("role", b.role)

	return nil
}

// Administrator reacts to platform-wide course lifecycle events.
type Administrator struct {
	*base
}

func NewAdministrator(id int64, name string) *Administrator {
	return &Administrator{
		base: newBase(id, name, RoleAdmin,
			event.CourseCreated,
			event.CourseDeleted,
			event.ScholarshipRequested,
		),
	}
}

func (a *Administrator) Update(ctx context.Context, evt event.Event) error {
	if err := a.base.Update(ctx, evt); err != nil {
		return err
	}

	switch evt.Type {
	case event.CourseCreated, event.CourseDeleted:
		logger.L().Info("course catalog changed", zap.Object("admin", a.base), zap.Object("event", evt))
	case event.ScholarshipRequested:
		logger.L().Info("scholarship request pending review", zap.Object("admin", a.base), zap.Int64("student", evt.SourceUser))
	}

	return nil
}

// Teacher reacts to activity inside the courses it runs.
type Teacher struct {
	*base
}

func NewTeacher(id int64, name string) *Teacher {
	return &Teacher{
		base: newBase(id, name, RoleTeacher,
			event.StudentEnrolled,
			event.AssignmentSubmitted,
		),
	}
}

func (t *Teacher) Update(ctx context.Context, evt event.Event) error {
	if err := t.base.Update(ctx, evt); err != nil {
		return err
	}

	switch evt.Type {
	case event.StudentEnrolled:
		logger.L().Info("new student in course", zap.Object("teacher", t.base), zap.Int64("course", evt.TargetID))
	case event.AssignmentSubmitted:
		logger.L().Info("submission awaiting review", zap.Object("teacher", t.base), zap.Int64("course", evt.TargetID))
	}

	return nil
}

// Student reacts to course content and grading.
type Student struct {
	*base
}

func NewStudent(id int64, name string) *Student {
	return &Student{
		base: newBase(id, name, RoleStudent,
			event.AssignmentCreated,
			event.AssignmentGraded,
			event.MaterialAdded,
		),
	}
}

func (s *Student) Update(ctx context.Context, evt event.Event) error {
	if err := s.base.Update(ctx, evt); err != nil {
		return err
	}

	switch evt.Type {
	case event.AssignmentCreated, event.MaterialAdded:
		logger.L().Info("course content updated", zap.Object("student", s.base), zap.Int64("course", evt.TargetID))
	case event.AssignmentGraded:
		logger.L().Info("assignment graded", zap.Object("student", s.base))
	}

	return nil
}

// Generic carries no seeded interests; it only receives event types it was
// explicitly subscribed to after creation.
type Generic struct {
	*base
}

func NewGeneric(id int64, name, role string) *Generic {
	return &Generic{base: newBase(id, name, role)}
}
