//go:build test && !integration

package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/Arten331/observability/logger"
	"github.com/Arten331/observability/metrics"
	testdata "github.com/eduplatform/notifier/data/test"
	"github.com/eduplatform/notifier/internal/dispatch"
	"github.com/eduplatform/notifier/internal/domain/enrollment"
	enrollmentmemdb "github.com/eduplatform/notifier/internal/domain/enrollment/memdb"
	notificationmemdb "github.com/eduplatform/notifier/internal/domain/notification/memdb"
	"github.com/eduplatform/notifier/internal/domain/subscriber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() {
	logger.MustSetupGlobal(
		logger.WithConfiguration(logger.CoreOptions{
			OutputPath: "stderr",
			Level:      logger.KeyLevelDebug,
			Encoding:   logger.EncodingConsole,
		}),
	)
}

type testEnv struct {
	service     *Service
	dispatcher  *dispatch.Dispatcher
	store       *notificationmemdb.Store
	enrollments *enrollmentmemdb.Repository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	setupTestLogger()

	store, err := notificationmemdb.NewNotificationMemDBStore()
	require.NoError(t, err)

	enrollments, err := enrollmentmemdb.NewEnrollmentMemDBRepository()
	require.NoError(t, err)

	ms := metrics.New()

	d, err := dispatch.New(&dispatch.Options{
		MetricService: &ms,
		Store:         &store,
	})
	require.NoError(t, err)

	svc, err := New(Options{
		Dispatcher:  d,
		Enrollments: &enrollments,
	})
	require.NoError(t, err)

	return testEnv{
		service:     svc,
		dispatcher:  d,
		store:       &store,
		enrollments: &enrollments,
	}
}

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.RegisterUser(1, "Marta", "Administrador"))
	require.NoError(t, env.service.RegisterUser(2, "Jorge", "docente"))

	stats := env.dispatcher.Stats()
	assert.Equal(t, 2, stats.Subscribers)
	assert.Len(t, env.dispatcher.RoleObservers("admin"), 1)
	assert.Len(t, env.dispatcher.RoleObservers("profesor"), 1)

	err := env.service.RegisterUser(3, "Nadie", "  ")
	assert.ErrorIs(t, err, subscriber.ErrEmptyRole)
}

func TestUnregisterUser(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.RegisterUser(1, "Marta", "admin"))
	env.service.UnregisterUser(1)

	assert.Equal(t, 0, env.dispatcher.Stats().Subscribers)
	assert.Empty(t, env.dispatcher.RoleObservers("admin"))
}

func TestSubscribeStudentToCourse(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.SubscribeStudentToCourse(10, "Elena", 9))
	assert.True(t, env.dispatcher.IsUserSubscribedToCourse(10, 9))

	env.service.UnsubscribeStudentFromCourse(10, 9)
	assert.False(t, env.dispatcher.IsUserSubscribedToCourse(10, 9))

	// global registration survives the course unsubscribe
	assert.Equal(t, 1, env.dispatcher.Stats().Subscribers)
}

func TestSubscribeAllStudentsToCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Now()
	for _, e := range []enrollment.Enrollment{
		{StudentID: 10, StudentName: "Elena", CourseID: 9, Status: enrollment.StatusActive, EnrolledAt: now},
		{StudentID: 11, StudentName: "Raul", CourseID: 9, Status: enrollment.StatusActive, EnrolledAt: now},
		{StudentID: 12, StudentName: "Nina", CourseID: 9, Status: enrollment.StatusCancelled, EnrolledAt: now},
		{StudentID: 13, StudentName: "Omar", CourseID: 8, Status: enrollment.StatusActive, EnrolledAt: now},
	} {
		require.NoError(t, env.enrollments.Enroll(ctx, e))
	}

	count, err := env.service.SubscribeAllStudentsToCourse(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.True(t, env.dispatcher.IsUserSubscribedToCourse(10, 9))
	assert.True(t, env.dispatcher.IsUserSubscribedToCourse(11, 9))
	assert.False(t, env.dispatcher.IsUserSubscribedToCourse(12, 9))
	assert.False(t, env.dispatcher.IsUserSubscribedToCourse(13, 9))
}

func TestSubscribeAllWithoutLookup(t *testing.T) {
	setupTestLogger()

	store, err := notificationmemdb.NewNotificationMemDBStore()
	require.NoError(t, err)

	ms := metrics.New()

	d, err := dispatch.New(&dispatch.Options{MetricService: &ms, Store: &store})
	require.NoError(t, err)

	svc, err := New(Options{Dispatcher: d})
	require.NoError(t, err)

	_, err = svc.SubscribeAllStudentsToCourse(context.Background(), 9)
	assert.Error(t, err)
}

func TestAnnounceCourseCreatedReachesAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.RegisterUser(1, "Marta", "admin"))
	require.NoError(t, env.service.RegisterUser(2, "Jorge", "profesor"))

	assert.Equal(t, 1, env.service.AnnounceCourseCreated(ctx, 9, "Algebra I"))

	records, err := env.store.ListByRecipient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Nuevo curso disponible", records[0].Subject)

	records, err = env.store.ListByRecipient(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnnounceMaterialUploadedReachesCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.SubscribeStudentToCourse(10, "Elena", 9))
	require.NoError(t, env.service.SubscribeStudentToCourse(11, "Raul", 8))

	assert.Equal(t, 1, env.service.AnnounceMaterialUploaded(ctx, 9, "Capitulo 3.pdf"))

	records, err := env.store.ListByRecipient(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Body, "Capitulo 3.pdf")
}

func TestAnnounceAssignmentCreatedReachesCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.SubscribeStudentToCourse(10, "Elena", 9))

	assert.Equal(t, 1, env.service.AnnounceAssignmentCreated(ctx, 9, "Practica 1"))
}

func TestAnnounceStudentEnrolledReachesTeacher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.service.RegisterCourseTeacher(9, 2)

	assert.Equal(t, 1, env.service.AnnounceStudentEnrolled(ctx, 9, 10, "Elena"))

	records, err := env.store.ListByRecipient(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Nuevo estudiante inscrito", records[0].Subject)
}

func TestAnnounceAssignmentGradedReachesStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.RegisterUser(10, "Elena", "estudiante"))
	require.NoError(t, env.service.RegisterUser(11, "Raul", "estudiante"))

	assert.Equal(t, 1, env.service.AnnounceAssignmentGraded(ctx, 10, "Practica 1", "18/20"))

	records, err := env.store.ListByRecipient(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Body, "18/20")

	records, err = env.store.ListByRecipient(ctx, 11)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnnounceAssignmentSubmittedReachesTeacher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.service.RegisterCourseTeacher(9, 2)

	assert.Equal(t, 1, env.service.AnnounceAssignmentSubmitted(ctx, 9, 10, "Practica 1"))
}

func TestSeedUsers(t *testing.T) {
	env := newTestEnv(t)

	f, err := testdata.GetTestFS().Open("users.csv")
	require.NoError(t, err)

	defer func() { _ = f.Close() }()

	count, err := env.service.SeedUsers(f)
	require.NoError(t, err)

	// the malformed id and the empty role rows are skipped, the unknown
	// role row still registers as a generic subscriber
	assert.Equal(t, 5, count)
	assert.Equal(t, 5, env.dispatcher.Stats().Subscribers)
	assert.Len(t, env.dispatcher.RoleObservers("admin"), 1)
	assert.Len(t, env.dispatcher.RoleObservers("profesor"), 1)
	assert.Len(t, env.dispatcher.RoleObservers("estudiante"), 2)
}