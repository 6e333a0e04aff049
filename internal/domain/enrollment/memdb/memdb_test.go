//go:build test && !integration

package memdb

import (
	"context"
	"testing"
	"time"

	"github.com/eduplatform/notifier/internal/domain/enrollment"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentMemDBRepository(t *testing.T) {
	repo, err := NewEnrollmentMemDBRepository()
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()

	enrollments := []enrollment.Enrollment{
		{StudentID: 10, StudentName: "Pedro", CourseID: 9, Status: enrollment.StatusActive, EnrolledAt: now},
		{StudentID: 11, StudentName: "Sofia", CourseID: 9, Status: enrollment.StatusActive, EnrolledAt: now},
		{StudentID: 12, StudentName: "Diego", CourseID: 9, Status: enrollment.StatusCancelled, EnrolledAt: now},
		{StudentID: 10, StudentName: "Pedro", CourseID: 4, Status: enrollment.StatusActive, EnrolledAt: now},
	}

	for _, e := range enrollments {
		require.NoError(t, repo.Enroll(ctx, e))
	}

	active, err := repo.FindActiveEnrollments(ctx, 9)
	require.NoError(t, err)
	require.Len(t, active, 2)

	active, err = repo.FindActiveEnrollments(ctx, 4)
	require.NoError(t, err)
	require.Len(t, active, 1)

	// unknown course yields an empty list, not an error
	active, err = repo.FindActiveEnrollments(ctx, 777)
	require.NoError(t, err)
	require.Len(t, active, 0)

	require.NoError(t, repo.Cancel(ctx, 11, 9))

	active, err = repo.FindActiveEnrollments(ctx, 9)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, int64(10), active[0].StudentID)

	// cancelling an unknown enrollment is a no-op
	require.NoError(t, repo.Cancel(ctx, 999, 9))
}
