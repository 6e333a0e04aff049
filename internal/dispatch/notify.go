package dispatch

import (
	"context"
	"fmt"

	"github.com/Arten331/observability/logger"
	"github.com/eduplatform/notifier/internal/domain/event"
	"github.com/eduplatform/notifier/internal/domain/notification"
	"github.com/eduplatform/notifier/internal/domain/subscriber"
	"github.com/eduplatform/notifier/internal/events/delivery"
	"go.uber.org/zap"
)

// Fan-out scopes, used as the metric label.
const (
	ScopeAll     = "all"
	ScopeCourse  = "course"
	ScopeRole    = "role"
	ScopeUser    = "user"
	ScopeTeacher = "teacher"
)

// NotifyAll broadcasts over the whole registry, delivering to every
// subscriber interested in the event type. Returns the number of successful
// deliveries.
func (d *Dispatcher) NotifyAll(ctx context.Context, evt event.Event) int {
	tx := d.db.Txn(false)
	defer tx.Abort()

	res, err := tx.Get(SubscriberTable, indexID)
	if err != nil {
		logger.L().Error("global registry scan failed", zap.Error(err))

		return 0
	}

	count := 0

	for obj := res.Next(); obj != nil; obj = res.Next() {
		row, ok := obj.(*subscriberRow)
		if !ok {
			continue
		}

		if !row.Sub.InterestedIn(evt.Type) {
			d.Metrics.StoreSkipped(ScopeAll)

			continue
		}

		if d.deliver(ctx, ScopeAll, row.Sub, evt) {
			count++
		}
	}

	logger.L().Info("broadcast fan-out finished", zap.Object("event", evt), zap.Int("delivered", count))

	return count
}

// NotifyCourse fans out to the subscribers of one course. A course id with
// no bucket yields zero deliveries, not an error.
func (d *Dispatcher) NotifyCourse(ctx context.Context, courseID int64, evt event.Event) int {
	tx := d.db.Txn(false)
	defer tx.Abort()

	res, err := tx.Get(CourseSubTable, indexCourse, courseID)
	if err != nil {
		logger.L().Error("course index scan failed", zap.Int64("course_id", courseID), zap.Error(err))

		return 0
	}

	count := 0

	for obj := res.Next(); obj != nil; obj = res.Next() {
		row, ok := obj.(*courseSubRow)
		if !ok {
			continue
		}

		if !row.Sub.InterestedIn(evt.Type) {
			d.Metrics.StoreSkipped(ScopeCourse)

			continue
		}

		if d.deliver(ctx, ScopeCourse, row.Sub, evt) {
			count++
		}
	}

	logger.L().Info("course fan-out finished",
		zap.Int64("course_id", courseID), zap.Object("event", evt), zap.Int("delivered", count))

	return count
}

// NotifyRole fans out to the subscribers of one role bucket. The role is
// normalized first, so any alias and any casing address the same bucket.
func (d *Dispatcher) NotifyRole(ctx context.Context, role string, evt event.Event) int {
	normalized := subscriber.NormalizeRole(role)

	tx := d.db.Txn(false)
	defer tx.Abort()

	res, err := tx.Get(RoleSubTable, indexRole, normalized)
	if err != nil {
		logger.L().Error("role index scan failed", zap.String("role", normalized), zap.Error(err))

		return 0
	}

	count := 0

	for obj := res.Next(); obj != nil; obj = res.Next() {
		row, ok := obj.(*roleSubRow)
		if !ok {
			continue
		}

		if !row.Sub.InterestedIn(evt.Type) {
			d.Metrics.StoreSkipped(ScopeRole)

			continue
		}

		if d.deliver(ctx, ScopeRole, row.Sub, evt) {
			count++
		}
	}

	logger.L().Info("role fan-out finished",
		zap.String("role", normalized), zap.Object("event", evt), zap.Int("delivered", count))

	return count
}

// NotifyUser delivers to a single registered user regardless of its interest
// set. Unregistered ids are a no-op.
func (d *Dispatcher) NotifyUser(ctx context.Context, userID int64, evt event.Event) int {
	sub := d.lookup(userID)
	if sub == nil {
		return 0
	}

	if d.deliver(ctx, ScopeUser, sub, evt) {
		return 1
	}

	return 0
}

// NotifyUsers delivers to each registered id, applying the interest filter.
// Unlike NotifyUser the filter is enforced here; both behaviors are kept as
// the callers rely on them.
func (d *Dispatcher) NotifyUsers(ctx context.Context, userIDs []int64, evt event.Event) int {
	count := 0

	for _, id := range userIDs {
		sub := d.lookup(id)
		if sub == nil {
			continue
		}

		if !sub.InterestedIn(evt.Type) {
			d.Metrics.StoreSkipped(ScopeUser)

			continue
		}

		if d.deliver(ctx, ScopeUser, sub, evt) {
			count++
		}
	}

	return count
}

// NotifyCourseTeacher resolves the course's teacher and delivers to it. A
// course without a teacher mapping logs a warning and delivers nothing. A
// mapped teacher that never registered is materialized through the factory
// and attached on the fly, so instructor-addressed notifications are not
// silently dropped.
func (d *Dispatcher) NotifyCourseTeacher(ctx context.Context, courseID int64, evt event.Event) int {
	tx := d.db.Txn(false)
	obj, err := tx.First(CourseTeacherTable, indexID, courseID)
	tx.Abort()

	if err != nil || obj == nil {
		logger.L().Warn("no teacher registered for course", zap.Int64("course_id", courseID))
		d.Metrics.StoreMissingTeacher()

		return 0
	}

	mapping, ok := obj.(*courseTeacherRow)
	if !ok {
		return 0
	}

	sub := d.lookup(mapping.TeacherID)
	if sub == nil {
		created, err := subscriber.New(mapping.TeacherID, fmt.Sprintf("Profesor %d", mapping.TeacherID), subscriber.RoleTeacher)
		if err != nil {
			return 0
		}

		d.Attach(created)

		// lose the race gracefully: take whoever got attached first
		sub = d.lookup(mapping.TeacherID)
		if sub == nil {
			return 0
		}

		logger.L().Info("materialized teacher subscriber",
			zap.Int64("course_id", courseID), zap.Int64("teacher_id", mapping.TeacherID))
	}

	// the interest set does not gate teacher delivery, both branches deliver
	if sub.InterestedIn(evt.Type) {
		if d.deliver(ctx, ScopeTeacher, sub, evt) {
			return 1
		}

		return 0
	}

	if d.deliver(ctx, ScopeTeacher, sub, evt) {
		return 1
	}

	return 0
}

// deliver runs one subscriber's update hook and persists the notification
// record. Hook errors and panics are absorbed so the remaining fan-out keeps
// going; persistence failures never undo a delivery.
func (d *Dispatcher) deliver(ctx context.Context, scope string, sub subscriber.Subscriber, evt event.Event) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Error("subscriber update hook panicked",
				zap.Int64("user_id", sub.ID()), zap.Any("panic", r))
			d.Metrics.StoreDeliveryFailure()

			delivered = false
		}
	}()

	err := sub.Update(ctx, evt)
	if err != nil {
		logger.L().Error("subscriber update hook failed",
			zap.Int64("user_id", sub.ID()), zap.Object("event", evt), zap.Error(err))
		d.Metrics.StoreDeliveryFailure()

		return false
	}

	d.Metrics.StoreDelivered(scope)
	d.persist(ctx, sub, evt)

	return true
}

func (d *Dispatcher) persist(ctx context.Context, sub subscriber.Subscriber, evt event.Event) {
	rec := notification.Record{
		RecipientID: sub.ID(),
		Subject:     evt.Title,
		Body:        evt.Message,
		Status:      notification.StatusUnread,
		CreatedAt:   evt.OccurredAt,
	}

	saved, err := d.store.Save(ctx, rec)
	if err != nil {
		logger.L().Error("notification record write failed",
			zap.Int64("recipient_id", sub.ID()), zap.Error(err))
		d.Metrics.StorePersistenceFailure()

		return
	}

	if d.audit != nil {
		d.audit.Info("delivered",
			zap.Int64("notification_id", saved.ID),
			zap.Int64("recipient_id", saved.RecipientID),
			zap.String("event_type", string(evt.Type)),
			zap.String("subject", saved.Subject),
		)
	}

	d.eventService.Notify(ctx, &delivery.Recorded{
		NotificationID: saved.ID,
		RecipientID:    saved.RecipientID,
		Subject:        saved.Subject,
		Body:           saved.Body,
		EventType:      string(evt.Type),
		CreatedAt:      saved.CreatedAt.Unix(),
	})
}
