package dispatch

import (
	"github.com/eduplatform/notifier/internal/domain/subscriber"
)

// CourseObservers returns a snapshot of the course bucket. The slice is
// freshly built on every call, mutating it never touches the index.
func (d *Dispatcher) CourseObservers(courseID int64) []subscriber.Subscriber {
	tx := d.db.Txn(false)
	defer tx.Abort()

	res, err := tx.Get(CourseSubTable, indexCourse, courseID)
	if err != nil {
		return nil
	}

	subs := make([]subscriber.Subscriber, 0)

	for obj := res.Next(); obj != nil; obj = res.Next() {
		row, ok := obj.(*courseSubRow)
		if ok {
			subs = append(subs, row.Sub)
		}
	}

	return subs
}

func (d *Dispatcher) RoleObservers(role string) []subscriber.Subscriber {
	tx := d.db.Txn(false)
	defer tx.Abort()

	res, err := tx.Get(RoleSubTable, indexRole, subscriber.NormalizeRole(role))
	if err != nil {
		return nil
	}

	subs := make([]subscriber.Subscriber, 0)

	for obj := res.Next(); obj != nil; obj = res.Next() {
		row, ok := obj.(*roleSubRow)
		if ok {
			subs = append(subs, row.Sub)
		}
	}

	return subs
}

func (d *Dispatcher) IsUserSubscribedToCourse(userID, courseID int64) bool {
	tx := d.db.Txn(false)
	defer tx.Abort()

	obj, err := tx.First(CourseSubTable, indexID, courseID, userID)

	return err == nil && obj != nil
}

func (d *Dispatcher) UserSubscribedCourses(userID int64) []int64 {
	tx := d.db.Txn(false)
	defer tx.Abort()

	res, err := tx.Get(CourseSubTable, indexUser, userID)
	if err != nil {
		return nil
	}

	courses := make([]int64, 0)

	for obj := res.Next(); obj != nil; obj = res.Next() {
		row, ok := obj.(*courseSubRow)
		if ok {
			courses = append(courses, row.CourseID)
		}
	}

	return courses
}

type Statistics struct {
	Subscribers     int `json:"subscribers"`
	CoursesIndexed  int `json:"courses_with_subscribers"`
	RolesIndexed    int `json:"roles_with_subscribers"`
	TeacherMappings int `json:"teacher_mappings"`
}

func (d *Dispatcher) Stats() Statistics {
	tx := d.db.Txn(false)
	defer tx.Abort()

	var stats Statistics

	if res, err := tx.Get(SubscriberTable, indexID); err == nil {
		for obj := res.Next(); obj != nil; obj = res.Next() {
			stats.Subscribers++
		}
	}

	if res, err := tx.Get(CourseSubTable, indexID); err == nil {
		courses := map[int64]struct{}{}

		for obj := res.Next(); obj != nil; obj = res.Next() {
			if row, ok := obj.(*courseSubRow); ok {
				courses[row.CourseID] = struct{}{}
			}
		}

		stats.CoursesIndexed = len(courses)
	}

	if res, err := tx.Get(RoleSubTable, indexID); err == nil {
		roles := map[string]struct{}{}

		for obj := res.Next(); obj != nil; obj = res.Next() {
			if row, ok := obj.(*roleSubRow); ok {
				roles[row.Role] = struct{}{}
			}
		}

		stats.RolesIndexed = len(roles)
	}

	if res, err := tx.Get(CourseTeacherTable, indexID); err == nil {
		for obj := res.Next(); obj != nil; obj = res.Next() {
			stats.TeacherMappings++
		}
	}

	return stats
}
