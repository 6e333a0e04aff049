package dispatch

import (
	"errors"
	"net/http"

	"github.com/eduplatform/notifier/internal/dispatch/metrics"
	"github.com/eduplatform/notifier/internal/domain/notification"
	"github.com/eduplatform/notifier/internal/domain/subscriber"
	"github.com/eduplatform/notifier/internal/events"
	"github.com/hashicorp/go-memdb"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	SubscriberTable    = "subscribers"
	CourseSubTable     = "courseSubscriptions"
	RoleSubTable       = "roleSubscriptions"
	CourseTeacherTable = "courseTeachers"

	indexID     = "id"
	indexCourse = "course"
	indexRole   = "role"
	indexUser   = "user"
)

type MetricService interface {
	Register(prometheus.Collector) error
	AddMiddleware(func(handler http.Handler) http.Handler)
}

// subscriberRow is the global registry entry. Rows are immutable once
// inserted; the Subscriber value itself carries its own synchronization for
// the mutable interest set.
type subscriberRow struct {
	UserID int64
	Sub    subscriber.Subscriber
}

type courseSubRow struct {
	CourseID int64
	UserID   int64
	Sub      subscriber.Subscriber
}

type roleSubRow struct {
	Role   string
	UserID int64
	Sub    subscriber.Subscriber
}

type courseTeacherRow struct {
	CourseID  int64
	TeacherID int64
}

type Options struct {
	MetricService MetricService
	Store         notification.Store
	EventService  events.EventPublisher
	AuditLogger   *zap.Logger
}

// Dispatcher owns the four subscription indices and every fan-out primitive.
// All indices live in one go-memdb database: reads run on MVCC snapshots, so
// a fan-out iterates a stable view while attach/detach proceed concurrently.
type Dispatcher struct {
	db           *memdb.MemDB
	store        notification.Store
	eventService events.EventPublisher
	Metrics      metrics.Metrics
	audit        *zap.Logger
}

func New(o *Options) (*Dispatcher, error) {
	if o.Store == nil {
		return nil, errors.New("service dispatch require notification Store")
	}

	if o.MetricService == nil {
		return nil, errors.New("service dispatch require MetricService")
	}

	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, err
	}

	d := Dispatcher{
		db:           db,
		store:        o.Store,
		eventService: o.EventService,
		audit:        o.AuditLogger,
		Metrics: metrics.Metrics{
			Service: o.MetricService,
		},
	}

	d.Metrics.Register()

	return &d, nil
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			SubscriberTable: {
				Name: SubscriberTable,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "UserID"},
					},
				},
			},
			CourseSubTable: {
				Name: CourseSubTable,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:   indexID,
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.IntFieldIndex{Field: "CourseID"},
								&memdb.IntFieldIndex{Field: "UserID"},
							},
						},
					},
					indexCourse: {
						Name:    indexCourse,
						Indexer: &memdb.IntFieldIndex{Field: "CourseID"},
					},
					indexUser: {
						Name:    indexUser,
						Indexer: &memdb.IntFieldIndex{Field: "UserID"},
					},
				},
			},
			RoleSubTable: {
				Name: RoleSubTable,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:   indexID,
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.StringFieldIndex{Field: "Role"},
								&memdb.IntFieldIndex{Field: "UserID"},
							},
						},
					},
					indexRole: {
						Name:    indexRole,
						Indexer: &memdb.StringFieldIndex{Field: "Role"},
					},
					indexUser: {
						Name:    indexUser,
						Indexer: &memdb.IntFieldIndex{Field: "UserID"},
					},
				},
			},
			CourseTeacherTable: {
				Name: CourseTeacherTable,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "CourseID"},
					},
				},
			},
		},
	}
}

// Attach inserts the subscriber into the global registry. Re-attaching an id
// that is already present is a no-op and keeps the existing entry, including
// its runtime interest changes.
func (d *Dispatcher) Attach(sub subscriber.Subscriber) bool {
	tx := d.db.Txn(true)
	defer tx.Abort()

	existing, err := tx.First(SubscriberTable, indexID, sub.ID())
	if err != nil || existing != nil {
		return false
	}

	err = tx.Insert(SubscriberTable, &subscriberRow{UserID: sub.ID(), Sub: sub})
	if err != nil {
		return false
	}

	tx.Commit()

	return true
}

// Detach removes the identity from the global registry and from every course
// and role bucket referencing it. Each index is cleaned in its own
// transaction; a concurrent fan-out may still see the subscriber in a
// secondary index for the brief window in between.
func (d *Dispatcher) Detach(sub subscriber.Subscriber) {
	d.DetachUser(sub.ID())
}

func (d *Dispatcher) DetachUser(userID int64) {
	tx := d.db.Txn(true)
	_, _ = tx.DeleteAll(SubscriberTable, indexID, userID)
	tx.Commit()

	tx = d.db.Txn(true)
	_, _ = tx.DeleteAll(CourseSubTable, indexUser, userID)
	tx.Commit()

	tx = d.db.Txn(true)
	_, _ = tx.DeleteAll(RoleSubTable, indexUser, userID)
	tx.Commit()
}

// AttachToCourse adds the subscriber to one course bucket. It does not imply
// global attachment, callers register globally on their own.
func (d *Dispatcher) AttachToCourse(sub subscriber.Subscriber, courseID int64) {
	tx := d.db.Txn(true)
	defer tx.Abort()

	err := tx.Insert(CourseSubTable, &courseSubRow{
		CourseID: courseID,
		UserID:   sub.ID(),
		Sub:      sub,
	})
	if err != nil {
		return
	}

	tx.Commit()
}

func (d *Dispatcher) DetachFromCourse(sub subscriber.Subscriber, courseID int64) {
	d.DetachUserFromCourse(sub.ID(), courseID)
}

func (d *Dispatcher) DetachUserFromCourse(userID, courseID int64) {
	tx := d.db.Txn(true)
	defer tx.Abort()

	_, err := tx.DeleteAll(CourseSubTable, indexID, courseID, userID)
	if err != nil {
		return
	}

	tx.Commit()
}

func (d *Dispatcher) AttachToRole(sub subscriber.Subscriber, role string) {
	normalized := subscriber.NormalizeRole(role)

	tx := d.db.Txn(true)
	defer tx.Abort()

	err := tx.Insert(RoleSubTable, &roleSubRow{
		Role:   normalized,
		UserID: sub.ID(),
		Sub:    sub,
	})
	if err != nil {
		return
	}

	tx.Commit()
}

// RegisterCourseTeacher upserts the teacher mapping for a course, last write
// wins.
func (d *Dispatcher) RegisterCourseTeacher(courseID, teacherID int64) {
	tx := d.db.Txn(true)
	defer tx.Abort()

	err := tx.Insert(CourseTeacherTable, &courseTeacherRow{
		CourseID:  courseID,
		TeacherID: teacherID,
	})
	if err != nil {
		return
	}

	tx.Commit()
}

// ClearAll wipes every index. Meant for test isolation and full restarts.
func (d *Dispatcher) ClearAll() {
	tx := d.db.Txn(true)

	_, _ = tx.DeleteAll(SubscriberTable, indexID)
	_, _ = tx.DeleteAll(CourseSubTable, indexID)
	_, _ = tx.DeleteAll(RoleSubTable, indexID)
	_, _ = tx.DeleteAll(CourseTeacherTable, indexID)

	tx.Commit()
}

func (d *Dispatcher) lookup(userID int64) subscriber.Subscriber {
	tx := d.db.Txn(false)
	defer tx.Abort()

	obj, err := tx.First(SubscriberTable, indexID, userID)
	if err != nil || obj == nil {
		return nil
	}

	row, ok := obj.(*subscriberRow)
	if !ok {
		return nil
	}

	return row.Sub
}
