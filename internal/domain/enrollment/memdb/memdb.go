package memdb

import (
	"context"

	"github.com/eduplatform/notifier/internal/domain/enrollment"
	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"
)

const (
	EnrollmentTable = "enrollments"
	EnrollmentIndex = "id"
	CourseIndex     = "course"
)

type Repository struct {
	db *memdb.MemDB
}

func NewEnrollmentMemDBRepository() (Repository, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			EnrollmentTable: {
				Name: EnrollmentTable,
				Indexes: map[string]*memdb.IndexSchema{
					EnrollmentIndex: {
						Name:   EnrollmentIndex,
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.IntFieldIndex{Field: "CourseID"},
								&memdb.IntFieldIndex{Field: "StudentID"},
							},
						},
					},
					CourseIndex: {
						Name:    CourseIndex,
						Indexer: &memdb.IntFieldIndex{Field: "CourseID"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return Repository{}, err
	}

	nr := Repository{
		db: db,
	}

	return nr, err
}

func (r *Repository) Enroll(_ context.Context, e enrollment.Enrollment) error {
	tx := r.db.Txn(true)
	defer tx.Abort()

	err := tx.Insert(EnrollmentTable, &e)
	if err != nil {
		return errors.Wrap(enrollment.ErrSaveEnrollment, err.Error())
	}

	tx.Commit()

	return nil
}

func (r *Repository) Cancel(_ context.Context, studentID, courseID int64) error {
	tx := r.db.Txn(true)
	defer tx.Abort()

	obj, err := tx.First(EnrollmentTable, EnrollmentIndex, courseID, studentID)
	if err != nil {
		return errors.Wrap(enrollment.ErrSaveEnrollment, err.Error())
	}

	if obj == nil {
		return nil
	}

	e, ok := obj.(*enrollment.Enrollment)
	if !ok {
		return nil
	}

	cancelled := *e
	cancelled.Status = enrollment.StatusCancelled

	err = tx.Insert(EnrollmentTable, &cancelled)
	if err != nil {
		return errors.Wrap(enrollment.ErrSaveEnrollment, err.Error())
	}

	tx.Commit()

	return nil
}

func (r *Repository) FindActiveEnrollments(_ context.Context, courseID int64) ([]enrollment.Enrollment, error) {
	tx := r.db.Txn(false)
	defer tx.Abort()

	res, err := tx.Get(EnrollmentTable, CourseIndex, courseID)
	if err != nil {
		return nil, err
	}

	active := make([]enrollment.Enrollment, 0)

	for obj := res.Next(); obj != nil; obj = res.Next() {
		e, ok := obj.(*enrollment.Enrollment)
		if ok && e.Status == enrollment.StatusActive {
			active = append(active, *e)
		}
	}

	return active, nil
}
