package memdb

import (
	"context"
	"sync/atomic"

	"github.com/eduplatform/notifier/internal/domain/notification"
	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"
)

const (
	RecordTable    = "notifications"
	RecordIndex    = "id"
	RecipientIndex = "recipient"
)

type Store struct {
	db     *memdb.MemDB
	lastID int64
}

func NewNotificationMemDBStore() (Store, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			RecordTable: {
				Name: RecordTable,
				Indexes: map[string]*memdb.IndexSchema{
					RecordIndex: {
						Name:    RecordIndex,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
					RecipientIndex: {
						Name:    RecipientIndex,
						Indexer: &memdb.IntFieldIndex{Field: "RecipientID"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return Store{}, err
	}

	ns := Store{
		db: db,
	}

	return ns, err
}

func (n *Store) Save(_ context.Context, rec notification.Record) (notification.Record, error) {
	rec.ID = atomic.AddInt64(&n.lastID, 1)

	tx := n.db.Txn(true)
	defer tx.Abort()

	err := tx.Insert(RecordTable, &rec)
	if err != nil {
		return notification.Record{}, errors.Wrap(notification.ErrSaveRecord, err.Error())
	}

	tx.Commit()

	return rec, nil
}

func (n *Store) ListByRecipient(_ context.Context, recipientID int64) ([]notification.Record, error) {
	tx := n.db.Txn(false)
	defer tx.Abort()

	res, err := tx.Get(RecordTable, RecipientIndex, recipientID)
	if err != nil {
		return nil, errors.Wrap(err, notification.ErrRecordNotFound.Error())
	}

	records := make([]notification.Record, 0)

	for obj := res.Next(); obj != nil; obj = res.Next() {
		rec, ok := obj.(*notification.Record)
		if ok {
			records = append(records, *rec)
		}
	}

	return records, nil
}

func (n *Store) ListUnread(ctx context.Context, recipientID int64) ([]notification.Record, error) {
	all, err := n.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	unread := make([]notification.Record, 0, len(all))

	for _, rec := range all {
		if rec.Status == notification.StatusUnread {
			unread = append(unread, rec)
		}
	}

	return unread, nil
}

func (n *Store) MarkRead(_ context.Context, id int64) error {
	tx := n.db.Txn(true)
	defer tx.Abort()

	obj, err := tx.First(RecordTable, RecordIndex, id)
	if err != nil {
		return errors.Wrap(err, notification.ErrRecordNotFound.Error())
	}

	if obj == nil {
		return notification.ErrRecordNotFound
	}

	rec, ok := obj.(*notification.Record)
	if !ok {
		return notification.ErrRecordNotFound
	}

	// rows are immutable in memdb, replace with an updated copy
	updated := *rec
	updated.Status = notification.StatusRead

	err = tx.Insert(RecordTable, &updated)
	if err != nil {
		return errors.Wrap(notification.ErrSaveRecord, err.Error())
	}

	tx.Commit()

	return nil
}

func (n *Store) MarkAllRead(_ context.Context, recipientID int64) error {
	tx := n.db.Txn(true)
	defer tx.Abort()

	res, err := tx.Get(RecordTable, RecipientIndex, recipientID)
	if err != nil {
		return errors.Wrap(err, notification.ErrRecordNotFound.Error())
	}

	updates := make([]*notification.Record, 0)

	for obj := res.Next(); obj != nil; obj = res.Next() {
		rec, ok := obj.(*notification.Record)
		if ok && rec.Status == notification.StatusUnread {
			updated := *rec
			updated.Status = notification.StatusRead
			updates = append(updates, &updated)
		}
	}

	for _, rec := range updates {
		err = tx.Insert(RecordTable, rec)
		if err != nil {
			return errors.Wrap(notification.ErrSaveRecord, err.Error())
		}
	}

	tx.Commit()

	return nil
}

func (n *Store) Truncate() error {
	tx := n.db.Txn(true)
	_, _ = tx.DeleteAll(RecordTable, RecordIndex)

	tx.Commit()

	return nil
}
