package xmlstore

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/utils"
)

// Table identifies one mirrored table.
type Table string

const (
	TableUsers    Table = "users"
	TableContacts Table = "contacts"
	TableGroups   Table = "groups"
	TableMessages Table = "messages"
)

// Exporter mirrors whole tables to XML snapshot files. Services report
// mutations through Notify; snapshots are rewritten asynchronously on a
// bounded worker pool. The mirror is best effort: failures are logged
// and never reach the caller, and the primary store stays authoritative.
type Exporter struct {
	db   *gorm.DB
	dir  string
	pool *utils.WorkerPool
	log  *zap.Logger

	mu      sync.Mutex
	pending map[Table]bool
}

func NewExporter(db *gorm.DB, dir string, pool *utils.WorkerPool, log *zap.Logger) *Exporter {
	return &Exporter{
		db:      db,
		dir:     dir,
		pool:    pool,
		log:     log,
		pending: map[Table]bool{},
	}
}

// Notify marks a table dirty and queues a snapshot rewrite. Safe to call
// on a nil exporter, so services can run without the mirror configured.
// Notifications arriving while a snapshot for the same table is already
// queued coalesce into that one rewrite.
func (e *Exporter) Notify(table Table) {
	if e == nil {
		return
	}
	e.mu.Lock()
	if e.pending[table] {
		e.mu.Unlock()
		return
	}
	e.pending[table] = true
	e.mu.Unlock()

	ok := e.pool.TrySubmit(func() {
		e.mu.Lock()
		delete(e.pending, table)
		e.mu.Unlock()

		if err := e.ExportNow(table); err != nil {
			e.log.Warn("xml snapshot failed",
				zap.String("table", string(table)),
				zap.Error(err),
			)
		}
	})
	if !ok {
		e.mu.Lock()
		delete(e.pending, table)
		e.mu.Unlock()
		e.log.Warn("xml export queue full, snapshot dropped", zap.String("table", string(table)))
	}
}

// ExportNow rewrites the snapshot for one table synchronously.
func (e *Exporter) ExportNow(table Table) error {
	doc, err := e.snapshot(table)
	if err != nil {
		return err
	}
	return e.writeFile(string(table)+".xml", doc)
}

func (e *Exporter) snapshot(table Table) (any, error) {
	switch table {
	case TableUsers:
		var users []models.User
		if err := e.db.Order("id ASC").Find(&users).Error; err != nil {
			return nil, err
		}
		return userList{Items: users}, nil
	case TableContacts:
		var contacts []models.Contact
		if err := e.db.Order("id ASC").Find(&contacts).Error; err != nil {
			return nil, err
		}
		return contactList{Items: contacts}, nil
	case TableGroups:
		var groups []models.Group
		if err := e.db.Order("id ASC").Find(&groups).Error; err != nil {
			return nil, err
		}
		for i := range groups {
			var ids []uint
			err := e.db.Model(&models.GroupMember{}).
				Where("group_id = ?", groups[i].ID).
				Order("user_id ASC").
				Pluck("user_id", &ids).Error
			if err != nil {
				return nil, err
			}
			groups[i].MemberIDs = ids
		}
		return groupList{Items: groups}, nil
	case TableMessages:
		var messages []models.Message
		if err := e.db.Order("id ASC").Find(&messages).Error; err != nil {
			return nil, err
		}
		return messageList{Items: messages}, nil
	default:
		return nil, fmt.Errorf("unknown table %q", table)
	}
}

// writeFile marshals the snapshot to a temp file and renames it into
// place, so readers never observe a half-written snapshot.
func (e *Exporter) writeFile(name string, doc any) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return err
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)

	target := filepath.Join(e.dir, name)
	tmp, err := os.CreateTemp(e.dir, name+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}
