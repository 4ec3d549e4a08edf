// Package history keeps the ordered log of completed conversions. The log
// lives in memory most-recent-first and is mirrored to a durable snapshot,
// rewritten in full after every append.
package history

import (
	"encoding/json"
	"sync"

	"github.com/apex/log"
	"github.com/filemorph/morph/pkg/morphdb/model"
	"github.com/filemorph/morph/pkg/morphdb/stor"
)

// SnapshotKey is the single durable key the serialized log lives under.
const SnapshotKey = "conversionHistory"

type Log struct {
	mu        sync.Mutex
	records   []model.HistoryRecord
	snapshots stor.SnapshotStor
}

func NewLog(snapshots stor.SnapshotStor) *Log {
	return &Log{snapshots: snapshots}
}

// Load rehydrates the log from the durable snapshot. A missing or malformed
// snapshot yields an empty log; it never fails the process.
func (l *Log) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = nil

	data, err := l.snapshots.Load(SnapshotKey)
	if err != nil || len(data) == 0 {
		return
	}

	var records []model.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warnf("Malformed history snapshot, starting with an empty history: %s", err)
		return
	}

	l.records = records
}

// Append prepends the record and rewrites the durable snapshot. A snapshot
// write failure is logged and swallowed; the in-memory log keeps the record
// for the rest of the process.
func (l *Log) Append(r model.HistoryRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append([]model.HistoryRecord{r}, l.records...)

	data, err := json.Marshal(l.records)
	if err != nil {
		log.Errorf("Unable to serialize history snapshot: %s", err)
		return
	}

	if err := l.snapshots.Save(SnapshotKey, data); err != nil {
		log.Errorf("Unable to persist history snapshot: %s", err)
	}
}

// All returns a most-recent-first copy of the log.
func (l *Log) All() []model.HistoryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]model.HistoryRecord, len(l.records))
	copy(records, l.records)

	return records
}

// FindByID resolves a download action from the rendered list.
func (l *Log) FindByID(id int64) (model.HistoryRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}

	return model.HistoryRecord{}, false
}
