package stor

import (
	"gorm.io/gorm"
)

// SnapshotStor persists named blobs of serialized state. Save overwrites the
// entire value for a key; there is no incremental append.
type SnapshotStor interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
}

type Stors struct {
	SnapshotStor SnapshotStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		SnapshotStor: NewGormSnapshotStor(db),
	}
}
