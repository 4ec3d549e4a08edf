package model

import "time"

// Snapshot is a single named blob of serialized state. The history log keeps
// its entire serialized form under one key and overwrites it on every append.
type Snapshot struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}
