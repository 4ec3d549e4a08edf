package stor

import (
	"github.com/filemorph/morph/pkg/morphdb/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormSnapshotStor struct {
	db *gorm.DB
}

func NewGormSnapshotStor(db *gorm.DB) *GormSnapshotStor {
	return &GormSnapshotStor{db: db}
}

func (s *GormSnapshotStor) Save(key string, data []byte) error {
	snapshot := &model.Snapshot{Key: key, Value: data}

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(snapshot).Error
	})

	return errors.Wrapf(err, "save snapshot '%s'", key)
}

func (s *GormSnapshotStor) Load(key string) ([]byte, error) {
	var snapshot model.Snapshot
	if err := s.db.Where("key = ?", key).First(&snapshot).Error; err != nil {
		return nil, errors.Wrapf(err, "load snapshot '%s'", key)
	}

	return snapshot.Value, nil
}
