package settings

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Setting is one row of the SQLite settings table.
type Setting struct {
	Name      string `gorm:"primaryKey;type:varchar(128)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// SQLiteStore keeps settings in a SQLite database through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the settings database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "failed to create settings directory")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to settings database %s", path)
	}

	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, errors.Wrap(err, "auto-migrating settings database")
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Set(name, value string) error {
	row := Setting{Name: name, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return errors.Wrapf(err, "failed to store setting %s", name)
	}
	return nil
}

func (s *SQLiteStore) Get(name string) (string, bool, error) {
	var row Setting
	err := s.db.Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read setting %s", name)
	}
	return row.Value, true, nil
}

func (s *SQLiteStore) Delete(name string) error {
	if err := s.db.Where("name = ?", name).Delete(&Setting{}).Error; err != nil {
		return errors.Wrapf(err, "failed to delete setting %s", name)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return sqlDB.Close()
}
