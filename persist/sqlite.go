/*
 * MIT License
 *
 * Copyright (c) 2026 syslog-ng authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package persist

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// entry is the single table backing every key this package persists: one
// row per namespaced key, one int64 value column wide enough for both a
// sequence number and a file descriptor.
type entry struct {
	Key   string `gorm:"primaryKey"`
	Value int64
}

func (entry) TableName() string { return "persist_entries" }

// SQLite is a Store backed by a single SQLite file, opened through
// gorm.io/driver/sqlite the way this repository's database/gorm package
// opens every other SQL backend it supports.
type SQLite struct {
	path string
	db   *gorm.DB
}

// OpenSQLite opens (creating if necessary) the SQLite file at path and
// migrates the single table this package needs.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errOpenFailed(path, err)
	}

	if err = db.AutoMigrate(&entry{}); err != nil {
		return nil, errMigrateFailed(err)
	}

	return &SQLite{path: path, db: db}, nil
}

func (s *SQLite) LoadSeqNum(key string) (int64, bool) {
	return s.get(namespace(kindSeqNum, key))
}

func (s *SQLite) StoreSeqNum(key string, v int64) error {
	return s.set(namespace(kindSeqNum, key), v)
}

func (s *SQLite) FetchListenFD(key string) (int, bool) {
	v, ok := s.get(namespace(kindListenFD, key))
	return int(v), ok
}

func (s *SQLite) StoreListenFD(key string, fd int) error {
	return s.set(namespace(kindListenFD, key), int64(fd))
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLite) get(key string) (int64, bool) {
	var row entry
	if err := s.db.Where("key = ?", key).First(&row).Error; err != nil {
		return 0, false
	}
	return row.Value, true
}

func (s *SQLite) set(key string, v int64) error {
	row := entry{Key: key, Value: v}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return errWriteFailed(key, err)
	}
	return nil
}
