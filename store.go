/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"

	"github.com/Seednode/blindtest/game"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Score is one persisted leaderboard entry.
type Score struct {
	Nick  string `gorm:"primaryKey"`
	Score int
}

// Progress tracks how far into the playlist the session is. Single row.
type Progress struct {
	ID         uint `gorm:"primaryKey"`
	DoneTracks int
}

// Store persists the score ledger and the playlist progress between runs.
// The game engine never touches it; the hub commits snapshots after every
// state-changing operation.
type Store struct {
	db *gorm.DB
}

func openStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.AutoMigrate(&Score{}, &Progress{}); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveScores upserts the full ledger snapshot. Entries never disappear
// from the ledger during a session, so no deletion pass is needed.
func (s *Store) SaveScores(entries []game.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]Score, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, Score{Nick: entry.Nick, Score: entry.Score})
	}

	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

// LoadScores returns the persisted ledger, empty if none.
func (s *Store) LoadScores() ([]game.Entry, error) {
	var rows []Score
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]game.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, game.Entry{Nick: row.Nick, Score: row.Score})
	}

	return entries, nil
}

// SaveProgress records how many tracks have been played.
func (s *Store) SaveProgress(doneTracks int) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&Progress{ID: 1, DoneTracks: doneTracks}).Error
}

// LoadProgress returns the persisted track counter, 0 if none.
func (s *Store) LoadProgress() (int, error) {
	var row Progress
	err := s.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return row.DoneTracks, nil
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
