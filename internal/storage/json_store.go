package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/models"
)

const jsonStoreVersion = 1

type jsonDocument struct {
	Version int             `json:"version"`
	Habits  []*models.Habit `json:"habits"`
}

// JSONStore keeps every habit in a single JSON file that is rewritten on each
// mutation.
type JSONStore struct {
	mu   sync.Mutex
	path string
	doc  *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Init creates an empty document unless the file already exists, in which
// case it is loaded.
func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &jsonDocument{Version: jsonStoreVersion}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage file version %d is newer than supported version %d", doc.Version, jsonStoreVersion)
	}
	s.doc = &doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a sibling temp file and renames it over the original.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func (s *JSONStore) ready() error {
	if s.doc == nil {
		return ErrNotInitialized
	}
	return nil
}

func (s *JSONStore) find(id string) (int, error) {
	i := slices.IndexFunc(s.doc.Habits, func(h *models.Habit) bool { return h.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return i, nil
}

func (s *JSONStore) titleTaken(title, exceptID string) bool {
	return slices.ContainsFunc(s.doc.Habits, func(h *models.Habit) bool {
		return h.Title == title && h.ID != exceptID
	})
}

func clone(h *models.Habit) *models.Habit {
	c := *h
	c.Cadence.Weekdays = slices.Clone(h.Cadence.Weekdays)
	if h.Cadence.Day != nil {
		d := *h.Cadence.Day
		c.Cadence.Day = &d
	}
	if h.Cadence.Month != nil {
		m := *h.Cadence.Month
		c.Cadence.Month = &m
	}
	c.Completions = slices.Clone(h.Completions)
	return &c
}

func (s *JSONStore) AddHabit(h *models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if s.titleTaken(h.Title, "") {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, h.Title)
	}
	s.doc.Habits = append(s.doc.Habits, clone(h))
	logger.Debug("Added habit", "habit", h.ID, "title", h.Title)
	return s.save()
}

func (s *JSONStore) GetHabit(id string) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	i, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return clone(s.doc.Habits[i]), nil
}

func (s *JSONStore) GetHabitByTitle(title string) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	for _, h := range s.doc.Habits {
		if h.Title == title {
			return clone(h), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
}

// GetAllHabits returns copies ordered by creation time, then title.
func (s *JSONStore) GetAllHabits() ([]*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	out := make([]*models.Habit, 0, len(s.doc.Habits))
	for _, h := range s.doc.Habits {
		out = append(out, clone(h))
	}
	slices.SortStableFunc(out, func(a, b *models.Habit) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.Title < b.Title:
			return -1
		case a.Title > b.Title:
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *JSONStore) UpdateHabit(h *models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	i, err := s.find(h.ID)
	if err != nil {
		return err
	}
	if s.titleTaken(h.Title, h.ID) {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, h.Title)
	}
	cadence := clone(h).Cadence
	return s.mutate(i, func(stored *models.Habit) {
		stored.Title = h.Title
		stored.Cadence = cadence
	})
}

func (s *JSONStore) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	i, err := s.find(id)
	if err != nil {
		return err
	}
	s.doc.Habits = slices.Delete(s.doc.Habits, i, i+1)
	logger.Debug("Deleted habit", "habit", id)
	return s.save()
}

// mutate applies fn to a copy of habit i and swaps it in only if the file
// write succeeds.
func (s *JSONStore) mutate(i int, fn func(*models.Habit)) error {
	updated := clone(s.doc.Habits[i])
	fn(updated)
	prev := s.doc.Habits[i]
	s.doc.Habits[i] = updated
	if err := s.save(); err != nil {
		s.doc.Habits[i] = prev
		return err
	}
	return nil
}

func (s *JSONStore) AddCompletion(habitID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	i, err := s.find(habitID)
	if err != nil {
		return err
	}
	return s.mutate(i, func(h *models.Habit) { h.AddCompletion(at) })
}

func (s *JSONStore) RemoveCompletions(habitID string, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return 0, err
	}
	i, err := s.find(habitID)
	if err != nil {
		return 0, err
	}
	if !s.doc.Habits[i].IsCompleted(day) {
		return 0, nil
	}
	var n int
	if err := s.mutate(i, func(h *models.Habit) { n = h.RemoveCompletion(day) }); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *JSONStore) CollapseCompletions(habitID string, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return 0, err
	}
	i, err := s.find(habitID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.mutate(i, func(h *models.Habit) { n = h.CollapseCompletions(day) }); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *JSONStore) ToggleCompletion(habitID string, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return false, err
	}
	i, err := s.find(habitID)
	if err != nil {
		return false, err
	}
	var done bool
	if err := s.mutate(i, func(h *models.Habit) { done = h.ToggleCompletion(day) }); err != nil {
		return false, err
	}
	return done, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
