package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/timetable-view/internal/models"
	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

type lessonSourceStub struct {
	lessons  map[string][]models.Lesson
	days     []models.SemesterDay
	err      error
	calls    int
	semcodes []int
}

func (s *lessonSourceStub) ListLessons(_ context.Context, semcode int, _, _ time.Time, ref models.EntityRef) ([]models.Lesson, error) {
	s.calls++
	s.semcodes = append(s.semcodes, semcode)
	if s.err != nil {
		return nil, s.err
	}
	return s.lessons[ref.Name], nil
}

func (s *lessonSourceStub) ListDays(_ context.Context, _ int, _, _ time.Time) ([]models.SemesterDay, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.days, nil
}

func (s *lessonSourceStub) Semcodes(context.Context) ([]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []int{20242, 20241, 20235}, nil
}

func day(iso string) time.Time {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		panic(err)
	}
	return t
}
