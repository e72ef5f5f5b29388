package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"contactus-backend/models"
)

// MemoryStore keeps submissions in process memory. Ids come from a counter
// guarded by the store mutex.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint64
	rows   []models.ContactSubmission
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Append(_ context.Context, sub *models.ContactSubmission) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	sub.ID = s.nextID
	sub.CreatedAt = s.now().UTC()
	s.rows = append(s.rows, *sub)
	return sub.ID, nil
}

func (s *MemoryStore) Get(_ context.Context, id uint64) (*models.ContactSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// ids are dense and start at 1
	if id == 0 || id > uint64(len(s.rows)) {
		return nil, ErrNotFound
	}
	sub := s.rows[id-1]
	return &sub, nil
}

func (s *MemoryStore) List(_ context.Context, q ContactQuery) ([]models.ContactSubmission, int64, error) {
	q = q.Normalize()
	needle := strings.ToLower(q.Search)

	s.mu.RLock()
	var matched []models.ContactSubmission
	for _, sub := range s.rows {
		if q.Subject != "" && sub.Subject != q.Subject {
			continue
		}
		if q.From != nil && sub.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && !sub.CreatedAt.Before(*q.To) {
			continue
		}
		if needle != "" && !matchesSearch(sub, needle) {
			continue
		}
		matched = append(matched, sub)
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return []models.ContactSubmission{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Offset:end], total, nil
}

func matchesSearch(sub models.ContactSubmission, needle string) bool {
	for _, field := range []string{sub.Name, sub.Email, sub.Subject, sub.Inquiry} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
