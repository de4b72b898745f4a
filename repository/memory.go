package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"todochat/model"
)

// MemoryStore keeps tasks in process memory. It backs local development
// and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]memoryRow
	seq   uint64
	now   func() time.Time
}

type memoryRow struct {
	task model.Task
	seq  uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]memoryRow),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) FindByOwner(_ context.Context, email string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []memoryRow
	for _, row := range s.tasks {
		if row.task.UserEmail == email {
			rows = append(rows, row)
		}
	}
	// Insertion order breaks ties between equal timestamps.
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].task.CreatedAt.Equal(rows[j].task.CreatedAt) {
			return rows[i].task.CreatedAt.After(rows[j].task.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.task)
	}
	return tasks, nil
}

func (s *MemoryStore) Insert(_ context.Context, newTask model.NewTask) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	task := model.Task{
		ID:        uuid.New().String(),
		Title:     newTask.Title,
		UserEmail: newTask.UserEmail,
		UserName:  newTask.UserName,
		CreatedAt: s.now(),
	}
	s.tasks[task.ID] = memoryRow{task: task, seq: s.seq}
	return task, nil
}

func (s *MemoryStore) UpdateFields(_ context.Context, id string, update model.TaskUpdate) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	if update.Title != nil {
		row.task.Title = *update.Title
	}
	if update.Completed != nil {
		row.task.Completed = *update.Completed
	}
	s.tasks[id] = row
	return row.task, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

// SetEnhancedTitle records the automation's rewrite of a task title.
func (s *MemoryStore) SetEnhancedTitle(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	row.task.EnhancedTitle = &title
	s.tasks[id] = row
	return nil
}
