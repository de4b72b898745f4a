package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"todochat/apperr"
	"todochat/model"
	"todochat/repository"
)

type recordingNotifier struct {
	mu      sync.Mutex
	created []model.Task
}

func (r *recordingNotifier) TaskCreated(task model.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, task)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

// countingRepo counts writes so tests can assert none happened.
type countingRepo struct {
	repository.TaskRepository
	inserts int
}

func (c *countingRepo) Insert(ctx context.Context, task model.NewTask) (model.Task, error) {
	c.inserts++
	return c.TaskRepository.Insert(ctx, task)
}

type failingRepo struct {
	err error
}

func (f failingRepo) FindByOwner(context.Context, string) ([]model.Task, error) { return nil, f.err }
func (f failingRepo) Insert(context.Context, model.NewTask) (model.Task, error) {
	return model.Task{}, f.err
}
func (f failingRepo) UpdateFields(context.Context, string, model.TaskUpdate) (model.Task, error) {
	return model.Task{}, f.err
}
func (f failingRepo) DeleteByID(context.Context, string) error { return f.err }

func newTestService() (*TaskService, *countingRepo, *recordingNotifier) {
	repo := &countingRepo{TaskRepository: repository.NewMemoryStore()}
	notifier := &recordingNotifier{}
	return NewTaskService(repo, notifier), repo, notifier
}

func TestCreateReturnsPopulatedTaskAndNotifiesOnce(t *testing.T) {
	svc, _, notifier := newTestService()

	task, err := svc.Create(context.Background(), "Buy milk", "a@x.com", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == "" {
		t.Error("Create returned empty id")
	}
	if task.Title != "Buy milk" || task.UserEmail != "a@x.com" || task.Completed {
		t.Errorf("Create = %+v", task)
	}
	if notifier.count() != 1 {
		t.Errorf("notifier called %d times, want 1", notifier.count())
	}
	if notifier.created[0].ID != task.ID {
		t.Errorf("notified task %s, want %s", notifier.created[0].ID, task.ID)
	}
}

func TestCreateValidationSkipsStoreAndNotifier(t *testing.T) {
	tests := []struct {
		name, title, email string
	}{
		{"missing title", "", "a@x.com"},
		{"blank title", "   ", "a@x.com"},
		{"missing email", "Buy milk", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, notifier := newTestService()

			_, err := svc.Create(context.Background(), tt.title, tt.email, nil)
			var validation *apperr.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("Create err = %v, want ValidationError", err)
			}
			if repo.inserts != 0 {
				t.Errorf("store received %d inserts", repo.inserts)
			}
			if notifier.count() != 0 {
				t.Errorf("notifier called %d times", notifier.count())
			}
		})
	}
}

func TestCreateStoreFailureDoesNotNotify(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewTaskService(failingRepo{err: errors.New("insert failed")}, notifier)

	_, err := svc.Create(context.Background(), "Buy milk", "a@x.com", nil)
	var storeErr *apperr.StoreError
	if !errors.As(err, &storeErr) || err.Error() != "insert failed" {
		t.Fatalf("Create err = %v, want StoreError(insert failed)", err)
	}
	if notifier.count() != 0 {
		t.Errorf("notifier called after failed insert")
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		if _, err := svc.Create(ctx, title, "a@x.com", nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Create(ctx, "someone else", "b@x.com", nil); err != nil {
		t.Fatal(err)
	}

	tasks, err := svc.List(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("List returned %d tasks, want 3", len(tasks))
	}
	if tasks[0].Title != "three" || tasks[2].Title != "one" {
		t.Errorf("List order = %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestListEmptyAndValidation(t *testing.T) {
	svc, _, _ := newTestService()

	tasks, err := svc.List(context.Background(), "nobody@x.com")
	if err != nil || tasks == nil || len(tasks) != 0 {
		t.Errorf("List = %v, %v; want empty slice", tasks, err)
	}

	_, err = svc.List(context.Background(), "")
	if apperr.Status(err) != http.StatusBadRequest {
		t.Errorf("List(\"\") status = %d, want 400", apperr.Status(err))
	}
}

func TestUpdateIsPartial(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	task, _ := svc.Create(ctx, "Buy milk", "a@x.com", nil)

	done := true
	updated, err := svc.Update(ctx, task.ID, model.TaskUpdate{Completed: &done})
	if err != nil {
		t.Fatalf("Update completed: %v", err)
	}
	if updated.Title != "Buy milk" || !updated.Completed {
		t.Errorf("Update completed = %+v", updated)
	}

	title := "Buy oat milk"
	updated, err = svc.Update(ctx, task.ID, model.TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update title: %v", err)
	}
	if updated.Title != title || !updated.Completed {
		t.Errorf("Update title = %+v", updated)
	}
}

func TestUpdateRejectsEmptyTitle(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	task, _ := svc.Create(ctx, "Buy milk", "a@x.com", nil)

	empty := ""
	_, err := svc.Update(ctx, task.ID, model.TaskUpdate{Title: &empty})
	if apperr.Status(err) != http.StatusBadRequest {
		t.Errorf("Update empty title status = %d, want 400", apperr.Status(err))
	}
}

func TestUpdateMissingIsNotFoundButDeleteSucceeds(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	done := true
	_, err := svc.Update(ctx, "does-not-exist", model.TaskUpdate{Completed: &done})
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Update missing = %v, want NotFoundError", err)
	}

	if err := svc.Delete(ctx, "does-not-exist"); err != nil {
		t.Errorf("Delete missing = %v, want nil", err)
	}
}

func TestDeleteRemovesTask(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	task, _ := svc.Create(ctx, "Buy milk", "a@x.com", nil)

	if err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	tasks, _ := svc.List(ctx, "a@x.com")
	if len(tasks) != 0 {
		t.Errorf("List after delete = %d tasks", len(tasks))
	}
}

func TestConfigurationErrorPassesThrough(t *testing.T) {
	cfgErr := &apperr.ConfigurationError{Message: "Missing STORE_URL"}
	svc := NewTaskService(repository.Unavailable(cfgErr), nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "a@x.com")
	if !errors.Is(err, cfgErr) {
		t.Errorf("List err = %v, want configuration error", err)
	}
	if err := svc.Delete(ctx, "id"); !errors.Is(err, cfgErr) {
		t.Errorf("Delete err = %v, want configuration error", err)
	}
	if apperr.Status(err) != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apperr.Status(err))
	}
}
