package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"todochat/model"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// runRepositoryContract exercises the behavior every TaskRepository shares.
// newRepo must return an empty store.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) TaskRepository) {
	t.Run("InsertPopulatesGeneratedFields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task, err := repo.Insert(ctx, model.NewTask{Title: "Buy milk", UserEmail: "a@x.com", UserName: strPtr("Ann")})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if task.ID == "" {
			t.Error("Insert returned empty id")
		}
		if task.Title != "Buy milk" || task.UserEmail != "a@x.com" {
			t.Errorf("Insert echoed %q/%q", task.Title, task.UserEmail)
		}
		if task.Completed {
			t.Error("new task is completed")
		}
		if task.UserName == nil || *task.UserName != "Ann" {
			t.Errorf("UserName = %v, want Ann", task.UserName)
		}
		if task.EnhancedTitle != nil {
			t.Errorf("EnhancedTitle = %q, want nil", *task.EnhancedTitle)
		}
		if task.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	})

	t.Run("FindByOwnerNewestFirstAndScoped", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []string
		for _, title := range []string{"first", "second", "third"} {
			task, err := repo.Insert(ctx, model.NewTask{Title: title, UserEmail: "a@x.com"})
			if err != nil {
				t.Fatalf("Insert %s: %v", title, err)
			}
			ids = append(ids, task.ID)
			// Stores with coarse clocks still need distinct timestamps.
			time.Sleep(2 * time.Millisecond)
		}
		if _, err := repo.Insert(ctx, model.NewTask{Title: "other", UserEmail: "b@x.com"}); err != nil {
			t.Fatalf("Insert other: %v", err)
		}

		tasks, err := repo.FindByOwner(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("FindByOwner: %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("FindByOwner returned %d tasks, want 3", len(tasks))
		}
		for i, want := range []string{ids[2], ids[1], ids[0]} {
			if tasks[i].ID != want {
				t.Errorf("tasks[%d].ID = %s, want %s", i, tasks[i].ID, want)
			}
		}
	})

	t.Run("FindByOwnerEmpty", func(t *testing.T) {
		repo := newRepo(t)
		tasks, err := repo.FindByOwner(context.Background(), "nobody@x.com")
		if err != nil {
			t.Fatalf("FindByOwner: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("FindByOwner = %#v, want empty non-nil slice", tasks)
		}
	})

	t.Run("UpdateFieldsIsPartial", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task, err := repo.Insert(ctx, model.NewTask{Title: "Buy milk", UserEmail: "a@x.com"})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}

		updated, err := repo.UpdateFields(ctx, task.ID, model.TaskUpdate{Completed: boolPtr(true)})
		if err != nil {
			t.Fatalf("UpdateFields completed: %v", err)
		}
		if !updated.Completed || updated.Title != "Buy milk" {
			t.Errorf("after completed update: %+v", updated)
		}

		updated, err = repo.UpdateFields(ctx, task.ID, model.TaskUpdate{Title: strPtr("Buy oat milk")})
		if err != nil {
			t.Fatalf("UpdateFields title: %v", err)
		}
		if !updated.Completed || updated.Title != "Buy oat milk" {
			t.Errorf("after title update: %+v", updated)
		}
		if updated.ID != task.ID || updated.UserEmail != task.UserEmail {
			t.Errorf("update changed identity: %+v", updated)
		}

		unchanged, err := repo.UpdateFields(ctx, task.ID, model.TaskUpdate{})
		if err != nil {
			t.Fatalf("UpdateFields empty: %v", err)
		}
		if unchanged.Title != "Buy oat milk" {
			t.Errorf("empty update changed title to %q", unchanged.Title)
		}
	})

	t.Run("UpdateFieldsMissing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.UpdateFields(context.Background(), "00000000-0000-4000-8000-000000000000", model.TaskUpdate{Completed: boolPtr(true)})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateFields missing = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteByIDIsIdempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task, err := repo.Insert(ctx, model.NewTask{Title: "Buy milk", UserEmail: "a@x.com"})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if err := repo.DeleteByID(ctx, task.ID); err != nil {
			t.Fatalf("DeleteByID: %v", err)
		}
		if err := repo.DeleteByID(ctx, task.ID); err != nil {
			t.Fatalf("second DeleteByID: %v", err)
		}
		tasks, err := repo.FindByOwner(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("FindByOwner: %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("FindByOwner after delete returned %d tasks", len(tasks))
		}
	})
}

func newTaskFixture(title string) model.NewTask {
	return model.NewTask{Title: title, UserEmail: "a@x.com"}
}

func updateTitle(title *string) model.TaskUpdate {
	return model.TaskUpdate{Title: title}
}
