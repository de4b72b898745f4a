package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"todochat/model"
)

const tasksCollection = "Tasks"

// FirestoreStore keeps one document per task in the Tasks collection, keyed
// by the task id. Listing needs a composite index on (user_email,
// created_at desc).
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) FindByOwner(ctx context.Context, email string) ([]model.Task, error) {
	iter := s.client.Collection(tasksCollection).
		Where("user_email", "==", email).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	tasks := []model.Task{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var task model.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, err
		}
		task.ID = doc.Ref.ID
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, newTask model.NewTask) (model.Task, error) {
	task := model.Task{
		ID:        uuid.New().String(),
		Title:     newTask.Title,
		UserEmail: newTask.UserEmail,
		UserName:  newTask.UserName,
		CreatedAt: time.Now().UTC(),
	}

	// Create fails if the id is already taken, which keeps ids unique.
	if _, err := s.client.Collection(tasksCollection).Doc(task.ID).Create(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *FirestoreStore) UpdateFields(ctx context.Context, id string, update model.TaskUpdate) (model.Task, error) {
	docRef := s.client.Collection(tasksCollection).Doc(id)

	var updates []firestore.Update
	if update.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *update.Title})
	}
	if update.Completed != nil {
		updates = append(updates, firestore.Update{Path: "completed", Value: *update.Completed})
	}

	if len(updates) > 0 {
		// Update fails with NotFound when the document is missing.
		if _, err := docRef.Update(ctx, updates); err != nil {
			if status.Code(err) == codes.NotFound {
				return model.Task{}, ErrNotFound
			}
			return model.Task{}, err
		}
	}

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}

	var task model.Task
	if err := docSnap.DataTo(&task); err != nil {
		return model.Task{}, err
	}
	task.ID = docSnap.Ref.ID
	return task, nil
}

func (s *FirestoreStore) DeleteByID(ctx context.Context, id string) error {
	_, err := s.client.Collection(tasksCollection).Doc(id).Delete(ctx)
	return err
}
