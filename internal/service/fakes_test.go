package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"tasker-be/internal/apperrors"
	"tasker-be/internal/entities"
	"tasker-be/internal/models"
)

// fakeUserRepo is an in-memory UserRepository for service tests. Delete
// mirrors the real repository's transaction by also removing the user's
// tasks from the linked task repo.
type fakeUserRepo struct {
	users  map[string]*entities.User
	tokens map[string][]string
	tasks  *fakeTaskRepo
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[string]*entities.User{},
		tokens: map[string][]string{},
	}
}

func (f *fakeUserRepo) Create(name, email, passwordHash string, age int) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, apperrors.NewValidationError("email", "already in use")
		}
	}
	now := time.Now()
	u := &entities.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Age:          age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindByID(id string) (*entities.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindByIDAndToken(id, token string) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	for _, t := range f.tokens[id] {
		if t == token {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) Update(id string, name, email, passwordHash *string, age *int) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if age != nil {
		u.Age = *age
	}
	u.UpdatedAt = time.Now()
	return u, nil
}

func (f *fakeUserRepo) Delete(id string) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.users, id)
	delete(f.tokens, id)
	if f.tasks != nil {
		f.tasks.DeleteAllByOwner(id)
	}
	return nil
}

func (f *fakeUserRepo) AddToken(userID, token string) error {
	f.tokens[userID] = append(f.tokens[userID], token)
	return nil
}

func (f *fakeUserRepo) RemoveToken(userID, token string) error {
	kept := []string{}
	for _, t := range f.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	f.tokens[userID] = kept
	return nil
}

func (f *fakeUserRepo) ClearTokens(userID string) error {
	delete(f.tokens, userID)
	return nil
}

func (f *fakeUserRepo) ListTokens(userID string) ([]string, error) {
	return f.tokens[userID], nil
}

func (f *fakeUserRepo) SetAvatar(userID string, avatar []byte) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Avatar = avatar
	return nil
}

func (f *fakeUserRepo) GetAvatar(userID string) ([]byte, error) {
	u, ok := f.users[userID]
	if !ok || len(u.Avatar) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return u.Avatar, nil
}

// fakeTaskRepo is an in-memory TaskRepository for service tests
type fakeTaskRepo struct {
	tasks map[string]*entities.Task
	seq   int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*entities.Task{}}
}

func (f *fakeTaskRepo) Create(owner, description string, completed bool) (*entities.Task, error) {
	f.seq++
	now := time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	task := &entities.Task{
		ID:          uuid.NewString(),
		Description: description,
		Completed:   completed,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskRepo) ListByOwner(owner string, q *models.ListTasksQuery) ([]*entities.Task, error) {
	matched := []*entities.Task{}
	for _, task := range f.tasks {
		if task.Owner != owner {
			continue
		}
		if q.Completed != nil && task.Completed != *q.Completed {
			continue
		}
		matched = append(matched, task)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "description":
			less = matched[i].Description < matched[j].Description
		case "completed":
			less = !matched[i].Completed && matched[j].Completed
		case "updatedAt":
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if q.SortDesc {
			return !less
		}
		return less
	})

	if q.Skip > 0 {
		if q.Skip >= len(matched) {
			return []*entities.Task{}, nil
		}
		matched = matched[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (f *fakeTaskRepo) GetByID(id, owner string) (*entities.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.Owner != owner {
		return nil, apperrors.ErrNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) Update(id, owner string, description *string, completed *bool) (*entities.Task, error) {
	task, err := f.GetByID(id, owner)
	if err != nil {
		return nil, err
	}
	if description != nil {
		task.Description = *description
	}
	if completed != nil {
		task.Completed = *completed
	}
	task.UpdatedAt = time.Now()
	return task, nil
}

func (f *fakeTaskRepo) Delete(id, owner string) (*entities.Task, error) {
	task, err := f.GetByID(id, owner)
	if err != nil {
		return nil, err
	}
	delete(f.tasks, id)
	return task, nil
}

func (f *fakeTaskRepo) DeleteAllByOwner(owner string) error {
	for id, task := range f.tasks {
		if task.Owner == owner {
			delete(f.tasks, id)
		}
	}
	return nil
}
