package boardsync

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/taskapi"
	"github.com/thenoetrevino/tablero/internal/types"
)

// call is one persist request seen by fakePersister
type call struct {
	kind    string
	taskID  types.TaskID
	patch   taskapi.TaskPatch
	changes []board.OrderChange
	task    models.Task
}

// fakePersister scripts the remote API. Persist calls of a gated kind block
// until the test sends on the gate. failOn fails the n-th persist call (1-based).
// Successful calls change tasks the way the server would, so a reload sees
// them. listHook, when set, runs once after a listing was read.
type fakePersister struct {
	mu       sync.Mutex
	tasks    []models.Task
	sections []models.Section
	listErr  error
	lists    int
	calls    []call
	finished int
	failOn   map[int]error
	gates    map[string]chan struct{}
	started  chan call
	nextID   int
	listHook func()
}

func newFake(tasks ...models.Task) *fakePersister {
	return &fakePersister{
		tasks:   tasks,
		failOn:  make(map[int]error),
		gates:   make(map[string]chan struct{}),
		started: make(chan call, 16),
	}
}

func (f *fakePersister) gate(kind string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[kind] = g
	return g
}

func (f *fakePersister) fail(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[n] = err
}

func (f *fakePersister) persist(c call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	err := f.failOn[len(f.calls)]
	g := f.gates[c.kind]
	f.mu.Unlock()

	f.started <- c
	if g != nil {
		<-g
	}

	f.mu.Lock()
	f.finished++
	f.mu.Unlock()
	return err
}

func (f *fakePersister) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakePersister) Lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *fakePersister) Finished() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finished
}

func (f *fakePersister) ListTasks(_ context.Context, _ types.ProjectID) ([]models.Task, error) {
	f.mu.Lock()
	f.lists++
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	hook := f.listHook
	f.listHook = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

// ServerTask returns the fake's stored copy of a task
func (f *fakePersister) ServerTask(id types.TaskID) (models.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// edit runs fn on the stored task id, if present
func (f *fakePersister) edit(id types.TaskID, fn func(*models.Task)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			fn(&f.tasks[i])
			return
		}
	}
}

func (f *fakePersister) ListSections(_ context.Context, _ types.ProjectID) ([]models.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sections, nil
}

func (f *fakePersister) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	if err := f.persist(call{kind: "create", taskID: task.ID, task: task}); err != nil {
		return models.Task{}, err
	}
	f.mu.Lock()
	f.nextID++
	created := task.Clone()
	created.ID = types.TaskID(fmt.Sprintf("srv-%d", f.nextID))
	f.tasks = append(f.tasks, created.Clone())
	f.mu.Unlock()
	return created, nil
}

func (f *fakePersister) UpdateTask(_ context.Context, _ types.ProjectID, id types.TaskID, patch taskapi.TaskPatch) error {
	if err := f.persist(call{kind: "update", taskID: id, patch: patch}); err != nil {
		return err
	}
	f.edit(id, func(t *models.Task) { *t = patch.Apply(*t) })
	return nil
}

func (f *fakePersister) SaveOrder(_ context.Context, changes []board.OrderChange) error {
	if err := f.persist(call{kind: "order", changes: changes}); err != nil {
		return err
	}
	// the server has never seen a draft id
	for _, ch := range changes {
		if ch.TaskID.IsDraft() {
			return &taskapi.SyncError{Op: "save order", Status: 400, Err: errors.New("invalid task ID")}
		}
	}
	for _, ch := range changes {
		f.edit(ch.TaskID, func(t *models.Task) {
			t.Order = ch.Order
			if ch.Lane.IsSection() {
				t.SectionID = ch.Lane.SectionID()
				return
			}
			t.Status = ch.Lane.Status()
			t.SectionID = ""
		})
	}
	return nil
}

func (f *fakePersister) DeleteTask(_ context.Context, _ types.ProjectID, id types.TaskID) error {
	if err := f.persist(call{kind: "delete", taskID: id}); err != nil {
		return err
	}
	f.mu.Lock()
	f.tasks = slices.DeleteFunc(f.tasks, func(t models.Task) bool { return t.ID == id })
	f.mu.Unlock()
	return nil
}

type notes struct {
	mu   sync.Mutex
	list []Notification
}

func (n *notes) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, note)
}

func (n *notes) All() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.list...)
}
