package task

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uint]domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

// debit mirrors the conditional update contract of the postgres repository:
// it only decrements when the balance covers the amount.
func (f *fakeUserRepo) debit(id uint, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok || u.Coin < amount {
		return domain.ErrInsufficientCoin
	}
	u.Coin -= amount
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) credit(id uint, amount int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.users[id]
	u.Coin += amount
	f.users[id] = u
}

func (f *fakeUserRepo) coin(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].Coin
}

type fakeTaskRepo struct {
	mu     sync.Mutex
	users  *fakeUserRepo
	tasks  map[uint]domain.Task
	nextID uint
}

func newFakeTaskRepo(users *fakeUserRepo) *fakeTaskRepo {
	return &fakeTaskRepo{
		users:  users,
		tasks:  make(map[uint]domain.Task),
		nextID: 1,
	}
}

func (f *fakeTaskRepo) CreateWithEscrow(_ context.Context, task *domain.Task) error {
	if cost := task.Escrow(); cost > 0 {
		if err := f.users.debit(task.BuyerID, cost); err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = f.nextID
	f.nextID++
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskRepo) FindByID(_ context.Context, id uint) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeTaskRepo) FindByBuyerEmail(_ context.Context, email string) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Task
	for _, t := range f.tasks {
		if t.BuyerEmail == email {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) FindAvailable(_ context.Context, page, limit int) ([]domain.Task, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Task
	for _, t := range f.tasks {
		if t.Available() {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeTaskRepo) FindAll(_ context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Task
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskRepo) UpdatePatch(_ context.Context, id uint, patch domain.TaskPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Title = patch.Title
	t.Detail = patch.Detail
	t.SubmissionInfo = patch.SubmissionInfo
	f.tasks[id] = t
	return nil
}

func (f *fakeTaskRepo) DeleteWithRefund(_ context.Context, id uint) (int, error) {
	f.mu.Lock()
	t, ok := f.tasks[id]
	if !ok {
		f.mu.Unlock()
		return 0, domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	f.mu.Unlock()

	refund := t.Escrow()
	if refund > 0 {
		f.users.credit(t.BuyerID, refund)
	}
	return refund, nil
}

const (
	buyerID  = uint(1)
	workerID = uint(2)
	adminID  = uint(3)
)

func newTaskFixture(buyerCoin int) (*TaskService, *fakeUserRepo, *fakeTaskRepo) {
	users := newFakeUserRepo(
		domain.User{ID: buyerID, Email: "buyer@example.com", FullName: "Buyer", Role: domain.RoleBuyer, Coin: buyerCoin},
		domain.User{ID: workerID, Email: "worker@example.com", FullName: "Worker", Role: domain.RoleWorker, Coin: 10},
		domain.User{ID: adminID, Email: "admin@example.com", FullName: "Admin", Role: domain.RoleAdmin},
	)
	tasks := newFakeTaskRepo(users)
	return NewTaskService(tasks, users), users, tasks
}

func TestCreateTaskEscrowsExactCost(t *testing.T) {
	svc, users, _ := newTaskFixture(50)

	created, err := svc.CreateTask(context.Background(), buyerID, TaskInput{
		Title:           "Watch my video",
		RequiredWorkers: 5,
		PayableAmount:   10,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if got := users.coin(buyerID); got != 0 {
		t.Errorf("buyer coin = %d, want 0", got)
	}
	if created.RequiredWorkers != 5 {
		t.Errorf("required_workers = %d, want 5", created.RequiredWorkers)
	}
}

func TestCreateTaskInsufficientCoin(t *testing.T) {
	svc, users, _ := newTaskFixture(49)

	_, err := svc.CreateTask(context.Background(), buyerID, TaskInput{
		Title:           "Watch my video",
		RequiredWorkers: 5,
		PayableAmount:   10,
	})
	if !errors.Is(err, domain.ErrInsufficientCoin) {
		t.Fatalf("err = %v, want ErrInsufficientCoin", err)
	}

	// Nothing debited on failure.
	if got := users.coin(buyerID); got != 49 {
		t.Errorf("buyer coin = %d, want 49", got)
	}
}

func TestCreateTaskWorkerForbidden(t *testing.T) {
	svc, _, _ := newTaskFixture(50)

	_, err := svc.CreateTask(context.Background(), workerID, TaskInput{
		Title:           "Watch my video",
		RequiredWorkers: 1,
		PayableAmount:   1,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestEditTaskRejectsFinancialPatch(t *testing.T) {
	svc, _, _ := newTaskFixture(50)

	created, err := svc.CreateTask(context.Background(), buyerID, TaskInput{
		Title:           "Watch my video",
		RequiredWorkers: 2,
		PayableAmount:   10,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	_, err = svc.EditTask(context.Background(), created.ID, buyerID, domain.TaskPatch{Title: "New title"}, true)
	if !errors.Is(err, domain.ErrImmutableField) {
		t.Fatalf("err = %v, want ErrImmutableField", err)
	}
}

func TestEditTaskNonFinancialFields(t *testing.T) {
	svc, _, _ := newTaskFixture(50)

	created, err := svc.CreateTask(context.Background(), buyerID, TaskInput{
		Title:           "Watch my video",
		Detail:          "old detail",
		RequiredWorkers: 2,
		PayableAmount:   10,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	updated, err := svc.EditTask(context.Background(), created.ID, buyerID, domain.TaskPatch{Title: "New title"}, false)
	if err != nil {
		t.Fatalf("EditTask: %v", err)
	}

	if updated.Title != "New title" {
		t.Errorf("title = %q, want %q", updated.Title, "New title")
	}
	if updated.Detail != "old detail" {
		t.Errorf("detail = %q, want untouched %q", updated.Detail, "old detail")
	}
	if updated.RequiredWorkers != 2 || updated.PayableAmount != 10 {
		t.Errorf("financial fields changed: workers=%d amount=%d", updated.RequiredWorkers, updated.PayableAmount)
	}
}

func TestEditTaskStrangerForbidden(t *testing.T) {
	svc, _, _ := newTaskFixture(50)

	created, err := svc.CreateTask(context.Background(), buyerID, TaskInput{
		Title:           "Watch my video",
		RequiredWorkers: 2,
		PayableAmount:   10,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	_, err = svc.EditTask(context.Background(), created.ID, workerID, domain.TaskPatch{Title: "hijack"}, false)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestDeleteTaskRefundsRemainingEscrow(t *testing.T) {
	svc, users, tasks := newTaskFixture(50)

	created, err := svc.CreateTask(context.Background(), buyerID, TaskInput{
		Title:           "Watch my video",
		RequiredWorkers: 5,
		PayableAmount:   10,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	// One slot consumed before deletion; 4 * 10 comes back.
	tasks.mu.Lock()
	stored := tasks.tasks[created.ID]
	stored.RequiredWorkers = 4
	tasks.tasks[created.ID] = stored
	tasks.mu.Unlock()

	refund, err := svc.DeleteTask(context.Background(), created.ID, buyerID)
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	if refund != 40 {
		t.Errorf("refund = %d, want 40", refund)
	}
	if got := users.coin(buyerID); got != 40 {
		t.Errorf("buyer coin = %d, want 40", got)
	}
}

func TestDeleteTaskAdminAllowed(t *testing.T) {
	svc, _, _ := newTaskFixture(50)

	created, err := svc.CreateTask(context.Background(), buyerID, TaskInput{
		Title:           "Watch my video",
		RequiredWorkers: 1,
		PayableAmount:   10,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if _, err := svc.DeleteTask(context.Background(), created.ID, adminID); err != nil {
		t.Fatalf("admin DeleteTask: %v", err)
	}
}
