package submission

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
)

// store backs all three fake repositories so a decision can touch the
// submission row, the task's slot counter and the worker's balance the way
// the database transaction does.
type store struct {
	mu          sync.Mutex
	users       map[uint]domain.User
	tasks       map[uint]domain.Task
	submissions map[uint]domain.Submission
	withdrawals map[uint]domain.Withdrawal
	notes       []domain.Notification
	nextID      uint
}

func newStore() *store {
	return &store{
		users:       make(map[uint]domain.User),
		tasks:       make(map[uint]domain.Task),
		submissions: make(map[uint]domain.Submission),
		withdrawals: make(map[uint]domain.Withdrawal),
		nextID:      1,
	}
}

type fakeUserRepo struct{ s *store }

func (f fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	u, ok := f.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeTaskRepo struct{ s *store }

func (f fakeTaskRepo) FindByID(_ context.Context, id uint) (domain.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	t, ok := f.s.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, nil
}

type fakeSubmissionRepo struct{ s *store }

// CreateWithSlotReserve mirrors the conditional UPDATE guard: the slot only
// comes off when required_workers is still positive.
func (f fakeSubmissionRepo) CreateWithSlotReserve(_ context.Context, sub *domain.Submission) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	t, ok := f.s.tasks[sub.TaskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if t.RequiredWorkers <= 0 {
		return domain.ErrNoSlotsAvailable
	}
	t.RequiredWorkers--
	f.s.tasks[sub.TaskID] = t

	sub.ID = f.s.nextID
	f.s.nextID++
	f.s.submissions[sub.ID] = *sub
	return nil
}

func (f fakeSubmissionRepo) FindByID(_ context.Context, id uint) (domain.Submission, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	sub, ok := f.s.submissions[id]
	if !ok {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	return sub, nil
}

func (f fakeSubmissionRepo) FindPaginatedByWorker(_ context.Context, email string, page, limit int) ([]domain.Submission, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var out []domain.Submission
	for _, sub := range f.s.submissions {
		if sub.WorkerEmail == email {
			out = append(out, sub)
		}
	}
	return out, int64(len(out)), nil
}

func (f fakeSubmissionRepo) FindByBuyer(_ context.Context, email, status string) ([]domain.Submission, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var out []domain.Submission
	for _, sub := range f.s.submissions {
		if sub.BuyerEmail == email && (status == "" || sub.Status == status) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f fakeSubmissionRepo) Approve(_ context.Context, sub domain.Submission, note domain.Notification) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	current, ok := f.s.submissions[sub.ID]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	if current.Status != domain.SubmissionPending {
		return domain.ErrAlreadyFinalized
	}
	current.Status = domain.SubmissionApproved
	f.s.submissions[sub.ID] = current

	worker := f.s.users[current.WorkerID]
	worker.Coin += current.PayableAmount
	f.s.users[current.WorkerID] = worker

	f.s.notes = append(f.s.notes, note)
	return nil
}

func (f fakeSubmissionRepo) Reject(_ context.Context, sub domain.Submission, note domain.Notification) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	current, ok := f.s.submissions[sub.ID]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	if current.Status != domain.SubmissionPending {
		return domain.ErrAlreadyFinalized
	}
	current.Status = domain.SubmissionRejected
	f.s.submissions[sub.ID] = current

	if t, ok := f.s.tasks[current.TaskID]; ok {
		t.RequiredWorkers++
		f.s.tasks[current.TaskID] = t
	}

	f.s.notes = append(f.s.notes, note)
	return nil
}

const (
	buyerID     = uint(1)
	workerID    = uint(2)
	adminID     = uint(3)
	rivalID     = uint(4)
	otherBuyerID = uint(5)
)

func newFixture(slots int) (*SubmissionService, *store) {
	s := newStore()
	s.users[buyerID] = domain.User{ID: buyerID, Email: "buyer@example.com", FullName: "Buyer", Role: domain.RoleBuyer}
	s.users[workerID] = domain.User{ID: workerID, Email: "worker@example.com", FullName: "Worker", Role: domain.RoleWorker, Coin: 10}
	s.users[adminID] = domain.User{ID: adminID, Email: "admin@example.com", FullName: "Admin", Role: domain.RoleAdmin}
	s.users[rivalID] = domain.User{ID: rivalID, Email: "rival@example.com", FullName: "Rival", Role: domain.RoleWorker, Coin: 10}
	s.users[otherBuyerID] = domain.User{ID: otherBuyerID, Email: "other@example.com", FullName: "Other", Role: domain.RoleBuyer}

	s.tasks[1] = domain.Task{
		ID:              1,
		Title:           "Watch my video",
		BuyerID:         buyerID,
		BuyerEmail:      "buyer@example.com",
		BuyerName:       "Buyer",
		RequiredWorkers: slots,
		PayableAmount:   10,
	}

	svc := NewSubmissionService(fakeSubmissionRepo{s}, fakeTaskRepo{s}, fakeUserRepo{s})
	return svc, s
}

func TestSubmitReservesSlot(t *testing.T) {
	svc, s := newFixture(3)

	sub, err := svc.Submit(context.Background(), workerID, 1, "proof link")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if sub.Status != domain.SubmissionPending {
		t.Errorf("status = %q, want pending", sub.Status)
	}
	if sub.TaskTitle != "Watch my video" || sub.PayableAmount != 10 || sub.BuyerEmail != "buyer@example.com" {
		t.Errorf("denormalized fields wrong: %+v", sub)
	}
	if got := s.tasks[1].RequiredWorkers; got != 2 {
		t.Errorf("required_workers = %d, want 2", got)
	}
}

func TestSubmitEmptyDetails(t *testing.T) {
	svc, s := newFixture(3)

	_, err := svc.Submit(context.Background(), workerID, 1, "   ")
	if !errors.Is(err, domain.ErrEmptyDetails) {
		t.Fatalf("err = %v, want ErrEmptyDetails", err)
	}
	if got := s.tasks[1].RequiredWorkers; got != 3 {
		t.Errorf("slot consumed on rejected input, required_workers = %d", got)
	}
}

func TestSubmitBuyerForbidden(t *testing.T) {
	svc, _ := newFixture(3)

	_, err := svc.Submit(context.Background(), buyerID, 1, "proof")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestSubmitNoSlots(t *testing.T) {
	svc, _ := newFixture(0)

	_, err := svc.Submit(context.Background(), workerID, 1, "proof")
	if !errors.Is(err, domain.ErrNoSlotsAvailable) {
		t.Fatalf("err = %v, want ErrNoSlotsAvailable", err)
	}
}

// Two workers race for the last slot; exactly one wins.
func TestSubmitLastSlotRace(t *testing.T) {
	svc, s := newFixture(1)

	results := make(chan error, 2)
	for _, id := range []uint{workerID, rivalID} {
		go func(id uint) {
			_, err := svc.Submit(context.Background(), id, 1, "proof")
			results <- err
		}(id)
	}

	var wins, losses int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrNoSlotsAvailable):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 || losses != 1 {
		t.Errorf("wins = %d, losses = %d, want exactly one of each", wins, losses)
	}
	if got := s.tasks[1].RequiredWorkers; got != 0 {
		t.Errorf("required_workers = %d, want 0", got)
	}
}

func TestApprovePaysWorkerOnce(t *testing.T) {
	svc, s := newFixture(3)

	sub, err := svc.Submit(context.Background(), workerID, 1, "proof")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	approved, err := svc.Approve(context.Background(), sub.ID, buyerID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != domain.SubmissionApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}
	if got := s.users[workerID].Coin; got != 20 {
		t.Errorf("worker coin = %d, want 20", got)
	}

	// The duplicate decision is refused and nothing is credited twice.
	_, err = svc.Approve(context.Background(), sub.ID, buyerID)
	if !errors.Is(err, domain.ErrAlreadyFinalized) {
		t.Fatalf("second Approve err = %v, want ErrAlreadyFinalized", err)
	}
	if got := s.users[workerID].Coin; got != 20 {
		t.Errorf("worker coin after duplicate approve = %d, want 20", got)
	}
}

func TestRejectReleasesSlot(t *testing.T) {
	svc, s := newFixture(3)

	sub, err := svc.Submit(context.Background(), workerID, 1, "proof")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := s.tasks[1].RequiredWorkers; got != 2 {
		t.Fatalf("required_workers after submit = %d, want 2", got)
	}

	rejected, err := svc.Reject(context.Background(), sub.ID, buyerID, "blurry screenshot")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != domain.SubmissionRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}

	// Submit then reject nets out to zero consumed slots.
	if got := s.tasks[1].RequiredWorkers; got != 3 {
		t.Errorf("required_workers = %d, want 3", got)
	}
	if got := s.users[workerID].Coin; got != 10 {
		t.Errorf("worker coin = %d, want unchanged 10", got)
	}
}

func TestRejectAfterApproveRefused(t *testing.T) {
	svc, s := newFixture(3)

	sub, err := svc.Submit(context.Background(), workerID, 1, "proof")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Approve(context.Background(), sub.ID, buyerID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	_, err = svc.Reject(context.Background(), sub.ID, buyerID, "")
	if !errors.Is(err, domain.ErrAlreadyFinalized) {
		t.Fatalf("err = %v, want ErrAlreadyFinalized", err)
	}
	if got := s.tasks[1].RequiredWorkers; got != 2 {
		t.Errorf("required_workers = %d, want 2 (no slot released)", got)
	}
}

func TestDecisionStrangerForbidden(t *testing.T) {
	svc, _ := newFixture(3)

	sub, err := svc.Submit(context.Background(), workerID, 1, "proof")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.Approve(context.Background(), sub.ID, otherBuyerID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("stranger Approve err = %v, want ErrUnauthorized", err)
	}

	// Admins decide on anyone's behalf.
	if _, err := svc.Approve(context.Background(), sub.ID, adminID); err != nil {
		t.Errorf("admin Approve: %v", err)
	}
}
