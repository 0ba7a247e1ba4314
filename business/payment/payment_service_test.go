package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
)

type store struct {
	mu       sync.Mutex
	users    map[uint]domain.User
	payments map[string]domain.Payment
	sessions map[string]domain.StripeSession
	nextID   uint
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

type fakePaymentRepo struct{ s *store }

func (f fakePaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	p.ID = f.s.nextID
	f.s.nextID++
	f.s.payments[p.SessionID] = *p
	return nil
}

func (f fakePaymentRepo) FindBySessionID(_ context.Context, sessionID string) (domain.Payment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	p, ok := f.s.payments[sessionID]
	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	return p, nil
}

func (f fakePaymentRepo) FindByEmail(_ context.Context, email string) ([]domain.Payment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var out []domain.Payment
	for _, p := range f.s.payments {
		if p.BuyerEmail == email {
			out = append(out, p)
		}
	}
	return out, nil
}

// FinalizeWithCredit follows the repository contract: the status flip is
// conditional on pending, and the credit only happens on the flip.
func (f fakePaymentRepo) FinalizeWithCredit(_ context.Context, sessionID string) (domain.Payment, bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	p, ok := f.s.payments[sessionID]
	if !ok {
		return domain.Payment{}, false, domain.ErrPaymentNotFound
	}
	if p.PaymentStatus != domain.PaymentPending {
		return p, false, nil
	}
	p.PaymentStatus = domain.PaymentSuccess
	f.s.payments[sessionID] = p

	u := f.s.users[p.BuyerID]
	u.Coin += p.Coin
	f.s.users[p.BuyerID] = u

	return p, true, nil
}

type fakeStripeRepo struct {
	s *store
	// paid controls what the gateway reports for every session.
	paid bool
}

func (f fakeStripeRepo) CreateCheckoutSession(_ context.Context, buyerEmail, clientRef string, pkg domain.CoinPackage) (domain.StripeSession, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	id := fmt.Sprintf("cs_test_%d", len(f.s.sessions)+1)
	session := domain.StripeSession{
		ID:            id,
		URL:           "https://checkout.stripe.com/pay/" + id,
		PaymentStatus: "unpaid",
	}
	f.s.sessions[id] = session
	return session, nil
}

func (f fakeStripeRepo) GetCheckoutSession(_ context.Context, sessionID string) (domain.StripeSession, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	session, ok := f.s.sessions[sessionID]
	if !ok {
		return domain.StripeSession{}, domain.ErrPaymentNotFound
	}
	if f.paid {
		session.PaymentStatus = "paid"
	}
	return session, nil
}

const (
	buyerID  = uint(1)
	workerID = uint(2)
)

func newFixture(paid bool) (*PaymentService, *store) {
	s := &store{
		users: map[uint]domain.User{
			buyerID:  {ID: buyerID, Email: "buyer@example.com", FullName: "Buyer", Role: domain.RoleBuyer, Coin: 50},
			workerID: {ID: workerID, Email: "worker@example.com", FullName: "Worker", Role: domain.RoleWorker, Coin: 10},
		},
		payments: make(map[string]domain.Payment),
		sessions: make(map[string]domain.StripeSession),
		nextID:   1,
	}
	svc := NewPaymentService(fakePaymentRepo{s}, fakeStripeRepo{s: s, paid: paid}, fakeUserRepo{s})
	return svc, s
}

func TestCreateCheckoutSessionKnownPackages(t *testing.T) {
	cases := []struct {
		coin    int
		dollars float64
	}{
		{10, 1},
		{150, 10},
		{500, 20},
		{1000, 35},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_coins", tc.coin), func(t *testing.T) {
			svc, s := newFixture(false)

			link, err := svc.CreateCheckoutSession(context.Background(), buyerID, tc.coin)
			if err != nil {
				t.Fatalf("CreateCheckoutSession: %v", err)
			}

			if link.Coin != tc.coin || link.Amount != tc.dollars {
				t.Errorf("package = %d/$%v, want %d/$%v", link.Coin, link.Amount, tc.coin, tc.dollars)
			}
			if link.CheckoutURL == "" {
				t.Error("checkout URL is empty")
			}
			if link.PaymentStatus != domain.PaymentPending {
				t.Errorf("status = %q, want pending", link.PaymentStatus)
			}

			// No coins move at session creation.
			if got := s.users[buyerID].Coin; got != 50 {
				t.Errorf("buyer coin = %d, want 50", got)
			}
		})
	}
}

func TestCreateCheckoutSessionUnknownPackage(t *testing.T) {
	svc, _ := newFixture(false)

	_, err := svc.CreateCheckoutSession(context.Background(), buyerID, 75)
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestCreateCheckoutSessionWorkerForbidden(t *testing.T) {
	svc, _ := newFixture(false)

	_, err := svc.CreateCheckoutSession(context.Background(), workerID, 10)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestFinalizeCreditsOnce(t *testing.T) {
	svc, s := newFixture(true)

	link, err := svc.CreateCheckoutSession(context.Background(), buyerID, 500)
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}

	// The success page can reload any number of times; the credit lands once.
	for i := 0; i < 5; i++ {
		p, err := svc.FinalizeCheckout(context.Background(), link.SessionID)
		if err != nil {
			t.Fatalf("FinalizeCheckout #%d: %v", i+1, err)
		}
		if p.PaymentStatus != domain.PaymentSuccess {
			t.Fatalf("status = %q, want success", p.PaymentStatus)
		}
	}

	if got := s.users[buyerID].Coin; got != 550 {
		t.Errorf("buyer coin = %d, want 550", got)
	}
}

func TestFinalizeConcurrentDuplicates(t *testing.T) {
	svc, s := newFixture(true)

	link, err := svc.CreateCheckoutSession(context.Background(), buyerID, 150)
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}

	type result struct {
		payment domain.Payment
		err     error
	}

	var wg sync.WaitGroup
	results := make(chan result, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.FinalizeCheckout(context.Background(), link.SessionID)
			results <- result{payment: p, err: err}
		}()
	}
	wg.Wait()
	close(results)

	// Losers of the conditional flip must still report the settled payment,
	// not the pending snapshot they read before the winner committed.
	for r := range results {
		if r.err != nil {
			t.Errorf("FinalizeCheckout: %v", r.err)
			continue
		}
		if r.payment.PaymentStatus != domain.PaymentSuccess {
			t.Errorf("reported status = %q, want success", r.payment.PaymentStatus)
		}
	}
	if got := s.users[buyerID].Coin; got != 200 {
		t.Errorf("buyer coin = %d, want 200", got)
	}
}

func TestFinalizeUnpaidSession(t *testing.T) {
	svc, s := newFixture(false)

	link, err := svc.CreateCheckoutSession(context.Background(), buyerID, 10)
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}

	if _, err := svc.FinalizeCheckout(context.Background(), link.SessionID); err == nil {
		t.Fatal("expected error for unpaid session")
	}
	if got := s.users[buyerID].Coin; got != 50 {
		t.Errorf("buyer coin = %d, want 50", got)
	}
	if got := s.payments[link.SessionID].PaymentStatus; got != domain.PaymentPending {
		t.Errorf("payment status = %q, want still pending", got)
	}
}

func TestFinalizeUnknownSession(t *testing.T) {
	svc, _ := newFixture(true)

	_, err := svc.FinalizeCheckout(context.Background(), "cs_test_missing")
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("err = %v, want ErrPaymentNotFound", err)
	}
}
