package domain

import "testing"

func TestCoinPackageCatalog(t *testing.T) {
	want := map[int]float64{
		10:   1,
		150:  10,
		500:  20,
		1000: 35,
	}

	if len(CoinPackages) != len(want) {
		t.Fatalf("catalog has %d packages, want %d", len(CoinPackages), len(want))
	}

	for coin, dollars := range want {
		pkg, ok := FindCoinPackage(coin)
		if !ok {
			t.Errorf("FindCoinPackage(%d) not found", coin)
			continue
		}
		if pkg.Dollars != dollars {
			t.Errorf("FindCoinPackage(%d).Dollars = %v, want %v", coin, pkg.Dollars, dollars)
		}
	}

	if _, ok := FindCoinPackage(75); ok {
		t.Error("FindCoinPackage(75) found, want miss")
	}
}

func TestWithdrawalDollars(t *testing.T) {
	cases := []struct {
		coin int
		want float64
	}{
		{200, 10.00},
		{220, 11.00},
		{1000, 50.00},
		{20, 1.00},
	}

	for _, tc := range cases {
		if got := WithdrawalDollars(tc.coin); got != tc.want {
			t.Errorf("WithdrawalDollars(%d) = %v, want %v", tc.coin, got, tc.want)
		}
	}
}

func TestConversionRatesAreAsymmetric(t *testing.T) {
	if PurchaseCoinsPerDollar >= WithdrawalCoinsPerDollar {
		t.Errorf("purchase rate %d should be below withdrawal rate %d",
			PurchaseCoinsPerDollar, WithdrawalCoinsPerDollar)
	}
}

func TestTaskEscrow(t *testing.T) {
	task := Task{RequiredWorkers: 5, PayableAmount: 10}
	if got := task.Escrow(); got != 50 {
		t.Errorf("Escrow() = %d, want 50", got)
	}
	if !task.Available() {
		t.Error("Available() = false, want true")
	}

	task.RequiredWorkers = 0
	if task.Available() {
		t.Error("Available() = true with zero slots, want false")
	}
}

func TestStartingCoin(t *testing.T) {
	if got := StartingCoin(RoleWorker); got != 10 {
		t.Errorf("StartingCoin(worker) = %d, want 10", got)
	}
	if got := StartingCoin(RoleBuyer); got != 50 {
		t.Errorf("StartingCoin(buyer) = %d, want 50", got)
	}
	if got := StartingCoin(RoleAdmin); got != 0 {
		t.Errorf("StartingCoin(admin) = %d, want 0", got)
	}
}
