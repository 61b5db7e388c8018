package modulepay

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/gconf"
	"github.com/modnet/modpay/modpaytest"
	"github.com/modnet/modpay/store"
	"github.com/modnet/modpay/x"
	"github.com/modnet/modpay/x/funds"
	"github.com/modnet/modpay/x/modreg"
)

// fixture is the state shared by most tests in this package: a configured
// extension with one registered module (id 1) that is also the authorized
// one.
type fixture struct {
	db    modpay.CacheableKVStore
	ctrl  funds.Controller
	reg   modreg.Registry
	admin modpay.Condition
	owner modpay.Condition
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:    store.MemStore(),
		ctrl:  funds.NewController(),
		reg:   modreg.NewRegistry(),
		admin: modpaytest.NewCondition(),
		owner: modpaytest.NewCondition(),
	}
	conf := Configuration{
		Admin:              f.admin.Address(),
		PaymentFee:         modpay.Fraction{Numerator: 1, Denominator: 10},
		DistributionPeriod: 10,
		MaxPayoutsPerBlock: 2,
	}
	if err := gconf.Save(f.db, "modulepay", &conf); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}
	fconf := funds.Configuration{ExistentialDeposit: 2}
	if err := gconf.Save(f.db, "funds", &fconf); err != nil {
		t.Fatalf("cannot save funds configuration: %s", err)
	}
	module := modreg.Module{ID: 1, Owner: f.owner.Address(), Name: "alpha"}
	if err := f.reg.Save(f.db, &module); err != nil {
		t.Fatalf("cannot save module: %s", err)
	}
	if err := setAuthorizedModule(f.db, 1); err != nil {
		t.Fatalf("cannot set authorized module: %s", err)
	}
	return f
}

func (f *fixture) balance(t *testing.T, addr modpay.Address) uint64 {
	t.Helper()
	balance, err := f.ctrl.Balance(f.db, addr)
	if err != nil {
		t.Fatalf("cannot load balance: %s", err)
	}
	return balance
}

func (f *fixture) deposit(t *testing.T, addr modpay.Address, amount uint64) {
	t.Helper()
	if err := f.ctrl.Deposit(f.db, addr, amount); err != nil {
		t.Fatalf("cannot deposit: %s", err)
	}
}

func TestSetAuthorizedModuleHandler(t *testing.T) {
	cases := map[string]struct {
		moduleID  uint64
		signAdmin bool
		wantErr   *errors.Error
	}{
		"admin can authorize an existing module": {
			moduleID:  1,
			signAdmin: true,
		},
		"unregistered module cannot be authorized": {
			moduleID:  42,
			signAdmin: true,
			wantErr:   modreg.ErrModuleNotFound,
		},
		"only the admin can authorize": {
			moduleID: 1,
			wantErr:  errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			signer := f.owner
			if tc.signAdmin {
				signer = f.admin
			}
			h := SetAuthorizedModuleHandler{
				auth: &modpaytest.Auth{Signer: signer},
				reg:  f.reg,
			}
			tx := &modpaytest.Tx{Msg: &SetAuthorizedModuleMsg{ModuleID: tc.moduleID}}
			ctx := context.Background()

			if _, err := h.Check(ctx, f.db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			res, err := h.Deliver(ctx, f.db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			if len(res.Tags) == 0 {
				t.Fatal("expected tags")
			}
			id, err := loadAuthorizedModule(f.db)
			if err != nil {
				t.Fatalf("cannot load authorized module: %s", err)
			}
			if id != tc.moduleID {
				t.Fatalf("authorized module is %d", id)
			}
		})
	}
}

func TestSetWeightsHandlerReplacesTable(t *testing.T) {
	f := newFixture(t)
	// Entries not present in the update must be removed.
	if err := replaceWeightTable(f.db, []uint64{5, 9}, []uint16{100, 200}); err != nil {
		t.Fatalf("cannot seed weight table: %s", err)
	}
	h := SetWeightsHandler{
		auth: &modpaytest.Auth{Signer: f.owner},
		reg:  f.reg,
	}
	tx := &modpaytest.Tx{Msg: &SetWeightsMsg{
		ModuleIDs: []uint64{1, 2},
		Weights:   []uint16{80, 100},
	}}
	if _, err := h.Deliver(context.Background(), f.db, tx); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}

	ids, weights, err := loadWeightTable(f.db)
	if err != nil {
		t.Fatalf("cannot load weight table: %s", err)
	}
	if !reflect.DeepEqual(ids, []uint64{1, 2}) {
		t.Fatalf("unexpected ids: %v", ids)
	}
	// The table holds normalized values.
	if !reflect.DeepEqual(weights, []uint16{29126, 36408}) {
		t.Fatalf("unexpected weights: %v", weights)
	}
}

func TestSetWeightsHandlerLengthMismatch(t *testing.T) {
	f := newFixture(t)
	if err := replaceWeightTable(f.db, []uint64{5}, []uint16{100}); err != nil {
		t.Fatalf("cannot seed weight table: %s", err)
	}
	h := SetWeightsHandler{
		auth: &modpaytest.Auth{Signer: f.owner},
		reg:  f.reg,
	}
	tx := &modpaytest.Tx{Msg: &SetWeightsMsg{
		ModuleIDs: []uint64{1, 2},
		Weights:   []uint16{80},
	}}
	if _, err := h.Deliver(context.Background(), f.db, tx); !ErrLengthMismatch.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	ids, weights, err := loadWeightTable(f.db)
	if err != nil {
		t.Fatalf("cannot load weight table: %s", err)
	}
	if !reflect.DeepEqual(ids, []uint64{5}) || !reflect.DeepEqual(weights, []uint16{65535}) {
		t.Fatalf("weight table was modified: %v %v", ids, weights)
	}
}

func TestSetWeightsHandlerAuthorization(t *testing.T) {
	cases := map[string]struct {
		prepare func(t *testing.T, f *fixture)
		signer  func(f *fixture) modpay.Condition
		wantErr *errors.Error
	}{
		"authorized module owner can update": {
			signer: func(f *fixture) modpay.Condition { return f.owner },
		},
		"a random signer cannot update": {
			signer: func(f *fixture) modpay.Condition { return modpaytest.NewCondition() },
			wantErr: ErrNotAuthorizedModule,
		},
		"the admin alone cannot update": {
			signer:  func(f *fixture) modpay.Condition { return f.admin },
			wantErr: ErrNotAuthorizedModule,
		},
		"authorized module without a registry record rejects everyone": {
			prepare: func(t *testing.T, f *fixture) {
				if err := f.reg.Delete(f.db, 1); err != nil {
					t.Fatalf("cannot delete module: %s", err)
				}
			},
			signer:  func(f *fixture) modpay.Condition { return f.owner },
			wantErr: ErrNotAuthorizedModule,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.prepare != nil {
				tc.prepare(t, f)
			}
			h := SetWeightsHandler{
				auth: &modpaytest.Auth{Signer: tc.signer(f)},
				reg:  f.reg,
			}
			tx := &modpaytest.Tx{Msg: &SetWeightsMsg{
				ModuleIDs: []uint64{1},
				Weights:   []uint16{10},
			}}
			if _, err := h.Deliver(context.Background(), f.db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestReportPaymentHandler(t *testing.T) {
	payee := modpaytest.NewCondition().Address()

	cases := map[string]struct {
		payeeBalance uint64
		report       PaymentReport
		wantErr      *errors.Error
		wantPayee    uint64
		wantOwner    uint64
		wantPool     uint64
	}{
		"payment is split into principal and fee": {
			payeeBalance: 5002,
			report:       PaymentReport{ModuleID: 1, Payee: payee, Amount: 1000},
			// fee = ceil(1000 / 10)
			wantPayee: 4002,
			wantOwner: 900,
			wantPool:  100,
		},
		"zero amount is rejected": {
			payeeBalance: 5002,
			report:       PaymentReport{ModuleID: 1, Payee: payee, Amount: 0},
			wantErr:      ErrEmptyPayment,
			wantPayee:    5002,
		},
		"unknown module is rejected": {
			payeeBalance: 5002,
			report:       PaymentReport{ModuleID: 42, Payee: payee, Amount: 1000},
			wantErr:      modreg.ErrModuleNotFound,
			wantPayee:    5002,
		},
		"amount above the free balance is rejected": {
			payeeBalance: 500,
			report:       PaymentReport{ModuleID: 1, Payee: payee, Amount: 1000},
			wantErr:      funds.ErrInsufficientFunds,
			wantPayee:    500,
		},
		"amount passing the balance check can still breach keep alive": {
			// 1000 >= 999, but paying 899 + 100 would leave 1, below
			// the existential deposit of 2. Nothing may be applied.
			payeeBalance: 1000,
			report:       PaymentReport{ModuleID: 1, Payee: payee, Amount: 999},
			wantErr:      funds.ErrInsufficientFunds,
			wantPayee:    1000,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.deposit(t, payee, tc.payeeBalance)
			h := ReportPaymentHandler{
				auth: &modpaytest.Auth{Signer: f.owner},
				ctrl: f.ctrl,
				reg:  f.reg,
			}
			tx := &modpaytest.Tx{Msg: &ReportPaymentMsg{Report: tc.report}}
			res, err := h.Deliver(context.Background(), f.db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if got := f.balance(t, payee); got != tc.wantPayee {
				t.Fatalf("payee balance: %d", got)
			}
			if got := f.balance(t, f.owner.Address()); got != tc.wantOwner {
				t.Fatalf("owner balance: %d", got)
			}
			if got := f.balance(t, PoolAccount()); got != tc.wantPool {
				t.Fatalf("pool balance: %d", got)
			}
			if tc.wantErr == nil && len(res.Tags) == 0 {
				t.Fatal("expected tags")
			}
		})
	}
}

func TestReportPaymentHandlerRequiresAuthorizedOwner(t *testing.T) {
	f := newFixture(t)
	h := ReportPaymentHandler{
		auth: &modpaytest.Auth{Signer: modpaytest.NewCondition()},
		ctrl: f.ctrl,
		reg:  f.reg,
	}
	tx := &modpaytest.Tx{Msg: &ReportPaymentMsg{Report: PaymentReport{
		ModuleID: 1,
		Payee:    modpaytest.NewCondition().Address(),
		Amount:   10,
	}}}
	if _, err := h.Deliver(context.Background(), f.db, tx); !ErrNotAuthorizedModule.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestReportBatchHandlerToleratesFailures(t *testing.T) {
	f := newFixture(t)
	payee := modpaytest.NewCondition().Address()
	broke := modpaytest.NewCondition().Address()
	f.deposit(t, payee, 5002)

	// The owner signature is carried by the context here, behind a chain
	// of authenticators, the way the application assembles them.
	ctxAuth := &modpaytest.CtxAuth{Key: "auth"}
	h := ReportBatchHandler{
		auth: x.ChainAuth(&modpaytest.Auth{}, ctxAuth),
		ctrl: f.ctrl,
		reg:  f.reg,
	}
	ctx := ctxAuth.SetConditions(context.Background(), f.owner)
	tx := &modpaytest.Tx{Msg: &ReportBatchMsg{Reports: []PaymentReport{
		{ModuleID: 1, Payee: payee, Amount: 1000},
		{ModuleID: 1, Payee: payee, Amount: 0},
		{ModuleID: 42, Payee: payee, Amount: 1000},
		{ModuleID: 1, Payee: broke, Amount: 1000},
		{ModuleID: 1, Payee: payee, Amount: 1000},
	}}}
	res, err := h.Deliver(ctx, f.db, tx)
	if err != nil {
		t.Fatalf("batch must not fail: %+v", err)
	}
	// Only the first and the last report went through.
	if len(res.Tags) != 2 {
		t.Fatalf("unexpected tags: %v", res.Tags)
	}
	if got := f.balance(t, payee); got != 3002 {
		t.Fatalf("payee balance: %d", got)
	}
	if got := f.balance(t, f.owner.Address()); got != 1800 {
		t.Fatalf("owner balance: %d", got)
	}
	if got := f.balance(t, PoolAccount()); got != 200 {
		t.Fatalf("pool balance: %d", got)
	}
}

func TestUpdateConfigurationHandler(t *testing.T) {
	cases := map[string]struct {
		signAdmin bool
		wantErr   *errors.Error
	}{
		"admin can update the configuration": {
			signAdmin: true,
		},
		"only the admin can update the configuration": {
			wantErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			signer := f.owner
			if tc.signAdmin {
				signer = f.admin
			}
			h := UpdateConfigurationHandler{
				auth: &modpaytest.Auth{Signer: signer},
			}
			patch := Configuration{
				Admin:              f.admin.Address(),
				PaymentFee:         modpay.Fraction{Numerator: 1, Denominator: 4},
				DistributionPeriod: 20,
				MaxPayoutsPerBlock: 5,
			}
			tx := &modpaytest.Tx{Msg: &UpdateConfigurationMsg{Patch: patch}}
			if _, err := h.Deliver(context.Background(), f.db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			conf, err := loadConf(f.db)
			if err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			if tc.wantErr == nil {
				if !reflect.DeepEqual(conf, patch) {
					t.Fatalf("configuration not updated: %+v", conf)
				}
			} else if conf.DistributionPeriod != 10 {
				t.Fatalf("configuration was updated: %+v", conf)
			}
		})
	}
}

func TestReportPaymentFeeIsAlwaysRoundedUp(t *testing.T) {
	rate := modpay.Fraction{Numerator: 1, Denominator: 10}
	for _, amount := range []uint64{1, 9, 10, 11, 999, 1000, math.MaxUint64 / 2} {
		fee := rate.MulCeil(amount)
		principal := amount - fee
		if principal+fee != amount {
			t.Fatalf("amount %d: %d + %d does not add up", amount, principal, fee)
		}
		if want := (amount + 9) / 10; fee != want {
			t.Fatalf("amount %d: fee %d, want %d", amount, fee, want)
		}
	}
}
