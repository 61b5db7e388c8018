package modulepay

import (
	"github.com/tendermint/tendermint/libs/common"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/gconf"
	"github.com/modnet/modpay/x"
	"github.com/modnet/modpay/x/funds"
	"github.com/modnet/modpay/x/modreg"
)

const (
	setAuthorizedModuleCost int64 = 10
	setWeightsCost          int64 = 50
	reportPaymentCost       int64 = 100
	updateConfigurationCost int64 = 10
)

// CashController is the subset of the funds controller this extension
// needs. It is an interface so the ledger implementation can be swapped.
type CashController interface {
	Balance(db modpay.ReadOnlyKVStore, addr modpay.Address) (uint64, error)
	Distributable(db modpay.ReadOnlyKVStore, addr modpay.Address) (uint64, error)
	MoveKeepAlive(db modpay.KVStore, src, dest modpay.Address, amount uint64) error
}

// ModuleRegistry is the read access to the module records this extension
// needs.
type ModuleRegistry interface {
	Exists(db modpay.ReadOnlyKVStore, id uint64) (bool, error)
	Owner(db modpay.ReadOnlyKVStore, id uint64) (modpay.Address, error)
	ListIDs(db modpay.ReadOnlyKVStore) ([]uint64, error)
}

var (
	_ CashController = funds.Controller{}
	_ ModuleRegistry = modreg.Registry{}
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r modpay.Registry, auth x.Authenticator, ctrl CashController, reg ModuleRegistry) {
	r.Handle(&SetAuthorizedModuleMsg{}, SetAuthorizedModuleHandler{auth: auth, reg: reg})
	r.Handle(&SetWeightsMsg{}, SetWeightsHandler{auth: auth, reg: reg})
	r.Handle(&ReportPaymentMsg{}, ReportPaymentHandler{auth: auth, ctrl: ctrl, reg: reg})
	r.Handle(&ReportBatchMsg{}, ReportBatchHandler{auth: auth, ctrl: ctrl, reg: reg})
	r.Handle(&UpdateConfigurationMsg{}, UpdateConfigurationHandler{auth: auth})
}

// ensureAuthorizedModule returns the id of the currently authorized module
// if the transaction was signed by its owner. Any other condition,
// including a missing registry record for the authorized id, is rejected
// with ErrNotAuthorizedModule.
func ensureAuthorizedModule(ctx modpay.Context, db modpay.ReadOnlyKVStore, auth x.Authenticator, reg ModuleRegistry) (uint64, error) {
	id, err := loadAuthorizedModule(db)
	if err != nil {
		return 0, err
	}
	owner, err := reg.Owner(db, id)
	if err != nil {
		if modreg.ErrModuleNotFound.Is(err) {
			return 0, errors.Wrapf(ErrNotAuthorizedModule, "module %d", id)
		}
		return 0, err
	}
	if !auth.HasAddress(ctx, owner) {
		return 0, errors.Wrap(ErrNotAuthorizedModule, "caller is not the module owner")
	}
	return id, nil
}

// SetAuthorizedModuleHandler selects the module granted privileged call
// rights.
type SetAuthorizedModuleHandler struct {
	auth x.Authenticator
	reg  ModuleRegistry
}

var _ modpay.Handler = SetAuthorizedModuleHandler{}

func (h SetAuthorizedModuleHandler) Check(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &modpay.CheckResult{GasAllocated: setAuthorizedModuleCost}, nil
}

func (h SetAuthorizedModuleHandler) Deliver(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := setAuthorizedModule(db, msg.ModuleID); err != nil {
		return nil, err
	}
	return &modpay.DeliverResult{Tags: authorizedModuleTags(msg.ModuleID)}, nil
}

func (h SetAuthorizedModuleHandler) validate(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*SetAuthorizedModuleMsg, error) {
	var msg SetAuthorizedModuleMsg
	if err := modpay.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	ok, err := h.reg.Exists(db, msg.ModuleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(modreg.ErrModuleNotFound, "module %d", msg.ModuleID)
	}
	return &msg, nil
}

// SetWeightsHandler replaces the usage weight table.
type SetWeightsHandler struct {
	auth x.Authenticator
	reg  ModuleRegistry
}

var _ modpay.Handler = SetWeightsHandler{}

func (h SetWeightsHandler) Check(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &modpay.CheckResult{GasAllocated: setWeightsCost}, nil
}

func (h SetWeightsHandler) Deliver(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// Weights are persisted in their normalized form, the way they are
	// later consumed by the payout computation.
	normalized := normalizeWeights(msg.Weights)
	if err := replaceWeightTable(db, msg.ModuleIDs, normalized); err != nil {
		return nil, err
	}
	return &modpay.DeliverResult{}, nil
}

func (h SetWeightsHandler) validate(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*SetWeightsMsg, error) {
	var msg SetWeightsMsg
	if err := modpay.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := ensureAuthorizedModule(ctx, db, h.auth, h.reg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportPaymentHandler mediates a single reported payment.
type ReportPaymentHandler struct {
	auth x.Authenticator
	ctrl CashController
	reg  ModuleRegistry
}

var _ modpay.Handler = ReportPaymentHandler{}

func (h ReportPaymentHandler) Check(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &modpay.CheckResult{GasAllocated: reportPaymentCost}, nil
}

func (h ReportPaymentHandler) Deliver(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tags, err := handleReport(db, h.ctrl, h.reg, msg.Report)
	if err != nil {
		return nil, err
	}
	return &modpay.DeliverResult{Tags: tags}, nil
}

func (h ReportPaymentHandler) validate(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*ReportPaymentMsg, error) {
	var msg ReportPaymentMsg
	if err := modpay.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := ensureAuthorizedModule(ctx, db, h.auth, h.reg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// handleReport splits a single payment into the module owner's principal
// and the protocol fee and moves both. The two transfers are applied
// through a cache wrap, so a rejected report leaves no state behind.
func handleReport(db modpay.KVStore, ctrl CashController, reg ModuleRegistry, report PaymentReport) ([]common.KVPair, error) {
	if report.Amount == 0 {
		return nil, errors.Wrap(ErrEmptyPayment, "amount")
	}
	owner, err := reg.Owner(db, report.ModuleID)
	if err != nil {
		return nil, err
	}
	balance, err := ctrl.Balance(db, report.Payee)
	if err != nil {
		return nil, err
	}
	if balance < report.Amount {
		return nil, errors.Wrap(funds.ErrInsufficientFunds, "payee balance")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	fee := conf.PaymentFee.MulCeil(report.Amount)
	principal := report.Amount - fee

	cache, ok := db.(modpay.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "store does not support atomic writes")
	}
	wrap := cache.CacheWrap()
	if principal > 0 {
		if err := ctrl.MoveKeepAlive(wrap, report.Payee, owner, principal); err != nil {
			wrap.Discard()
			return nil, errors.Wrap(err, "principal transfer")
		}
	}
	if fee > 0 {
		if err := ctrl.MoveKeepAlive(wrap, report.Payee, PoolAccount(), fee); err != nil {
			wrap.Discard()
			return nil, errors.Wrap(err, "fee transfer")
		}
	}
	if err := wrap.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot commit transfers")
	}
	return paymentTags(report, fee), nil
}

// ReportBatchHandler mediates many reported payments at once. Reports are
// independent: a rejected report is logged and skipped while the rest of
// the batch proceeds.
type ReportBatchHandler struct {
	auth x.Authenticator
	ctrl CashController
	reg  ModuleRegistry
}

var _ modpay.Handler = ReportBatchHandler{}

func (h ReportBatchHandler) Check(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.CheckResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &modpay.CheckResult{GasAllocated: reportPaymentCost * int64(len(msg.Reports))}, nil
}

func (h ReportBatchHandler) Deliver(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	logger := modpay.GetLogger(ctx).With("module", "modulepay")
	var tags []common.KVPair
	for i := range msg.Reports {
		rtags, err := handleReport(db, h.ctrl, h.reg, msg.Reports[i])
		if err != nil {
			logger.Info("batch report rejected", "index", i, "cause", err)
			continue
		}
		tags = append(tags, rtags...)
	}
	return &modpay.DeliverResult{Tags: tags}, nil
}

func (h ReportBatchHandler) validate(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*ReportBatchMsg, error) {
	var msg ReportBatchMsg
	if err := modpay.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if _, err := ensureAuthorizedModule(ctx, db, h.auth, h.reg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateConfigurationHandler replaces the extension configuration.
type UpdateConfigurationHandler struct {
	auth x.Authenticator
}

var _ modpay.Handler = UpdateConfigurationHandler{}

func (h UpdateConfigurationHandler) Check(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &modpay.CheckResult{GasAllocated: updateConfigurationCost}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := gconf.Save(db, "modulepay", &msg.Patch); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}
	return &modpay.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) validate(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*UpdateConfigurationMsg, error) {
	var msg UpdateConfigurationMsg
	if err := modpay.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	return &msg, nil
}
