package modulepay

import (
	"encoding/binary"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

const (
	pathSetAuthorizedModule = "modulepay/set_authorized_module"
	pathSetWeights          = "modulepay/set_weights"
	pathReportPayment       = "modulepay/report_payment"
	pathReportBatch         = "modulepay/report_batch"
	pathUpdateConfiguration = "modulepay/update_configuration"
)

var (
	_ modpay.Msg = (*SetAuthorizedModuleMsg)(nil)
	_ modpay.Msg = (*SetWeightsMsg)(nil)
	_ modpay.Msg = (*ReportPaymentMsg)(nil)
	_ modpay.Msg = (*ReportBatchMsg)(nil)
	_ modpay.Msg = (*UpdateConfigurationMsg)(nil)
)

// SetAuthorizedModuleMsg grants privileged call rights to the module
// registered under the given id. Only the configuration admin can issue it.
type SetAuthorizedModuleMsg struct {
	ModuleID uint64
}

func (SetAuthorizedModuleMsg) Path() string {
	return pathSetAuthorizedModule
}

func (msg *SetAuthorizedModuleMsg) Validate() error {
	return nil
}

func (msg *SetAuthorizedModuleMsg) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, msg.ModuleID)
	return raw, nil
}

func (msg *SetAuthorizedModuleMsg) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrInput, "malformed message")
	}
	msg.ModuleID = binary.BigEndian.Uint64(raw)
	return nil
}

// SetWeightsMsg replaces the whole usage weight table. The lists are
// positional: Weights[i] is the raw usage weight of ModuleIDs[i]. Any
// previously stored id not present in this message is removed.
type SetWeightsMsg struct {
	ModuleIDs []uint64
	Weights   []uint16
}

func (SetWeightsMsg) Path() string {
	return pathSetWeights
}

func (msg *SetWeightsMsg) Validate() error {
	if len(msg.ModuleIDs) != len(msg.Weights) {
		return errors.Wrapf(ErrLengthMismatch, "%d ids, %d weights",
			len(msg.ModuleIDs), len(msg.Weights))
	}
	return nil
}

func (msg *SetWeightsMsg) Marshal() ([]byte, error) {
	raw := make([]byte, 0, 4+8*len(msg.ModuleIDs)+4+2*len(msg.Weights))
	var b8 [8]byte
	var b4 [4]byte
	var b2 [2]byte

	binary.BigEndian.PutUint32(b4[:], uint32(len(msg.ModuleIDs)))
	raw = append(raw, b4[:]...)
	for _, id := range msg.ModuleIDs {
		binary.BigEndian.PutUint64(b8[:], id)
		raw = append(raw, b8[:]...)
	}
	binary.BigEndian.PutUint32(b4[:], uint32(len(msg.Weights)))
	raw = append(raw, b4[:]...)
	for _, w := range msg.Weights {
		binary.BigEndian.PutUint16(b2[:], w)
		raw = append(raw, b2[:]...)
	}
	return raw, nil
}

func (msg *SetWeightsMsg) Unmarshal(raw []byte) error {
	if len(raw) < 4 {
		return errors.Wrap(errors.ErrInput, "malformed message")
	}
	idCount := int(binary.BigEndian.Uint32(raw[:4]))
	raw = raw[4:]
	if len(raw) < 8*idCount+4 {
		return errors.Wrap(errors.ErrInput, "malformed message")
	}
	msg.ModuleIDs = make([]uint64, idCount)
	for i := range msg.ModuleIDs {
		msg.ModuleIDs[i] = binary.BigEndian.Uint64(raw[:8])
		raw = raw[8:]
	}
	weightCount := int(binary.BigEndian.Uint32(raw[:4]))
	raw = raw[4:]
	if len(raw) != 2*weightCount {
		return errors.Wrap(errors.ErrInput, "malformed message")
	}
	msg.Weights = make([]uint16, weightCount)
	for i := range msg.Weights {
		msg.Weights[i] = binary.BigEndian.Uint16(raw[:2])
		raw = raw[2:]
	}
	return nil
}

// PaymentReport describes a single payment to mediate: the payee pays the
// given amount for using the module, split into the module owner's
// principal and the protocol fee.
type PaymentReport struct {
	ModuleID uint64
	Payee    modpay.Address
	Amount   uint64
}

func (r *PaymentReport) validate() error {
	if err := r.Payee.Validate(); err != nil {
		return errors.Wrap(err, "payee address")
	}
	return nil
}

func (r *PaymentReport) marshalTo(raw []byte) []byte {
	var b8 [8]byte
	binary.BigEndian.PutUint64(b8[:], r.ModuleID)
	raw = append(raw, b8[:]...)
	raw = append(raw, byte(len(r.Payee)))
	raw = append(raw, r.Payee...)
	binary.BigEndian.PutUint64(b8[:], r.Amount)
	raw = append(raw, b8[:]...)
	return raw
}

// unmarshalFrom parses a single report from the front of raw and returns
// the remainder.
func (r *PaymentReport) unmarshalFrom(raw []byte) ([]byte, error) {
	if len(raw) < 9 {
		return nil, errors.Wrap(errors.ErrInput, "malformed report")
	}
	r.ModuleID = binary.BigEndian.Uint64(raw[:8])
	payeeLen := int(raw[8])
	raw = raw[9:]
	if len(raw) < payeeLen+8 {
		return nil, errors.Wrap(errors.ErrInput, "malformed report")
	}
	r.Payee = modpay.Address(raw[:payeeLen]).Clone()
	raw = raw[payeeLen:]
	r.Amount = binary.BigEndian.Uint64(raw[:8])
	return raw[8:], nil
}

// ReportPaymentMsg submits a single payment report. Only the owner of the
// authorized module can issue it.
type ReportPaymentMsg struct {
	Report PaymentReport
}

func (ReportPaymentMsg) Path() string {
	return pathReportPayment
}

func (msg *ReportPaymentMsg) Validate() error {
	if err := msg.Report.validate(); err != nil {
		return err
	}
	if msg.Report.Amount == 0 {
		return errors.Wrap(ErrEmptyPayment, "amount")
	}
	return nil
}

func (msg *ReportPaymentMsg) Marshal() ([]byte, error) {
	return msg.Report.marshalTo(nil), nil
}

func (msg *ReportPaymentMsg) Unmarshal(raw []byte) error {
	rest, err := msg.Report.unmarshalFrom(raw)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return errors.Wrap(errors.ErrInput, "malformed message")
	}
	return nil
}

// ReportBatchMsg submits many payment reports at once. Each report is
// processed independently and a rejected report does not abort the rest of
// the batch.
type ReportBatchMsg struct {
	Reports []PaymentReport
}

func (ReportBatchMsg) Path() string {
	return pathReportBatch
}

func (msg *ReportBatchMsg) Validate() error {
	// Business rejections like a zero amount are per report decisions of
	// the handler and must not invalidate the whole batch. Only the
	// structure is verified here.
	for i := range msg.Reports {
		if err := msg.Reports[i].validate(); err != nil {
			return errors.Wrapf(err, "report #%d", i)
		}
	}
	return nil
}

func (msg *ReportBatchMsg) Marshal() ([]byte, error) {
	var b4 [4]byte
	binary.BigEndian.PutUint32(b4[:], uint32(len(msg.Reports)))
	raw := append([]byte{}, b4[:]...)
	for i := range msg.Reports {
		raw = msg.Reports[i].marshalTo(raw)
	}
	return raw, nil
}

func (msg *ReportBatchMsg) Unmarshal(raw []byte) error {
	if len(raw) < 4 {
		return errors.Wrap(errors.ErrInput, "malformed message")
	}
	count := int(binary.BigEndian.Uint32(raw[:4]))
	raw = raw[4:]
	// A report is at least 17 bytes, so a count bigger than that ratio can
	// never be satisfied by the payload. Reject before allocating.
	if count > len(raw)/17 {
		return errors.Wrap(errors.ErrInput, "malformed message")
	}
	msg.Reports = make([]PaymentReport, count)
	for i := range msg.Reports {
		var err error
		if raw, err = msg.Reports[i].unmarshalFrom(raw); err != nil {
			return errors.Wrapf(err, "report #%d", i)
		}
	}
	if len(raw) != 0 {
		return errors.Wrap(errors.ErrInput, "malformed message")
	}
	return nil
}

// UpdateConfigurationMsg replaces the extension configuration. Only the
// current configuration admin can issue it.
type UpdateConfigurationMsg struct {
	Patch Configuration
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfiguration
}

func (msg *UpdateConfigurationMsg) Validate() error {
	return msg.Patch.Validate()
}

func (msg *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return msg.Patch.Marshal()
}

func (msg *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return msg.Patch.Unmarshal(raw)
}
