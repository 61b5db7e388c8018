package modulepay

import (
	"testing"

	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/modpaytest"
)

func TestReportBatchMsgSerializeBigBatch(t *testing.T) {
	// More reports than a 16 bit counter could carry.
	payee := modpaytest.NewCondition().Address()
	reports := make([]PaymentReport, 70000)
	for i := range reports {
		reports[i] = PaymentReport{
			ModuleID: uint64(i),
			Payee:    payee,
			Amount:   uint64(i) + 1,
		}
	}
	msg := &ReportBatchMsg{Reports: reports}
	raw, err := msg.Marshal()
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}

	var got ReportBatchMsg
	if err := got.Unmarshal(raw); err != nil {
		t.Fatalf("cannot unmarshal: %s", err)
	}
	if len(got.Reports) != len(reports) {
		t.Fatalf("want %d reports, got %d", len(reports), len(got.Reports))
	}
	first, last := got.Reports[0], got.Reports[len(got.Reports)-1]
	if first.ModuleID != 0 || first.Amount != 1 {
		t.Fatalf("unexpected first report: %+v", first)
	}
	if last.ModuleID != 69999 || last.Amount != 70000 {
		t.Fatalf("unexpected last report: %+v", last)
	}
	if !last.Payee.Equals(payee) {
		t.Fatalf("unexpected payee: %s", last.Payee)
	}
}

func TestReportBatchMsgUnmarshalRejectsShortPayload(t *testing.T) {
	// A count that the payload can never satisfy must be rejected before
	// any allocation is done.
	raw := []byte{0, 1, 0, 0}
	var msg ReportBatchMsg
	if err := msg.Unmarshal(raw); !errors.ErrInput.Is(err) {
		t.Fatalf("want an input error, got %+v", err)
	}
}
