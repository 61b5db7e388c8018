package modulepay

import (
	"fmt"
	"strconv"

	"github.com/tendermint/tendermint/libs/common"
)

func authorizedModuleTags(id uint64) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("modulepay:authorized"), Value: []byte(strconv.FormatUint(id, 10))},
	}
}

func paymentTags(report PaymentReport, fee uint64) []common.KVPair {
	val := fmt.Sprintf("%d:%s:%d:%d", report.ModuleID, report.Payee, report.Amount, fee)
	return []common.KVPair{
		{Key: []byte("modulepay:payment"), Value: []byte(val)},
	}
}

func payoutTags(id, amount uint64) []common.KVPair {
	val := fmt.Sprintf("%d:%d", id, amount)
	return []common.KVPair{
		{Key: []byte("modulepay:payout"), Value: []byte(val)},
	}
}
