package modpaytest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/modnet/modpay"
)

var condCounter uint64

// NewCondition returns a new, unique condition. It is guaranteed that no
// two conditions created by this function are the same within a single test
// binary run.
func NewCondition() modpay.Condition {
	c := atomic.AddUint64(&condCounter, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, c)
	return modpay.NewCondition("test", "mock", data)
}
