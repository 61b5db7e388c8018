package modulepay

import "github.com/modnet/modpay"

// maxWeight is the normalization target. A normalized weight is the share
// of this value that the raw weight represents within its vector.
const maxWeight = 65535

// normalizeWeights scales a raw weight vector so that the values become
// shares of maxWeight, each rounded down. Because of the floor rounding the
// normalized values can sum to slightly less than maxWeight. A vector with
// a zero sum is returned unchanged, so an all zero table produces no
// allocation instead of failing.
func normalizeWeights(weights []uint16) []uint16 {
	var sum uint64
	for _, w := range weights {
		sum += uint64(w)
	}
	out := make([]uint16, len(weights))
	if sum == 0 {
		copy(out, weights)
		return out
	}
	for i, w := range weights {
		out[i] = uint16(uint64(w) * maxWeight / sum)
	}
	return out
}

// loadShareTable returns the fraction of the distributable pool assigned to
// each module with a recorded usage weight.
func loadShareTable(db modpay.ReadOnlyKVStore) (map[uint64]modpay.Fraction, error) {
	ids, weights, err := loadWeightTable(db)
	if err != nil {
		return nil, err
	}
	normalized := normalizeWeights(weights)
	shares := make(map[uint64]modpay.Fraction, len(ids))
	for i, id := range ids {
		shares[id] = modpay.Fraction{
			Numerator:   uint32(normalized[i]),
			Denominator: maxWeight,
		}
	}
	return shares, nil
}
