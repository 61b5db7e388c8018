package modreg

import (
	"encoding/binary"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

// maxNameLength bounds the module name, so a single record cannot grow
// without limit.
const maxNameLength = 256

// Module is a single registry record.
type Module struct {
	// ID is the unique numeric identifier of the module.
	ID uint64

	// Owner is the account that controls the module and receives its
	// payouts.
	Owner modpay.Address

	// Name is a human readable module name.
	Name string
}

// Validate returns an error if the record cannot be persisted.
func (m *Module) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner address")
	}
	if len(m.Name) > maxNameLength {
		return errors.Wrap(errors.ErrModel, "name too long")
	}
	return nil
}

// Marshal returns the deterministic binary representation of the record.
func (m *Module) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, 0, 8+1+len(m.Owner)+2+len(m.Name))
	var b8 [8]byte
	binary.BigEndian.PutUint64(b8[:], m.ID)
	raw = append(raw, b8[:]...)
	raw = append(raw, byte(len(m.Owner)))
	raw = append(raw, m.Owner...)
	var b2 [2]byte
	binary.BigEndian.PutUint16(b2[:], uint16(len(m.Name)))
	raw = append(raw, b2[:]...)
	raw = append(raw, m.Name...)
	return raw, nil
}

// Unmarshal loads the record from its binary representation.
func (m *Module) Unmarshal(raw []byte) error {
	if len(raw) < 9 {
		return errors.Wrap(errors.ErrInput, "malformed module record")
	}
	m.ID = binary.BigEndian.Uint64(raw[:8])
	raw = raw[8:]

	ownerLen := int(raw[0])
	raw = raw[1:]
	if len(raw) < ownerLen+2 {
		return errors.Wrap(errors.ErrInput, "malformed module record")
	}
	m.Owner = modpay.Address(raw[:ownerLen]).Clone()
	raw = raw[ownerLen:]

	nameLen := int(binary.BigEndian.Uint16(raw[:2]))
	raw = raw[2:]
	if len(raw) != nameLen {
		return errors.Wrap(errors.ErrInput, "malformed module record")
	}
	m.Name = string(raw)
	return nil
}

// modulePrefix is the key space of all module records. Records are stored
// under their big endian encoded id, so iteration order is ascending id
// order.
const modulePrefix = "modreg:m:"

func moduleKey(id uint64) []byte {
	key := make([]byte, len(modulePrefix)+8)
	copy(key, modulePrefix)
	binary.BigEndian.PutUint64(key[len(modulePrefix):], id)
	return key
}

// prefixRange turns a prefix into (start, end) to use with an iterator.
func prefixRange(prefix []byte) ([]byte, []byte) {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}
