package raffle

import (
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/w3raffle/internal/contract"
	"github.com/ethereum/go-ethereum/common"
)

// Connection is the wallet/network context supplied by whoever connected the
// wallet. ChainIDHex is what eth_chainId reported, e.g. "0x7a69".
type Connection struct {
	Enabled    bool
	ChainIDHex string
}

// ChainID returns the chain id as a decimal string. ok is false when the hex
// value is missing or does not parse.
func (c Connection) ChainID() (string, bool) {
	s := strings.TrimSpace(c.ChainIDHex)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	if s == "" {
		return "", false
	}
	n, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}

// Resolve picks the raffle address for conn. It needs an enabled connection
// whose chain id is listed in book.
func Resolve(book contract.AddressBook, conn Connection) (common.Address, bool) {
	if !conn.Enabled {
		return common.Address{}, false
	}
	id, ok := conn.ChainID()
	if !ok {
		return common.Address{}, false
	}
	return book.Lookup(id)
}
