package contract

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

//go:embed addresses.json
var defaultAddresses []byte

// AddressBook maps a decimal chain id to the raffle deployments on that chain.
// Only the first entry of each list is ever used.
type AddressBook map[string][]string

// DefaultAddressBook returns the address table compiled into the binary.
func DefaultAddressBook() AddressBook {
	book, err := ParseAddressBook(defaultAddresses)
	if err != nil {
		panic(err)
	}
	return book
}

// LoadAddressBook reads an address table from a JSON file.
func LoadAddressBook(path string) (AddressBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading address file: %w", err)
	}
	book, err := ParseAddressBook(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return book, nil
}

// ParseAddressBook decodes and validates an address table.
func ParseAddressBook(data []byte) (AddressBook, error) {
	var book AddressBook
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parsing address table: %w", err)
	}
	for id, addrs := range book {
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return nil, fmt.Errorf("chain id %q is not a decimal integer", id)
		}
		for _, a := range addrs {
			if !common.IsHexAddress(a) {
				return nil, fmt.Errorf("chain %s: invalid address %q", id, a)
			}
		}
	}
	return book, nil
}

// Lookup returns the first address listed for chainID.
func (b AddressBook) Lookup(chainID string) (common.Address, bool) {
	addrs, ok := b[chainID]
	if !ok || len(addrs) == 0 {
		return common.Address{}, false
	}
	return common.HexToAddress(addrs[0]), true
}

// ChainIDs returns the chain ids in the book, numerically sorted.
func (b AddressBook) ChainIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.ParseUint(ids[i], 10, 64)
		c, _ := strconv.ParseUint(ids[j], 10, 64)
		return a < c
	})
	return ids
}
