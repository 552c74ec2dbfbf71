package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaffleBuiltinRegistered(t *testing.T) {
	b, ok := GetBuiltin("raffle")
	require.True(t, ok)
	assert.Equal(t, "Raffle", b.Name)

	parsed, err := b.Parse()
	require.NoError(t, err)
	assert.Len(t, parsed.Methods, 4)

	all := AllBuiltins()
	require.NotEmpty(t, all)
	assert.Equal(t, "raffle", all[0].ID)
}

func TestRaffleABIShape(t *testing.T) {
	m := RaffleABI().Methods

	assert.True(t, m[FnEnterRaffle].IsPayable())
	assert.False(t, m[FnEnterRaffle].IsConstant())
	assert.Empty(t, m[FnEnterRaffle].Inputs)

	for _, fn := range []string{FnGetEntranceFee, FnGetNumberOfPlayers, FnGetRecentWinner} {
		assert.True(t, m[fn].IsConstant(), fn)
		assert.Len(t, m[fn].Outputs, 1, fn)
	}
	assert.Equal(t, "uint256", m[FnGetEntranceFee].Outputs[0].Type.String())
	assert.Equal(t, "address", m[FnGetRecentWinner].Outputs[0].Type.String())
}

func TestParseInvalidBuiltin(t *testing.T) {
	_, err := BuiltinKind{ID: "broken", JSON: []byte("{")}.Parse()
	assert.Error(t, err)
}

func TestSelectorKnownValues(t *testing.T) {
	assert.Equal(t, "0xa9059cbb", Selector("transfer(address,uint256)"))
	assert.Equal(t, "0x70a08231", Selector("balanceOf(address)"))
}

func TestFunctionsMatchABISelectors(t *testing.T) {
	fns := Functions(RaffleABI())
	require.Len(t, fns, 4)

	names := make([]string, len(fns))
	for i, f := range fns {
		names[i] = f.Name
		assert.Equal(t, hexutil.Encode(RaffleABI().Methods[f.Name].ID), f.Selector, f.Name)
	}
	assert.Equal(t, []string{FnEnterRaffle, FnGetEntranceFee, FnGetNumberOfPlayers, FnGetRecentWinner}, names)

	assert.Equal(t, "enterRaffle()", fns[0].Signature)
	assert.Equal(t, "payable", fns[0].Mutability)
	assert.Equal(t, "", fns[0].Returns())
	assert.Equal(t, "(address)", fns[3].Returns())
}

// ---------------------------------------------------------------------------
// address book
// ---------------------------------------------------------------------------

func TestDefaultAddressBookHasLocalhost(t *testing.T) {
	book := DefaultAddressBook()
	addr, ok := book.Lookup("31337")
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), addr)

	_, ok = book.Lookup("1")
	assert.False(t, ok)
}

func TestLookupUsesFirstEntry(t *testing.T) {
	book := AddressBook{"5": {
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	}}
	addr, ok := book.Lookup("5")
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), addr)
}

func TestLookupEmptyList(t *testing.T) {
	_, ok := AddressBook{"5": {}}.Lookup("5")
	assert.False(t, ok)
}

func TestParseAddressBookValidation(t *testing.T) {
	_, err := ParseAddressBook([]byte(`{"0x7a69": ["0x5FbDB2315678afecb367f032d93F642f64180aa3"]}`))
	assert.Error(t, err, "hex chain id")

	_, err = ParseAddressBook([]byte(`{"31337": ["0x5FbD"]}`))
	assert.Error(t, err, "short address")

	_, err = ParseAddressBook([]byte(`[]`))
	assert.Error(t, err)
}

func TestLoadAddressBookFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"11155111": ["0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"],
		"31337": ["0x5FbDB2315678afecb367f032d93F642f64180aa3"],
		"5": []
	}`), 0o600))

	book, err := LoadAddressBook(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "31337", "11155111"}, book.ChainIDs())

	_, err = LoadAddressBook(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
