package contract

import (
	_ "embed"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Raffle function names.
//
//	enterRaffle()         payable
//	getEntranceFee()      view returns (uint256)
//	getNumberOfPlayers()  view returns (uint256)
//	getRecentWinner()     view returns (address)
const (
	FnEnterRaffle        = "enterRaffle"
	FnGetEntranceFee     = "getEntranceFee"
	FnGetNumberOfPlayers = "getNumberOfPlayers"
	FnGetRecentWinner    = "getRecentWinner"
)

//go:embed abi/raffle.json
var raffleJSON []byte

var raffleABI abi.ABI

func init() {
	b := BuiltinKind{
		ID:          "raffle",
		Name:        "Raffle",
		Description: "Lottery contract: pay the entrance fee to enter, read fee, player count and last winner.",
		JSON:        raffleJSON,
	}
	parsed, err := b.Parse()
	if err != nil {
		panic(err)
	}
	raffleABI = parsed
	RegisterBuiltin(b)
}

// RaffleABI returns the parsed raffle ABI.
func RaffleABI() abi.ABI { return raffleABI }
