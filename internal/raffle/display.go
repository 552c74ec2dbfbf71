package raffle

import (
	"fmt"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
	"github.com/Mohsinsiddi/w3raffle/internal/contract"
	"go.uber.org/zap"
)

// Text shown by the widget.
const (
	Greeting     = "Hi from lottery entrance!"
	FallbackText = "No Raffle Address Detected!"
	EnterLabel   = "Enter Raffle"
)

// Field is one of the three values the widget reads.
type Field int

const (
	FieldEntranceFee Field = iota
	FieldNumPlayers
	FieldRecentWinner
)

// RefreshOrder is the order reads are issued in.
var RefreshOrder = []Field{FieldEntranceFee, FieldNumPlayers, FieldRecentWinner}

// Function returns the contract function backing f.
func (f Field) Function() string {
	switch f {
	case FieldEntranceFee:
		return contract.FnGetEntranceFee
	case FieldNumPlayers:
		return contract.FnGetNumberOfPlayers
	case FieldRecentWinner:
		return contract.FnGetRecentWinner
	}
	return ""
}

func (f Field) String() string {
	switch f {
	case FieldEntranceFee:
		return "entrance_fee"
	case FieldNumPlayers:
		return "num_players"
	case FieldRecentWinner:
		return "recent_winner"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Reading is the outcome of one read call.
type Reading struct {
	Field Field
	Value string
	Err   error
}

// Display holds the last successfully read values as strings. Fee and player
// count are smallest-unit integers.
type Display struct {
	EntranceFee  string
	NumPlayers   string
	RecentWinner string
}

// NewDisplay returns the initial display: every slot "0".
func NewDisplay() Display {
	return Display{EntranceFee: "0", NumPlayers: "0", RecentWinner: "0"}
}

// Apply stores a successful reading in its slot. A failed reading is logged
// and the slot keeps its previous value.
func (d *Display) Apply(r Reading, log *zap.SugaredLogger) {
	if r.Err != nil {
		log.Warnw("Read failed, keeping previous value", "field", r.Field.String(), "function", r.Field.Function(), "err", r.Err)
		return
	}
	switch r.Field {
	case FieldEntranceFee:
		d.EntranceFee = r.Value
	case FieldNumPlayers:
		d.NumPlayers = r.Value
	case FieldRecentWinner:
		d.RecentWinner = r.Value
	}
}

// EntranceFeeETH formats the entrance fee in whole currency units.
func (d Display) EntranceFeeETH() string {
	return chain.FormatEtherString(d.EntranceFee)
}
