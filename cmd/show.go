package cmd

import (
	"fmt"
	"io"

	"github.com/Mohsinsiddi/w3raffle/internal/raffle"
	"github.com/Mohsinsiddi/w3raffle/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the entrance fee, player count and recent winner",
	Long: `Connect once, resolve the raffle on the connected chain and print its
current state. Prints "No Raffle Address Detected!" when the chain has no
deployment in the address table.

Examples:
  w3raffle show
  w3raffle show --network sepolia`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, msg, err := connectWidget(cmd.Context())
		if err != nil {
			return err
		}
		printWidget(cmd.OutOrStdout(), w, msg)
		return nil
	},
}

// printWidget renders the widget for non-interactive commands.
func printWidget(out io.Writer, w *raffle.Widget, msg ui.ConnectionMsg) {
	fmt.Fprintln(out, ui.Meta(raffle.Greeting))

	addr, ok := w.Address()
	if !ok {
		fmt.Fprintln(out, ui.Warn(raffle.FallbackText))
		return
	}

	d := w.Display()
	pairs := [][2]string{
		{"Network", ui.ChainName(msg.Network)},
		{"Raffle", ui.Addr(addr.Hex())},
		{"Entrance Fee", ui.Val(d.EntranceFeeETH() + " ETH")},
		{"Players", ui.Val(d.NumPlayers)},
		{"Recent Winner", ui.Addr(d.RecentWinner)},
	}
	fmt.Fprintln(out, ui.KeyValueBlock("Smart Contract Lottery", pairs))
}
