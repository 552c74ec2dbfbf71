package cmd

import (
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
	"github.com/Mohsinsiddi/w3raffle/internal/ui"
	"github.com/spf13/cobra"
)

var addressesCmd = &cobra.Command{
	Use:   "addresses",
	Short: "Print the raffle address table",
	Long: `Print the chain id → raffle address table in use: the built-in one, or
the file named by the address_file config key. Only the first address of
each chain is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := loadAddressBook()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		source := "built-in"
		if cfg.AddressFile != "" {
			source = cfg.AddressFile
		}

		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "Chain ID", Width: 10},
			{Title: "Network", Width: 16},
			{Title: "Raffle", Width: 42},
			{Title: "Unused", Width: 8},
		})
		for _, id := range book.ChainIDs() {
			network := ""
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				if c, err := reg.GetByChainID(n); err == nil {
					network = c.DisplayName
				}
			}
			addrs := book[id]
			first := ui.Meta("none")
			if len(addrs) > 0 {
				first = addrs[0]
			}
			unused := ""
			if len(addrs) > 1 {
				unused = "+" + strconv.Itoa(len(addrs)-1)
			}
			t.AddRow(ui.Row{id, ui.ChainName(network), first, unused})
		}
		fmt.Fprint(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d chain(s), source: %s", len(book), source)))
		return nil
	},
}
