package cmd

import (
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
	"github.com/Mohsinsiddi/w3raffle/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		book, err := loadAddressBook()
		if err != nil {
			return err
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 12},
			{Title: "Display", Width: 16},
			{Title: "Chain ID", Width: 10},
			{Title: "Currency", Width: 8},
			{Title: "RPCs", Width: 4},
			{Title: "Raffle", Width: 6},
		})
		for i, c := range reg.All() {
			id := strconv.FormatInt(c.ChainID, 10)
			deployed := ""
			if _, ok := book.Lookup(id); ok {
				deployed = ui.StyleSuccess.Render("✓")
			}
			rpcs := len(c.RPCs) + len(cfg.GetRPCs(c.Name))
			t.AddRow(ui.Row{
				ui.ChainName(c.Name),
				c.DisplayName,
				id,
				c.NativeCurrency,
				strconv.Itoa(rpcs),
				deployed,
			})
			if c.Name == cfg.DefaultNetwork {
				t.Marked = i
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d networks, * = default", len(reg.All()))))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <network>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		c, err := chain.NewRegistry().GetByName(name)
		if err != nil {
			return fmt.Errorf("network %q: %w (run `w3raffle network list`)", name, err)
		}
		cfg.DefaultNetwork = c.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Default network set to "+ui.ChainName(c.Label())))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}
