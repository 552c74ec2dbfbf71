package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3raffle/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Open the interactive lottery page (default)",
	Long: `Open the interactive page: the header with the connection status, and
the lottery entrance widget below it.

  enter  enter the raffle paying the entrance fee
  r      refresh fee, players and recent winner
  c      reconnect
  q      quit

The diagnostic log is written to the config directory (w3raffle.log)
unless --log-file is given.`,
	Args: cobra.NoArgs,
	RunE: runPage,
}

func runPage(cmd *cobra.Command, args []string) error {
	s, err := newSession(logger)
	if err != nil {
		return err
	}
	book, err := loadAddressBook()
	if err != nil {
		return err
	}

	page := ui.NewPage(
		ui.NewHeader(s.Connect),
		ui.NewEntrance(book, s.Dial, ui.WithEntranceLogger(logger)),
	)
	p := tea.NewProgram(page, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running page: %w", err)
	}
	return nil
}
