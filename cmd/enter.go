package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/w3raffle/internal/notify"
	"github.com/Mohsinsiddi/w3raffle/internal/raffle"
	"github.com/Mohsinsiddi/w3raffle/internal/ui"
	"github.com/spf13/cobra"
)

var enterYes bool

var enterCmd = &cobra.Command{
	Use:   "enter",
	Short: "Enter the raffle paying the entrance fee",
	Long: `Read the current entrance fee, then call enterRaffle with exactly that
value attached. Waits for the confirmation, prints a notification and the
refreshed state.

The wallet must hold a key: w3raffle wallet add <name> --key <private-key>.

Examples:
  w3raffle enter
  w3raffle enter --yes --wallet deployer --network localhost`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		// The recorder holds the notification until the spinner is gone.
		rec := &notify.Recorder{}
		w, s, msg, err := connectWidget(cmd.Context(), raffle.WithSink(rec))
		if err != nil {
			return err
		}
		if _, ok := w.Address(); !ok {
			printWidget(out, w, msg)
			return nil
		}
		if s.wallet == nil {
			return errors.New("no wallet selected (add one with `w3raffle wallet add <name> --key <private-key>`)")
		}

		fee := w.Display().EntranceFeeETH()
		if !enterYes && !ui.ConfirmFrom(cmd.InOrStdin(), out, fmt.Sprintf("Enter raffle from %s for %s ETH?", s.wallet.Name, fee)) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}

		spin := ui.NewSpinnerTo(cmd.ErrOrStderr(), "Entering raffle…")
		spin.Start()
		hash, err := w.Enter(cmd.Context())
		spin.Stop()
		if err != nil {
			return fmt.Errorf("entering raffle: %w", err)
		}

		sink := notify.NewWriterSink(out, ui.RenderToast)
		for _, n := range rec.All() {
			sink.Dispatch(n)
		}
		fmt.Fprintln(out, ui.Success("Entered with tx "+hash.Hex()))
		if url := s.txURL(hash); url != "" {
			fmt.Fprintln(out, ui.Hint(url))
		}
		printWidget(out, w, msg)
		return nil
	},
}

func init() {
	enterCmd.Flags().BoolVarP(&enterYes, "yes", "y", false, "skip the confirmation prompt")
}
