package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3raffle/internal/contract"
	"github.com/Mohsinsiddi/w3raffle/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/sha3"
)

var abiCmd = &cobra.Command{
	Use:   "abi [builtin]",
	Short: "List the functions of a built-in ABI (default: raffle)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := "raffle"
		if len(args) > 0 {
			id = args[0]
		}
		b, ok := contract.GetBuiltin(id)
		if !ok {
			return fmt.Errorf("unknown built-in ABI %q (known: %s)", id, builtinIDs())
		}
		parsed, err := b.Parse()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.StyleTitle.Render(b.Name)+"  "+ui.Meta(b.Description))
		t := ui.NewTable([]ui.Column{
			{Title: "Selector", Width: 10},
			{Title: "Signature", Width: 24},
			{Title: "Mutability", Width: 10},
			{Title: "Returns", Width: 12},
		})
		for _, f := range contract.Functions(parsed) {
			t.AddRow(ui.Row{f.Selector, f.Signature, f.Mutability, f.Returns()})
		}
		fmt.Fprint(out, t.Render())
		return nil
	},
}

var abiSelectorCmd = &cobra.Command{
	Use:   "selector <signature-or-selector>",
	Short: "Compute or look up a 4-byte function selector",
	Long: `Compute a 4-byte function selector from a signature, or look up a
selector among the built-in ABIs.

Examples:
  w3raffle abi selector "transfer(address,uint256)"   # → 0xa9059cbb
  w3raffle abi selector "getPlayer(uint256 index)"
  w3raffle abi selector <selector from w3raffle abi>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		out := cmd.OutOrStdout()

		if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
			sig := lookupSelector(strings.ToLower(input))
			if sig == "" {
				sig = ui.Meta("unknown")
			}
			fmt.Fprintln(out, ui.KeyValueBlock("Selector Lookup", [][2]string{
				{"Selector", input},
				{"Function", ui.Val(sig)},
			}))
			return nil
		}

		sig := normalizeSignature(input)
		h := sha3.NewLegacyKeccak256()
		h.Write([]byte(sig))
		hash := h.Sum(nil)

		fmt.Fprintln(out, ui.KeyValueBlock("Function Selector", [][2]string{
			{"Signature", sig},
			{"Selector", ui.Val("0x" + hex.EncodeToString(hash[:4]))},
			{"Full Hash", "0x" + hex.EncodeToString(hash)},
		}))
		return nil
	},
}

// lookupSelector finds a selector among every built-in ABI.
func lookupSelector(selector string) string {
	for _, b := range contract.AllBuiltins() {
		parsed, err := b.Parse()
		if err != nil {
			continue
		}
		for _, f := range contract.Functions(parsed) {
			if f.Selector == selector {
				return f.Signature
			}
		}
	}
	return ""
}

func builtinIDs() string {
	var ids []string
	for _, b := range contract.AllBuiltins() {
		ids = append(ids, b.ID)
	}
	return strings.Join(ids, ", ")
}

// normalizeSignature removes parameter names, keeping only types.
// "transfer(address to, uint256 amount)" → "transfer(address,uint256)"
func normalizeSignature(sig string) string {
	parenIdx := strings.Index(sig, "(")
	if parenIdx < 0 || !strings.HasSuffix(sig, ")") {
		return strings.TrimSpace(sig)
	}

	name := strings.TrimSpace(sig[:parenIdx])
	paramStr := sig[parenIdx+1 : len(sig)-1]
	if strings.TrimSpace(paramStr) == "" {
		return name + "()"
	}

	var types []string
	for _, p := range strings.Split(paramStr, ",") {
		// Take only the first word (the type), skip the name.
		if parts := strings.Fields(p); len(parts) > 0 {
			types = append(types, parts[0])
		}
	}
	return name + "(" + strings.Join(types, ",") + ")"
}

func init() {
	abiCmd.AddCommand(abiSelectorCmd)
}
