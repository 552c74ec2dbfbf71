package contract

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// Function summarises one ABI function for display.
type Function struct {
	Name       string
	Signature  string // canonical, e.g. "enterRaffle()"
	Selector   string // 0x-prefixed 4-byte selector
	Mutability string
	Outputs    []string
}

// Selector computes the 4-byte selector for a canonical signature.
func Selector(signature string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// Functions lists the functions of parsed sorted by name.
func Functions(parsed abi.ABI) []Function {
	out := make([]Function, 0, len(parsed.Methods))
	for _, m := range parsed.Methods {
		outputs := make([]string, len(m.Outputs))
		for i, o := range m.Outputs {
			outputs[i] = o.Type.String()
		}
		out = append(out, Function{
			Name:       m.RawName,
			Signature:  m.Sig,
			Selector:   Selector(m.Sig),
			Mutability: m.StateMutability,
			Outputs:    outputs,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Returns renders the output list, e.g. "(uint256)".
func (f Function) Returns() string {
	if len(f.Outputs) == 0 {
		return ""
	}
	return "(" + strings.Join(f.Outputs, ",") + ")"
}
