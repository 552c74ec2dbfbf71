package contract

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BuiltinKind describes a contract whose ABI is embedded in the binary. New
// built-ins register themselves via init() in their own <name>_abi.go file.
type BuiltinKind struct {
	ID          string // machine key, e.g. "raffle"
	Name        string // human label
	Description string // one-line summary shown by `w3raffle abi`
	JSON        []byte // raw ABI JSON
}

// Parse decodes the built-in's ABI JSON.
func (b BuiltinKind) Parse() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(b.JSON))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing %s ABI: %w", b.ID, err)
	}
	return parsed, nil
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin adds a built-in ABI to the global registry.
func RegisterBuiltin(b BuiltinKind) {
	builtinRegistry[b.ID] = b
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := make([]BuiltinKind, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
