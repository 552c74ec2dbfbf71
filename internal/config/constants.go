package config

import "time"

// GasLimitContractCall is the EstimateGas fallback for a state-changing call
// when the node cannot simulate it.
const GasLimitContractCall = uint64(200_000)

// Timeouts shared by cmd and the interactive page.
const (
	RPCSelectTimeout = 10 * time.Second // endpoint benchmark at connect time
	ReadTimeout      = 15 * time.Second // one refresh (three reads)
	SendTimeout      = 30 * time.Second // build, sign and broadcast enterRaffle
	TxConfirmTimeout = 3 * time.Minute  // wait for the confirmation block
)
