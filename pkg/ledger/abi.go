package ledger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"

	_ "embed"
)

//go:embed medichain.abi.json
var contractABIJSON string

var (
	abiOnce   sync.Once
	parsedABI abi.ABI
)

// ContractABI returns the parsed MediChain contract interface.
func ContractABI() abi.ABI {
	abiOnce.Do(func() {
		parsed, err := abi.JSON(strings.NewReader(contractABIJSON))
		if err != nil {
			panic(fmt.Sprintf("ledger: embedded ABI invalid: %v", err))
		}
		parsedABI = parsed
	})
	return parsedABI
}
