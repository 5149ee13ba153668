// Package deploy holds the static table of MediChain contract deployments,
// keyed by chain ID. The table ships embedded in the binary; local
// deployments can override it with a YAML file. An entry whose address is
// the zero address is a placeholder and counts as not deployed.
package deploy

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	_ "embed"
)

//go:embed deployments.yaml
var embedded []byte

// Record is one deployment entry.
type Record struct {
	Address common.Address
}

// Deployed reports whether the record points at an actual deployment.
func (r Record) Deployed() bool {
	return r.Address != (common.Address{})
}

// Table maps chain IDs to deployment records. Immutable after load.
type Table struct {
	records map[string]Record
}

type tableFile struct {
	Networks map[string]struct {
		Address string `yaml:"address"`
	} `yaml:"networks"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table embedded in the binary.
func Default() *Table {
	defaultOnce.Do(func() {
		table, err := Parse(embedded)
		if err != nil {
			// The embedded table is validated by tests; failing here means
			// the binary shipped with a corrupt asset.
			panic(fmt.Sprintf("deploy: embedded table invalid: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// Load reads a deployment table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deploy: read %s: %w", path, err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("deploy: parse %s: %w", path, err)
	}
	return table, nil
}

// Parse decodes a deployment table from YAML.
func Parse(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("deploy: decode yaml: %w", err)
	}

	records := make(map[string]Record, len(file.Networks))
	for chainID, entry := range file.Networks {
		if _, ok := new(big.Int).SetString(chainID, 10); !ok {
			return nil, fmt.Errorf("deploy: invalid chain ID %q", chainID)
		}
		addr := strings.TrimSpace(entry.Address)
		if addr == "" {
			records[chainID] = Record{}
			continue
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("deploy: chain %s: invalid address %q", chainID, addr)
		}
		records[chainID] = Record{Address: common.HexToAddress(addr)}
	}
	return &Table{records: records}, nil
}

// Lookup returns the record for a chain ID and whether one exists.
func (t *Table) Lookup(chainID *big.Int) (Record, bool) {
	if t == nil || chainID == nil {
		return Record{}, false
	}
	rec, ok := t.records[chainID.String()]
	return rec, ok
}

// ChainIDs lists the chain IDs present in the table, for diagnostics.
func (t *Table) ChainIDs() []string {
	if t == nil {
		return nil
	}
	ids := make([]string, 0, len(t.records))
	for id := range t.records {
		ids = append(ids, id)
	}
	return ids
}
