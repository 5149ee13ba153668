// Package devseed loads JSON seed fixtures for the mock ledger, used by the
// sandbox and the env bootstrap to pre-populate simulated registries.
package devseed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LedgerSeed describes the initial contents of a mock ledger.
type LedgerSeed struct {
	Patients []PatientSeed `json:"patients"`
	Doctors  []DoctorSeed  `json:"doctors"`
	Insurers []InsurerSeed `json:"insurers"`
	Policies []PolicySeed  `json:"policies"`
	Claims   []ClaimSeed   `json:"claims"`
}

// PatientSeed is one pre-registered patient.
type PatientSeed struct {
	Account   string `json:"account"`
	Name      string `json:"name"`
	RecordCID string `json:"record_cid"`
}

// DoctorSeed is one pre-registered doctor.
type DoctorSeed struct {
	Account   string `json:"account"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// InsurerSeed is one pre-registered insurer.
type InsurerSeed struct {
	Account string `json:"account"`
	Name    string `json:"name"`
}

// PolicySeed is one pre-created insurance policy.
type PolicySeed struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Premium uint64 `json:"premium"`
	Cover   uint64 `json:"cover"`
	Insurer string `json:"insurer"`
}

// ClaimSeed is one pre-filed claim.
type ClaimSeed struct {
	ID       uint64 `json:"id"`
	Patient  string `json:"patient"`
	PolicyID uint64 `json:"policy_id"`
	Amount   uint64 `json:"amount"`
	Status   string `json:"status"`
}

// LoadLedgerSeed reads and validates a ledger seed file.
func LoadLedgerSeed(path string) (*LedgerSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}
	var seed LedgerSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("devseed: parse %s: %w", path, err)
	}
	for i, p := range seed.Patients {
		if strings.TrimSpace(p.Account) == "" {
			return nil, fmt.Errorf("devseed: patient %d missing account", i)
		}
	}
	for i, d := range seed.Doctors {
		if strings.TrimSpace(d.Account) == "" {
			return nil, fmt.Errorf("devseed: doctor %d missing account", i)
		}
	}
	for i, ins := range seed.Insurers {
		if strings.TrimSpace(ins.Account) == "" {
			return nil, fmt.Errorf("devseed: insurer %d missing account", i)
		}
	}
	for i, p := range seed.Policies {
		if p.ID == 0 {
			return nil, fmt.Errorf("devseed: policy %d missing id", i)
		}
	}
	for i, c := range seed.Claims {
		if c.ID == 0 {
			return nil, fmt.Errorf("devseed: claim %d missing id", i)
		}
	}
	return &seed, nil
}
