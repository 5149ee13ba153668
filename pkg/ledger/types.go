package ledger

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Role is the on-chain role recorded for an account.
type Role uint8

const (
	RoleNone Role = iota
	RolePatient
	RoleDoctor
	RoleInsurer
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RolePatient:
		return "patient"
	case RoleDoctor:
		return "doctor"
	case RoleInsurer:
		return "insurer"
	default:
		return "unknown"
	}
}

// ClaimStatus tracks a claim through its lifecycle.
type ClaimStatus uint8

const (
	ClaimPending ClaimStatus = iota
	ClaimApproved
	ClaimRejected
)

func (s ClaimStatus) String() string {
	switch s {
	case ClaimPending:
		return "pending"
	case ClaimApproved:
		return "approved"
	case ClaimRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Patient is the on-chain patient record. RecordCID references the medical
// record contents in the content store.
type Patient struct {
	Account   common.Address
	Name      string
	RecordCID string
	Exists    bool
}

// Doctor is the on-chain doctor record.
type Doctor struct {
	Account   common.Address
	Name      string
	Specialty string
	Exists    bool
}

// Insurer is the on-chain insurer record.
type Insurer struct {
	Account common.Address
	Name    string
	Exists  bool
}

// Policy is one insurance policy.
type Policy struct {
	ID      *big.Int
	Name    string
	Premium *big.Int
	Cover   *big.Int
	Insurer common.Address
	Exists  bool
}

// Claim is one insurance claim.
type Claim struct {
	ID       *big.Int
	Patient  common.Address
	PolicyID *big.Int
	Amount   *big.Int
	Reason   string
	Status   ClaimStatus
	Exists   bool
}

// RegisterPatientParams are the arguments for RegisterPatient.
type RegisterPatientParams struct {
	Name      string
	RecordCID string
}

// RegisterDoctorParams are the arguments for RegisterDoctor.
type RegisterDoctorParams struct {
	Name      string
	Specialty string
}

// RegisterInsurerParams are the arguments for RegisterInsurer.
type RegisterInsurerParams struct {
	Name string
}

// CreatePolicyParams are the arguments for CreatePolicy.
type CreatePolicyParams struct {
	Name    string
	Premium *big.Int
	Cover   *big.Int
}

// FileClaimParams are the arguments for FileClaim.
type FileClaimParams struct {
	PolicyID *big.Int
	Amount   *big.Int
	Reason   string
}

// Confirmation is the terminal result of a write operation.
type Confirmation struct {
	TxHash string
}

var (
	// ErrNoTransactor is returned by writes on the Ethereum backend when no
	// signing key was configured via WithTransactor.
	ErrNoTransactor = errors.New("ledger: no transactor configured")
	// ErrTxReverted signals that a submitted transaction was mined but
	// reverted.
	ErrTxReverted = errors.New("ledger: transaction reverted")
)
