package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Resolution modes reported by Client.Mode.
const (
	ModeEth  = "eth"
	ModeMock = "mock"
)

// Provider is the subset of an Ethereum RPC client the ledger needs.
// *ethclient.Client satisfies it.
type Provider interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Backend is the operation surface shared by the Ethereum-bound and the
// simulated contract.
type Backend interface {
	Name(ctx context.Context) (string, error)
	Login(ctx context.Context, account common.Address) (Role, error)
	Patient(ctx context.Context, account common.Address) (*Patient, error)
	Doctor(ctx context.Context, account common.Address) (*Doctor, error)
	Insurer(ctx context.Context, account common.Address) (*Insurer, error)
	Patients(ctx context.Context) ([]common.Address, error)
	Doctors(ctx context.Context) ([]common.Address, error)
	Policies(ctx context.Context) ([]*big.Int, error)
	Claims(ctx context.Context) ([]*big.Int, error)
	Policy(ctx context.Context, id *big.Int) (*Policy, error)
	Claim(ctx context.Context, id *big.Int) (*Claim, error)

	RegisterPatient(ctx context.Context, params RegisterPatientParams) (*PendingTx, error)
	RegisterDoctor(ctx context.Context, params RegisterDoctorParams) (*PendingTx, error)
	RegisterInsurer(ctx context.Context, params RegisterInsurerParams) (*PendingTx, error)
	GrantAccess(ctx context.Context, doctor common.Address) (*PendingTx, error)
	RevokeAccess(ctx context.Context, doctor common.Address) (*PendingTx, error)
	CreatePolicy(ctx context.Context, params CreatePolicyParams) (*PendingTx, error)
	BuyPolicy(ctx context.Context, policyID *big.Int) (*PendingTx, error)
	FileClaim(ctx context.Context, params FileClaimParams) (*PendingTx, error)
	ApproveClaim(ctx context.Context, claimID *big.Int) (*PendingTx, error)
	RejectClaim(ctx context.Context, claimID *big.Int) (*PendingTx, error)
}

// Client is the resolved ledger handle. Whether it is backed by a live
// contract or the simulation is transparent to callers; Mode exists for
// observability only.
type Client struct {
	backend Backend
	mode    string
	address common.Address
}

// Bind constructs a client bound to a deployed contract address.
func Bind(address common.Address, provider Provider, opts ...EthOption) *Client {
	return &Client{
		backend: newEthBackend(address, provider, opts...),
		mode:    ModeEth,
		address: address,
	}
}

// NewWithBackend wraps a custom backend; used by tests.
func NewWithBackend(b Backend, mode string) *Client {
	return &Client{backend: b, mode: mode}
}

// Mode reports which backend variant is active ("eth" or "mock").
func (c *Client) Mode() string {
	if c == nil {
		return ""
	}
	return c.mode
}

// Address reports the bound contract address; the zero address for the
// simulated variant.
func (c *Client) Address() common.Address {
	if c == nil {
		return common.Address{}
	}
	return c.address
}

func (c *Client) ready() error {
	if c == nil || c.backend == nil {
		return fmt.Errorf("ledger: client is nil")
	}
	return nil
}

// Name returns the contract's self-reported name. Used as the liveness probe.
func (c *Client) Name(ctx context.Context) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	return c.backend.Name(ctx)
}

// Login looks up the role registered for an account.
func (c *Client) Login(ctx context.Context, account common.Address) (Role, error) {
	if err := c.ready(); err != nil {
		return RoleNone, err
	}
	return c.backend.Login(ctx, account)
}

// Patient fetches a patient record.
func (c *Client) Patient(ctx context.Context, account common.Address) (*Patient, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Patient(ctx, account)
}

// Doctor fetches a doctor record.
func (c *Client) Doctor(ctx context.Context, account common.Address) (*Doctor, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Doctor(ctx, account)
}

// Insurer fetches an insurer record.
func (c *Client) Insurer(ctx context.Context, account common.Address) (*Insurer, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Insurer(ctx, account)
}

// Patients enumerates registered patient accounts.
func (c *Client) Patients(ctx context.Context) ([]common.Address, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Patients(ctx)
}

// Doctors enumerates registered doctor accounts.
func (c *Client) Doctors(ctx context.Context) ([]common.Address, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Doctors(ctx)
}

// Policies enumerates policy IDs.
func (c *Client) Policies(ctx context.Context) ([]*big.Int, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Policies(ctx)
}

// Claims enumerates claim IDs.
func (c *Client) Claims(ctx context.Context) ([]*big.Int, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Claims(ctx)
}

// Policy fetches one policy by ID.
func (c *Client) Policy(ctx context.Context, id *big.Int) (*Policy, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Policy(ctx, id)
}

// Claim fetches one claim by ID.
func (c *Client) Claim(ctx context.Context, id *big.Int) (*Claim, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Claim(ctx, id)
}

// RegisterPatient registers the caller as a patient.
func (c *Client) RegisterPatient(ctx context.Context, params RegisterPatientParams) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.RegisterPatient(ctx, params)
}

// RegisterDoctor registers the caller as a doctor.
func (c *Client) RegisterDoctor(ctx context.Context, params RegisterDoctorParams) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.RegisterDoctor(ctx, params)
}

// RegisterInsurer registers the caller as an insurer.
func (c *Client) RegisterInsurer(ctx context.Context, params RegisterInsurerParams) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.RegisterInsurer(ctx, params)
}

// GrantAccess permits a doctor to read the caller's records.
func (c *Client) GrantAccess(ctx context.Context, doctor common.Address) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.GrantAccess(ctx, doctor)
}

// RevokeAccess withdraws a previously granted permit.
func (c *Client) RevokeAccess(ctx context.Context, doctor common.Address) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.RevokeAccess(ctx, doctor)
}

// CreatePolicy publishes a new insurance policy.
func (c *Client) CreatePolicy(ctx context.Context, params CreatePolicyParams) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.CreatePolicy(ctx, params)
}

// BuyPolicy purchases an existing policy for the caller.
func (c *Client) BuyPolicy(ctx context.Context, policyID *big.Int) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.BuyPolicy(ctx, policyID)
}

// FileClaim files a claim against a purchased policy.
func (c *Client) FileClaim(ctx context.Context, params FileClaimParams) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.FileClaim(ctx, params)
}

// ApproveClaim approves a pending claim.
func (c *Client) ApproveClaim(ctx context.Context, claimID *big.Int) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.ApproveClaim(ctx, claimID)
}

// RejectClaim rejects a pending claim.
func (c *Client) RejectClaim(ctx context.Context, claimID *big.Int) (*PendingTx, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.RejectClaim(ctx, claimID)
}
