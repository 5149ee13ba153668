package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EthOption configures the Ethereum-bound backend.
type EthOption func(*ethBackend)

// WithTransactor supplies the signing configuration used for write
// operations. Without it, reads work and writes fail with ErrNoTransactor.
func WithTransactor(opts *bind.TransactOpts) EthOption {
	return func(b *ethBackend) {
		b.transactor = opts
	}
}

// ethBackend invokes the deployed MediChain contract through a
// bind.BoundContract.
type ethBackend struct {
	address    common.Address
	provider   Provider
	contract   *bind.BoundContract
	transactor *bind.TransactOpts
}

func newEthBackend(address common.Address, provider Provider, opts ...EthOption) *ethBackend {
	b := &ethBackend{
		address:  address,
		provider: provider,
		contract: bind.NewBoundContract(address, ContractABI(), provider, provider, provider),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *ethBackend) call(ctx context.Context, method string, params ...any) ([]any, error) {
	var out []any
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("ledger: call %s: %w", method, err)
	}
	return out, nil
}

func (b *ethBackend) Name(ctx context.Context) (string, error) {
	out, err := b.call(ctx, "name")
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (b *ethBackend) Login(ctx context.Context, account common.Address) (Role, error) {
	out, err := b.call(ctx, "login", account)
	if err != nil {
		return RoleNone, err
	}
	return Role(*abi.ConvertType(out[0], new(uint8)).(*uint8)), nil
}

func (b *ethBackend) Patient(ctx context.Context, account common.Address) (*Patient, error) {
	out, err := b.call(ctx, "getPatient", account)
	if err != nil {
		return nil, err
	}
	return &Patient{
		Account:   account,
		Name:      *abi.ConvertType(out[0], new(string)).(*string),
		RecordCID: *abi.ConvertType(out[1], new(string)).(*string),
		Exists:    *abi.ConvertType(out[2], new(bool)).(*bool),
	}, nil
}

func (b *ethBackend) Doctor(ctx context.Context, account common.Address) (*Doctor, error) {
	out, err := b.call(ctx, "getDoctor", account)
	if err != nil {
		return nil, err
	}
	return &Doctor{
		Account:   account,
		Name:      *abi.ConvertType(out[0], new(string)).(*string),
		Specialty: *abi.ConvertType(out[1], new(string)).(*string),
		Exists:    *abi.ConvertType(out[2], new(bool)).(*bool),
	}, nil
}

func (b *ethBackend) Insurer(ctx context.Context, account common.Address) (*Insurer, error) {
	out, err := b.call(ctx, "getInsurer", account)
	if err != nil {
		return nil, err
	}
	return &Insurer{
		Account: account,
		Name:    *abi.ConvertType(out[0], new(string)).(*string),
		Exists:  *abi.ConvertType(out[1], new(bool)).(*bool),
	}, nil
}

func (b *ethBackend) Patients(ctx context.Context) ([]common.Address, error) {
	return b.addressList(ctx, "getPatientList")
}

func (b *ethBackend) Doctors(ctx context.Context) ([]common.Address, error) {
	return b.addressList(ctx, "getDoctorList")
}

func (b *ethBackend) addressList(ctx context.Context, method string) ([]common.Address, error) {
	out, err := b.call(ctx, method)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}

func (b *ethBackend) Policies(ctx context.Context) ([]*big.Int, error) {
	return b.idList(ctx, "getPolicyIds")
}

func (b *ethBackend) Claims(ctx context.Context) ([]*big.Int, error) {
	return b.idList(ctx, "getClaimIds")
}

func (b *ethBackend) idList(ctx context.Context, method string) ([]*big.Int, error) {
	out, err := b.call(ctx, method)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

func (b *ethBackend) Policy(ctx context.Context, id *big.Int) (*Policy, error) {
	out, err := b.call(ctx, "getPolicy", id)
	if err != nil {
		return nil, err
	}
	return &Policy{
		ID:      id,
		Name:    *abi.ConvertType(out[0], new(string)).(*string),
		Premium: *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		Cover:   *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		Insurer: *abi.ConvertType(out[3], new(common.Address)).(*common.Address),
		Exists:  *abi.ConvertType(out[4], new(bool)).(*bool),
	}, nil
}

func (b *ethBackend) Claim(ctx context.Context, id *big.Int) (*Claim, error) {
	out, err := b.call(ctx, "getClaim", id)
	if err != nil {
		return nil, err
	}
	return &Claim{
		ID:       id,
		Patient:  *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		PolicyID: *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		Amount:   *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		Reason:   *abi.ConvertType(out[3], new(string)).(*string),
		Status:   ClaimStatus(*abi.ConvertType(out[4], new(uint8)).(*uint8)),
		Exists:   *abi.ConvertType(out[5], new(bool)).(*bool),
	}, nil
}

// transact submits a state-changing call. The accepted notification fires on
// submission; confirmation tracks the receipt on the caller's context.
func (b *ethBackend) transact(ctx context.Context, method string, params ...any) (*PendingTx, error) {
	if b.transactor == nil {
		return nil, ErrNoTransactor
	}
	opts := *b.transactor
	opts.Context = ctx

	tx, err := b.contract.Transact(&opts, method, params...)
	if err != nil {
		return nil, fmt.Errorf("ledger: submit %s: %w", method, err)
	}

	pending := newPendingTx()
	pending.accept(tx.Hash().Hex())
	go func() {
		receipt, err := bind.WaitMined(ctx, b.provider, tx)
		switch {
		case err != nil:
			pending.finish(nil, fmt.Errorf("ledger: wait %s: %w", method, err))
		case receipt.Status != types.ReceiptStatusSuccessful:
			pending.finish(nil, fmt.Errorf("%w: %s", ErrTxReverted, method))
		default:
			pending.finish(&Confirmation{TxHash: tx.Hash().Hex()}, nil)
		}
	}()
	return pending, nil
}

func (b *ethBackend) RegisterPatient(ctx context.Context, params RegisterPatientParams) (*PendingTx, error) {
	return b.transact(ctx, "registerPatient", params.Name, params.RecordCID)
}

func (b *ethBackend) RegisterDoctor(ctx context.Context, params RegisterDoctorParams) (*PendingTx, error) {
	return b.transact(ctx, "registerDoctor", params.Name, params.Specialty)
}

func (b *ethBackend) RegisterInsurer(ctx context.Context, params RegisterInsurerParams) (*PendingTx, error) {
	return b.transact(ctx, "registerInsurer", params.Name)
}

func (b *ethBackend) GrantAccess(ctx context.Context, doctor common.Address) (*PendingTx, error) {
	return b.transact(ctx, "grantAccess", doctor)
}

func (b *ethBackend) RevokeAccess(ctx context.Context, doctor common.Address) (*PendingTx, error) {
	return b.transact(ctx, "revokeAccess", doctor)
}

func (b *ethBackend) CreatePolicy(ctx context.Context, params CreatePolicyParams) (*PendingTx, error) {
	return b.transact(ctx, "createPolicy", params.Name, params.Premium, params.Cover)
}

func (b *ethBackend) BuyPolicy(ctx context.Context, policyID *big.Int) (*PendingTx, error) {
	return b.transact(ctx, "buyPolicy", policyID)
}

func (b *ethBackend) FileClaim(ctx context.Context, params FileClaimParams) (*PendingTx, error) {
	return b.transact(ctx, "fileClaim", params.PolicyID, params.Amount, params.Reason)
}

func (b *ethBackend) ApproveClaim(ctx context.Context, claimID *big.Int) (*PendingTx, error) {
	return b.transact(ctx, "approveClaim", claimID)
}

func (b *ethBackend) RejectClaim(ctx context.Context, claimID *big.Int) (*PendingTx, error) {
	return b.transact(ctx, "rejectClaim", claimID)
}
