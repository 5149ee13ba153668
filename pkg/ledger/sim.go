package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ddhhhkj/medichain-fixed/internal/devseed"
)

// Defaults for the simulated confirmation flow; roughly the cadence of a
// local development chain.
const (
	DefaultSimAcceptDelay  = 300 * time.Millisecond
	DefaultSimConfirmDelay = 1200 * time.Millisecond
)

const simContractName = "MediChain"

// SimOptions tunes the simulated contract. The zero value uses the default
// delays and an unseeded ledger.
type SimOptions struct {
	AcceptDelay  time.Duration
	ConfirmDelay time.Duration
	Seed         *devseed.LedgerSeed
}

// NewSimulated returns a client backed by the in-memory contract simulation.
// Reads answer immediately with fixed or seeded values; writes always
// succeed, confirming after an artificial delay with a synthetic transaction
// hash that is stable per operation.
func NewSimulated(opts *SimOptions) *Client {
	sim := &simLedger{
		acceptDelay:  DefaultSimAcceptDelay,
		confirmDelay: DefaultSimConfirmDelay,
	}
	if opts != nil {
		if opts.AcceptDelay > 0 {
			sim.acceptDelay = opts.AcceptDelay
		}
		if opts.ConfirmDelay > 0 {
			sim.confirmDelay = opts.ConfirmDelay
		}
		if opts.Seed != nil {
			sim.applySeed(opts.Seed)
		}
	}
	return NewWithBackend(sim, ModeMock)
}

// simLedger stands in for the deployed contract. All state is assembled at
// construction and read-only afterwards, so no locking is needed.
type simLedger struct {
	acceptDelay  time.Duration
	confirmDelay time.Duration

	patients map[common.Address]Patient
	doctors  map[common.Address]Doctor
	insurers map[common.Address]Insurer
	policies map[uint64]Policy
	claims   map[uint64]Claim

	patientList []common.Address
	doctorList  []common.Address
	policyIDs   []*big.Int
	claimIDs    []*big.Int
}

func (s *simLedger) applySeed(seed *devseed.LedgerSeed) {
	s.patients = make(map[common.Address]Patient, len(seed.Patients))
	for _, p := range seed.Patients {
		addr := common.HexToAddress(p.Account)
		s.patients[addr] = Patient{Account: addr, Name: p.Name, RecordCID: p.RecordCID, Exists: true}
		s.patientList = append(s.patientList, addr)
	}
	s.doctors = make(map[common.Address]Doctor, len(seed.Doctors))
	for _, d := range seed.Doctors {
		addr := common.HexToAddress(d.Account)
		s.doctors[addr] = Doctor{Account: addr, Name: d.Name, Specialty: d.Specialty, Exists: true}
		s.doctorList = append(s.doctorList, addr)
	}
	s.insurers = make(map[common.Address]Insurer, len(seed.Insurers))
	for _, ins := range seed.Insurers {
		addr := common.HexToAddress(ins.Account)
		s.insurers[addr] = Insurer{Account: addr, Name: ins.Name, Exists: true}
	}
	s.policies = make(map[uint64]Policy, len(seed.Policies))
	for _, p := range seed.Policies {
		s.policies[p.ID] = Policy{
			ID:      new(big.Int).SetUint64(p.ID),
			Name:    p.Name,
			Premium: new(big.Int).SetUint64(p.Premium),
			Cover:   new(big.Int).SetUint64(p.Cover),
			Insurer: common.HexToAddress(p.Insurer),
			Exists:  true,
		}
		s.policyIDs = append(s.policyIDs, new(big.Int).SetUint64(p.ID))
	}
	s.claims = make(map[uint64]Claim, len(seed.Claims))
	for _, c := range seed.Claims {
		status := ClaimPending
		switch c.Status {
		case "approved":
			status = ClaimApproved
		case "rejected":
			status = ClaimRejected
		}
		s.claims[c.ID] = Claim{
			ID:       new(big.Int).SetUint64(c.ID),
			Patient:  common.HexToAddress(c.Patient),
			PolicyID: new(big.Int).SetUint64(c.PolicyID),
			Amount:   new(big.Int).SetUint64(c.Amount),
			Status:   status,
			Exists:   true,
		}
		s.claimIDs = append(s.claimIDs, new(big.Int).SetUint64(c.ID))
	}
}

func (s *simLedger) Name(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return simContractName, nil
}

func (s *simLedger) Login(ctx context.Context, account common.Address) (Role, error) {
	if err := ctx.Err(); err != nil {
		return RoleNone, err
	}
	if _, ok := s.doctors[account]; ok {
		return RoleDoctor, nil
	}
	if _, ok := s.insurers[account]; ok {
		return RoleInsurer, nil
	}
	return RolePatient, nil
}

func (s *simLedger) Patient(ctx context.Context, account common.Address) (*Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p, ok := s.patients[account]; ok {
		return &p, nil
	}
	return &Patient{Account: account, Name: "Sample Patient", RecordCID: "QmSimulatedRecord", Exists: true}, nil
}

func (s *simLedger) Doctor(ctx context.Context, account common.Address) (*Doctor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d, ok := s.doctors[account]; ok {
		return &d, nil
	}
	return &Doctor{Account: account, Name: "Sample Doctor", Specialty: "General", Exists: true}, nil
}

func (s *simLedger) Insurer(ctx context.Context, account common.Address) (*Insurer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ins, ok := s.insurers[account]; ok {
		return &ins, nil
	}
	return &Insurer{Account: account, Name: "Sample Insurer", Exists: true}, nil
}

func (s *simLedger) Patients(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]common.Address{}, s.patientList...), nil
}

func (s *simLedger) Doctors(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]common.Address{}, s.doctorList...), nil
}

func (s *simLedger) Policies(ctx context.Context) ([]*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]*big.Int{}, s.policyIDs...), nil
}

func (s *simLedger) Claims(ctx context.Context) ([]*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]*big.Int{}, s.claimIDs...), nil
}

func (s *simLedger) Policy(ctx context.Context, id *big.Int) (*Policy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id != nil && id.IsUint64() {
		if p, ok := s.policies[id.Uint64()]; ok {
			return &p, nil
		}
	}
	return &Policy{ID: id, Name: "Sample Policy", Premium: big.NewInt(0), Cover: big.NewInt(0), Exists: true}, nil
}

func (s *simLedger) Claim(ctx context.Context, id *big.Int) (*Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id != nil && id.IsUint64() {
		if c, ok := s.claims[id.Uint64()]; ok {
			return &c, nil
		}
	}
	return &Claim{ID: id, PolicyID: big.NewInt(0), Amount: big.NewInt(0), Status: ClaimPending, Exists: true}, nil
}

// write mimics the asynchronous confirmation flow: the accepted notification
// fires after the short delay, the confirmation after the long one, and the
// simulation never reports an error.
func (s *simLedger) write(ctx context.Context, op string) (*PendingTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pending := newPendingTx()
	txHash := simTxHash(op)
	go func() {
		time.Sleep(s.acceptDelay)
		pending.accept(txHash)
		time.Sleep(s.confirmDelay)
		pending.finish(&Confirmation{TxHash: txHash}, nil)
	}()
	return pending, nil
}

// simTxHash derives the synthetic transaction hash for an operation. Stable
// across calls, distinct per operation.
func simTxHash(op string) string {
	sum := sha256.Sum256([]byte("medichain/sim/" + op))
	return "0x" + hex.EncodeToString(sum[:])
}

func (s *simLedger) RegisterPatient(ctx context.Context, _ RegisterPatientParams) (*PendingTx, error) {
	return s.write(ctx, "registerPatient")
}

func (s *simLedger) RegisterDoctor(ctx context.Context, _ RegisterDoctorParams) (*PendingTx, error) {
	return s.write(ctx, "registerDoctor")
}

func (s *simLedger) RegisterInsurer(ctx context.Context, _ RegisterInsurerParams) (*PendingTx, error) {
	return s.write(ctx, "registerInsurer")
}

func (s *simLedger) GrantAccess(ctx context.Context, _ common.Address) (*PendingTx, error) {
	return s.write(ctx, "grantAccess")
}

func (s *simLedger) RevokeAccess(ctx context.Context, _ common.Address) (*PendingTx, error) {
	return s.write(ctx, "revokeAccess")
}

func (s *simLedger) CreatePolicy(ctx context.Context, _ CreatePolicyParams) (*PendingTx, error) {
	return s.write(ctx, "createPolicy")
}

func (s *simLedger) BuyPolicy(ctx context.Context, _ *big.Int) (*PendingTx, error) {
	return s.write(ctx, "buyPolicy")
}

func (s *simLedger) FileClaim(ctx context.Context, _ FileClaimParams) (*PendingTx, error) {
	return s.write(ctx, "fileClaim")
}

func (s *simLedger) ApproveClaim(ctx context.Context, _ *big.Int) (*PendingTx, error) {
	return s.write(ctx, "approveClaim")
}

func (s *simLedger) RejectClaim(ctx context.Context, _ *big.Int) (*PendingTx, error) {
	return s.write(ctx, "rejectClaim")
}
