package ledger

import "context"

// PendingTx tracks a submitted write operation. Accepted delivers the
// transaction hash once the ledger has taken the transaction, always before
// Wait returns; Wait blocks until the final Confirmation. A PendingTx
// resolves exactly once.
type PendingTx struct {
	accepted chan string
	done     chan struct{}
	conf     *Confirmation
	err      error
}

func newPendingTx() *PendingTx {
	return &PendingTx{
		accepted: make(chan string, 1),
		done:     make(chan struct{}),
	}
}

// accept records the pre-confirmation notification. The channel is buffered
// so the send never blocks and the value is never dropped.
func (p *PendingTx) accept(txHash string) {
	select {
	case p.accepted <- txHash:
	default:
	}
}

// finish resolves the transaction. Must be called after accept and at most
// once.
func (p *PendingTx) finish(conf *Confirmation, err error) {
	p.conf = conf
	p.err = err
	close(p.done)
}

// Accepted returns a channel that delivers the transaction hash once the
// transaction has been taken for processing.
func (p *PendingTx) Accepted() <-chan string {
	return p.accepted
}

// Wait blocks until the transaction confirms, the backend reports a failure,
// or ctx is done.
func (p *PendingTx) Wait(ctx context.Context) (*Confirmation, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return p.conf, p.err
	}
}
