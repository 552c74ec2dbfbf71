package raffle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
	"github.com/Mohsinsiddi/w3raffle/internal/config"
	"github.com/Mohsinsiddi/w3raffle/internal/contract"
	"github.com/Mohsinsiddi/w3raffle/internal/logging"
	"github.com/Mohsinsiddi/w3raffle/internal/metrics"
	"github.com/Mohsinsiddi/w3raffle/internal/notify"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	// ErrNoRaffleAddress is returned by Enter when no address is resolved.
	ErrNoRaffleAddress = errors.New("no raffle address for the active chain")
	// ErrSubmitInFlight is returned by Enter while another entry is pending.
	ErrSubmitInFlight = errors.New("an entry is already being submitted")
)

// Phase is the widget's coarse state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseRefreshing
	PhaseSubmitting
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseReady:
		return "ready"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Dialer builds a Contract bound to a resolved raffle address.
type Dialer func(addr common.Address) Contract

// Widget drives the lottery entrance without a terminal UI.
type Widget struct {
	mu         sync.Mutex
	book       contract.AddressBook
	dial       Dialer
	conn       Connection
	addr       common.Address
	contract   Contract
	display    Display
	resolving  bool
	refreshing int
	submitting bool

	sink           notify.Sink
	log            *zap.SugaredLogger
	confirmTimeout time.Duration
}

// WidgetOption configures a Widget.
type WidgetOption func(*Widget)

// WithSink sets where the confirmation notification goes.
func WithSink(s notify.Sink) WidgetOption {
	return func(w *Widget) { w.sink = s }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.SugaredLogger) WidgetOption {
	return func(w *Widget) { w.log = l }
}

// WithConfirmTimeout bounds the wait for a confirmation.
func WithConfirmTimeout(d time.Duration) WidgetOption {
	return func(w *Widget) { w.confirmTimeout = d }
}

// NewWidget creates a widget over book. dial is called once per resolved
// address.
func NewWidget(book contract.AddressBook, dial Dialer, opts ...WidgetOption) *Widget {
	w := &Widget{
		book:           book,
		dial:           dial,
		display:        NewDisplay(),
		sink:           notify.Discard,
		log:            logging.Nop(),
		confirmTimeout: config.TxConfirmTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetConnection re-resolves the raffle address for conn and, when one is
// found, refreshes the display. It reports whether an address was resolved.
func (w *Widget) SetConnection(ctx context.Context, conn Connection) bool {
	w.mu.Lock()
	w.resolving = true
	w.conn = conn
	addr, ok := Resolve(w.book, conn)
	if ok {
		w.addr = addr
		w.contract = w.dial(addr)
	} else {
		w.addr = common.Address{}
		w.contract = nil
	}
	w.resolving = false
	w.mu.Unlock()

	if !ok {
		id, _ := conn.ChainID()
		w.log.Infow("No raffle address for chain", "enabled", conn.Enabled, "chain_id", id)
		return false
	}
	w.log.Debugw("Raffle address resolved", "address", addr.Hex())
	w.Refresh(ctx)
	return true
}

// Refresh reads the three values in RefreshOrder and applies each result.
// It does nothing when no address is resolved.
func (w *Widget) Refresh(ctx context.Context) {
	w.mu.Lock()
	c := w.contract
	if c == nil {
		w.mu.Unlock()
		return
	}
	w.refreshing++
	w.mu.Unlock()

	readings := make([]Reading, 0, len(RefreshOrder))
	for _, f := range RefreshOrder {
		readings = append(readings, c.Read(ctx, f))
	}

	w.mu.Lock()
	for _, r := range readings {
		w.display.Apply(r, w.log)
	}
	w.refreshing--
	w.mu.Unlock()
	metrics.Refreshes.Inc()
}

// Enter submits an entry paying the current entrance fee, waits for the
// confirmation, dispatches one notification and refreshes. Failures are
// logged and returned; no notification is sent for them.
func (w *Widget) Enter(ctx context.Context) (common.Hash, error) {
	w.mu.Lock()
	c := w.contract
	if c == nil {
		w.mu.Unlock()
		return common.Hash{}, ErrNoRaffleAddress
	}
	if w.submitting {
		w.mu.Unlock()
		return common.Hash{}, ErrSubmitInFlight
	}
	fee, err := chain.ParseWei(w.display.EntranceFee)
	if err != nil {
		w.mu.Unlock()
		return common.Hash{}, fmt.Errorf("entrance fee %q: %w", w.display.EntranceFee, err)
	}
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	hash, err := c.Enter(ctx, fee)
	if err != nil {
		w.log.Errorw("Entering raffle failed", "fee", fee.String(), "err", err)
		return common.Hash{}, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, w.confirmTimeout)
	defer cancel()
	if err := c.WaitConfirmed(waitCtx, hash); err != nil {
		w.log.Errorw("Waiting for confirmation failed", "hash", hash.Hex(), "err", err)
		return hash, err
	}

	n := notify.TxComplete()
	w.sink.Dispatch(n)
	metrics.Notifications.WithLabelValues(string(n.Kind)).Inc()

	w.Refresh(ctx)
	return hash, nil
}

// Display returns a copy of the current values.
func (w *Widget) Display() Display {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.display
}

// Address returns the resolved raffle address. ok is false when the fallback
// should be shown.
func (w *Widget) Address() (common.Address, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addr, w.contract != nil
}

// Connection returns the last supplied connection.
func (w *Widget) Connection() Connection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn
}

// Phase returns the current phase.
func (w *Widget) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case w.submitting:
		return PhaseSubmitting
	case w.refreshing > 0:
		return PhaseRefreshing
	case w.resolving:
		return PhaseResolving
	case w.contract != nil:
		return PhaseReady
	}
	return PhaseIdle
}
