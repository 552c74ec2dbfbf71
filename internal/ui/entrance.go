package ui

import (
	"context"
	"strings"
	"time"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
	"github.com/Mohsinsiddi/w3raffle/internal/config"
	"github.com/Mohsinsiddi/w3raffle/internal/contract"
	"github.com/Mohsinsiddi/w3raffle/internal/logging"
	"github.com/Mohsinsiddi/w3raffle/internal/metrics"
	"github.com/Mohsinsiddi/w3raffle/internal/notify"
	"github.com/Mohsinsiddi/w3raffle/internal/raffle"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ToastDuration is how long a notification stays on screen.
const ToastDuration = 5 * time.Second

// RefreshMsg carries the three readings of one refresh.
type RefreshMsg struct {
	Readings []raffle.Reading
}

// SentMsg reports the outcome of the enterRaffle write call.
type SentMsg struct {
	Hash common.Hash
	Err  error
}

// ConfirmedMsg reports the outcome of waiting for the confirmation.
type ConfirmedMsg struct {
	Hash common.Hash
	Err  error
}

type toastExpiredMsg struct{ id int }

type spinTickMsg int

func spinTick(frame int) tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinTickMsg(frame + 1)
	})
}

// EntranceModel is the Lottery Entrance Widget.
type EntranceModel struct {
	book     contract.AddressBook
	dial     raffle.Dialer
	contract raffle.Contract
	addr     common.Address
	display  raffle.Display

	// Loading is true while the enterRaffle write call is in flight and is
	// the only thing that disables the enter action. Reads never do.
	Loading    bool
	refreshing int

	toast   *notify.Notification
	toastID int
	sink    notify.Sink
	frame   int
	ticking bool
	log     *zap.SugaredLogger
}

// EntranceOption configures an EntranceModel.
type EntranceOption func(*EntranceModel)

// WithEntranceLogger sets the diagnostic logger.
func WithEntranceLogger(l *zap.SugaredLogger) EntranceOption {
	return func(m *EntranceModel) { m.log = l }
}

// WithEntranceSink forwards every notification to s as well as the toast.
func WithEntranceSink(s notify.Sink) EntranceOption {
	return func(m *EntranceModel) { m.sink = s }
}

// NewEntrance creates the widget. dial is called for every resolved address.
func NewEntrance(book contract.AddressBook, dial raffle.Dialer, opts ...EntranceOption) EntranceModel {
	m := EntranceModel{
		book:    book,
		dial:    dial,
		display: raffle.NewDisplay(),
		sink:    notify.Discard,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init does nothing until a connection arrives.
func (m EntranceModel) Init() tea.Cmd { return nil }

// Update handles connection changes, call results and keys.
func (m EntranceModel) Update(msg tea.Msg) (EntranceModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ConnectionMsg:
		addr, ok := raffle.Resolve(m.book, msg.Conn)
		if !ok {
			id, _ := msg.Conn.ChainID()
			m.log.Infow("No raffle address for chain", "enabled", msg.Conn.Enabled, "chain_id", id)
			m.contract = nil
			m.addr = common.Address{}
			return m, nil
		}
		m.log.Debugw("Raffle address resolved", "address", addr.Hex())
		m.addr = addr
		m.contract = m.dial(addr)
		return m.startRefresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "e":
			if m.contract == nil || m.Loading {
				return m, nil
			}
			m.Loading = true
			cmd := tea.Batch(m.submitCmd(), m.startTicking())
			return m, cmd
		case "r":
			if m.contract == nil || m.Refreshing() {
				return m, nil
			}
			return m.startRefresh()
		}

	case RefreshMsg:
		if m.refreshing > 0 {
			m.refreshing--
		}
		for _, r := range msg.Readings {
			m.display.Apply(r, m.log)
		}
		metrics.Refreshes.Inc()

	case SentMsg:
		m.Loading = false
		if msg.Err != nil {
			m.log.Errorw("Entering raffle failed", "fee", m.display.EntranceFee, "err", msg.Err)
			return m, nil
		}
		m.log.Infow("Entry sent, waiting for confirmation", "hash", msg.Hash.Hex())
		return m, m.confirmCmd(msg.Hash)

	case ConfirmedMsg:
		if msg.Err != nil {
			m.log.Errorw("Waiting for confirmation failed", "hash", msg.Hash.Hex(), "err", msg.Err)
			return m, nil
		}
		n := notify.TxComplete()
		m.toast = &n
		m.toastID++
		m.sink.Dispatch(n)
		metrics.Notifications.WithLabelValues(string(n.Kind)).Inc()

		id := m.toastID
		expire := tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
		if m.contract == nil {
			return m, expire
		}
		var refresh tea.Cmd
		m, refresh = m.startRefresh()
		return m, tea.Batch(refresh, expire)

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}

	case spinTickMsg:
		if !m.Loading {
			m.ticking = false
			return m, nil
		}
		m.frame = int(msg)
		return m, spinTick(m.frame)
	}

	return m, nil
}

func (m EntranceModel) startRefresh() (EntranceModel, tea.Cmd) {
	m.refreshing++
	return m, m.refreshCmd()
}

func (m *EntranceModel) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return spinTick(m.frame)
}

func (m EntranceModel) refreshCmd() tea.Cmd {
	c := m.contract
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.ReadTimeout)
		defer cancel()
		readings := make([]raffle.Reading, 0, len(raffle.RefreshOrder))
		for _, f := range raffle.RefreshOrder {
			readings = append(readings, c.Read(ctx, f))
		}
		return RefreshMsg{Readings: readings}
	}
}

func (m EntranceModel) submitCmd() tea.Cmd {
	c := m.contract
	feeStr := m.display.EntranceFee
	return func() tea.Msg {
		fee, err := chain.ParseWei(feeStr)
		if err != nil {
			return SentMsg{Err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.SendTimeout)
		defer cancel()
		hash, err := c.Enter(ctx, fee)
		return SentMsg{Hash: hash, Err: err}
	}
}

func (m EntranceModel) confirmCmd(hash common.Hash) tea.Cmd {
	c := m.contract
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.TxConfirmTimeout)
		defer cancel()
		return ConfirmedMsg{Hash: hash, Err: c.WaitConfirmed(ctx, hash)}
	}
}

// Display returns the current values.
func (m EntranceModel) Display() raffle.Display { return m.display }

// Address returns the resolved raffle address.
func (m EntranceModel) Address() (common.Address, bool) { return m.addr, m.contract != nil }

// Toast returns the notification on screen, if any.
func (m EntranceModel) Toast() *notify.Notification { return m.toast }

// Busy reports whether the enter action is disabled.
func (m EntranceModel) Busy() bool { return m.Loading }

// Refreshing reports whether any refresh is still outstanding.
func (m EntranceModel) Refreshing() bool { return m.refreshing > 0 }

// View renders the widget.
func (m EntranceModel) View() string {
	var sb strings.Builder
	sb.WriteString(raffle.Greeting + "\n")

	if m.contract == nil {
		sb.WriteString(StyleWarning.Render(raffle.FallbackText) + "\n")
		return StyleBorder.Render(strings.TrimRight(sb.String(), "\n"))
	}

	if m.Busy() {
		sb.WriteString(StyleButtonDisabled.Render(SpinFrames[m.frame%len(SpinFrames)]) + "\n")
	} else {
		sb.WriteString(StyleButton.Render(raffle.EnterLabel) + "\n")
	}
	sb.WriteString("Entrance Fee: " + Val(m.display.EntranceFeeETH()) + " ETH\n")
	sb.WriteString("Players: " + Val(m.display.NumPlayers) + "\n")
	sb.WriteString("Recent Winner: " + Addr(m.display.RecentWinner))
	return StyleBorder.Render(sb.String())
}

// RenderToast draws n as a boxed toast.
func RenderToast(n notify.Notification) string {
	title := n.Title
	if n.Icon != "" {
		title = n.Icon + " " + title
	}
	style := StyleInfo
	switch n.Kind {
	case notify.KindSuccess:
		style = StyleSuccess
	case notify.KindWarning:
		style = StyleWarning
	case notify.KindError:
		style = StyleError
	}
	return StyleToast.BorderForeground(style.GetForeground()).Render(style.Render(title) + "\n" + n.Message)
}
