package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/w3raffle/internal/raffle"
	tea "github.com/charmbracelet/bubbletea"
)

// PageTitle is the heading rendered by the header.
const PageTitle = "Smart Contract Lottery"

// ConnectionMsg carries a fresh wallet/network context to the page.
type ConnectionMsg struct {
	Conn    raffle.Connection
	Network string // display label, e.g. "Localhost (31337)"
	Wallet  string // address, empty when no wallet is configured
	RPC     string
	Err     error
}

// ConnectFunc establishes the wallet/network context. It must not block
// past ctx.
type ConnectFunc func(ctx context.Context) ConnectionMsg

type connectStartedMsg struct{}

type headerTickMsg struct{ id, frame int }

func headerTick(id, frame int) tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return headerTickMsg{id: id, frame: frame + 1}
	})
}

// HeaderModel renders the title and connection status and owns the connect
// action.
type HeaderModel struct {
	connect    ConnectFunc
	status     ConnectionMsg
	connecting bool
	frame      int
	tickID     int
}

// NewHeader creates a header that calls connect on start and on "c".
func NewHeader(connect ConnectFunc) HeaderModel {
	return HeaderModel{connect: connect}
}

// Init starts the first connect.
func (m HeaderModel) Init() tea.Cmd { return m.connectCmd() }

func (m HeaderModel) connectCmd() tea.Cmd {
	connect := m.connect
	return tea.Sequence(
		func() tea.Msg { return connectStartedMsg{} },
		func() tea.Msg { return connect(context.Background()) },
	)
}

// Update handles connect results and the reconnect key.
func (m HeaderModel) Update(msg tea.Msg) (HeaderModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "c" && !m.connecting {
			return m, m.connectCmd()
		}

	case connectStartedMsg:
		if m.connecting {
			return m, nil
		}
		m.connecting = true
		m.tickID++
		return m, headerTick(m.tickID, m.frame)

	case ConnectionMsg:
		m.connecting = false
		m.status = msg

	case headerTickMsg:
		// A tick from an earlier connect stops here.
		if !m.connecting || msg.id != m.tickID {
			return m, nil
		}
		m.frame = msg.frame
		return m, headerTick(m.tickID, m.frame)
	}
	return m, nil
}

// Connecting reports whether a connect is in flight.
func (m HeaderModel) Connecting() bool { return m.connecting }

// View renders the header.
func (m HeaderModel) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("🎟  "+PageTitle) + "\n")

	switch {
	case m.connecting:
		sb.WriteString(StyleInfo.Render(SpinFrames[m.frame%len(SpinFrames)] + " connecting…"))
	case m.status.Err != nil:
		sb.WriteString(Err("not connected: " + trimErr(m.status.Err.Error())))
	case !m.status.Conn.Enabled:
		sb.WriteString(StyleMeta.Render("not connected"))
	default:
		wallet := StyleMeta.Render("no wallet")
		if m.status.Wallet != "" {
			wallet = Addr(TruncateAddr(m.status.Wallet))
		}
		sb.WriteString(fmt.Sprintf("%s  %s  %s",
			ChainName(m.status.Network),
			wallet,
			StyleDim.Render(m.status.RPC)))
	}
	sb.WriteString("\n")
	return sb.String()
}
