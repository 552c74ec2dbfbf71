package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/w3raffle/internal/raffle"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConnect(context.Context) ConnectionMsg {
	return ConnectionMsg{
		Conn:    localConn,
		Network: "Localhost (31337)",
		Wallet:  "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		RPC:     "http://127.0.0.1:8545",
	}
}

func TestHeaderStates(t *testing.T) {
	h := NewHeader(localConnect)
	assert.NotNil(t, h.Init())
	assert.Contains(t, h.View(), PageTitle)
	assert.Contains(t, h.View(), "not connected")

	h, _ = h.Update(connectStartedMsg{})
	assert.True(t, h.Connecting())
	assert.Contains(t, h.View(), "connecting")
	_, cmd := h.Update(runeKey("c"))
	assert.Nil(t, cmd, "no reconnect while connecting")

	h, _ = h.Update(localConnect(context.Background()))
	assert.False(t, h.Connecting())
	view := h.View()
	assert.Contains(t, view, "Localhost (31337)")
	assert.Contains(t, view, "0xf39F…2266")

	_, cmd = h.Update(runeKey("c"))
	assert.NotNil(t, cmd, "reconnect")
}

func TestHeaderSpinsWhileConnecting(t *testing.T) {
	h := NewHeader(localConnect)

	h, cmd := h.Update(connectStartedMsg{})
	require.NotNil(t, cmd)
	tick, ok := cmd().(headerTickMsg)
	require.True(t, ok)

	h, cmd = h.Update(tick)
	assert.NotNil(t, cmd, "keeps ticking until connected")
	assert.Equal(t, 1, h.frame)

	h, _ = h.Update(localConnect(context.Background()))
	_, cmd = h.Update(headerTickMsg{id: tick.id, frame: 2})
	assert.Nil(t, cmd, "stops once connected")

	h, _ = h.Update(connectStartedMsg{})
	_, cmd = h.Update(tick)
	assert.Nil(t, cmd, "tick from an earlier connect is dropped")
}

func TestHeaderShowsConnectError(t *testing.T) {
	h := NewHeader(localConnect)
	h, _ = h.Update(ConnectionMsg{Err: errors.New("reading chain id: dial tcp 127.0.0.1:8545: connection refused")})
	assert.Contains(t, h.View(), "dial tcp")
}

func TestHeaderWithoutWallet(t *testing.T) {
	h := NewHeader(localConnect)
	h, _ = h.Update(ConnectionMsg{Conn: localConn, Network: "Localhost (31337)"})
	assert.Contains(t, h.View(), "no wallet")
}

func newTestPage() (PageModel, *entranceHarness) {
	eh := newEntranceHarness()
	return NewPage(NewHeader(localConnect), eh.m), eh
}

func TestPageRendersHeaderThenWidget(t *testing.T) {
	p, _ := newTestPage()
	view := p.View()

	title := strings.Index(view, PageTitle)
	greeting := strings.Index(view, raffle.Greeting)
	require.GreaterOrEqual(t, title, 0)
	require.GreaterOrEqual(t, greeting, 0)
	assert.Less(t, title, greeting)
	assert.Contains(t, view, raffle.FallbackText)
}

func TestPageRoutesConnectionToBothChildren(t *testing.T) {
	p, eh := newTestPage()

	model, cmd := p.Update(localConnect(context.Background()))
	p = model.(PageModel)
	assert.Contains(t, p.Header.View(), "Localhost (31337)")
	assert.True(t, p.Entrance.Refreshing())

	model, _ = p.Update(only[RefreshMsg](t, drain(cmd)))
	p = model.(PageModel)
	addr, ok := p.Entrance.Address()
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress(testRaffle), addr)
	assert.Contains(t, p.View(), "Players: 3")
	assert.Equal(t, 1, eh.dialled)
}

func TestPageShowsToastTopRight(t *testing.T) {
	p, _ := newTestPage()
	model, _ := p.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	p = model.(PageModel)
	model, _ = p.Update(localConnect(context.Background()))
	p = model.(PageModel)
	model, _ = p.Update(ConfirmedMsg{Hash: common.HexToHash("0x01")})
	p = model.(PageModel)

	view := p.View()
	toast := strings.Index(view, "Transaction Complete!")
	title := strings.Index(view, PageTitle)
	require.GreaterOrEqual(t, toast, 0)
	assert.Less(t, toast, title, "toast is drawn above the header")

	firstLine := strings.SplitN(view, "\n", 2)[0]
	assert.True(t, strings.HasPrefix(firstLine, " "), "toast is right-aligned")
}

func TestPageQuit(t *testing.T) {
	p, _ := newTestPage()
	model, cmd := p.Update(runeKey("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Empty(t, model.View())
}
