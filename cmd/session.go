package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"slices"
	"sync"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
	"github.com/Mohsinsiddi/w3raffle/internal/config"
	"github.com/Mohsinsiddi/w3raffle/internal/contract"
	"github.com/Mohsinsiddi/w3raffle/internal/raffle"
	"github.com/Mohsinsiddi/w3raffle/internal/rpc"
	"github.com/Mohsinsiddi/w3raffle/internal/ui"
	"github.com/Mohsinsiddi/w3raffle/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// session is the wallet/network context behind the page and the one-shot
// commands. Connect picks an RPC and reads the chain id; Dial binds the raffle
// client to whatever Connect found last.
type session struct {
	network *chain.Chain
	wallet  *wallet.Wallet // nil when no wallet is configured
	keys    wallet.KeyStore
	log     *zap.SugaredLogger

	mu      sync.Mutex
	client  *chain.EVMClient
	chainID *big.Int
}

// newSession resolves --network and --wallet against the config.
func newSession(log *zap.SugaredLogger) (*session, error) {
	name := networkFlag
	if name == "" {
		name = cfg.DefaultNetwork
	}
	network, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("network %q: %w (run `w3raffle network list`)", name, err)
	}

	mgr := newWalletManager()
	w, err := selectWallet(mgr)
	if err != nil {
		return nil, err
	}
	s := &session{network: network, wallet: w, log: log}
	if w != nil && w.CanSign() {
		s.keys = signingKeys(mgr)
	}
	return s, nil
}

// signingKeys skips the OS keychain when the key comes from the environment.
func signingKeys(mgr *wallet.Manager) wallet.KeyStore {
	if os.Getenv(wallet.EnvPrivateKey) != "" {
		return wallet.EnvKeystore()
	}
	return mgr.KeyStore()
}

// selectWallet returns the --wallet flag's wallet, the configured default, or
// the manager's own default. A nil wallet means reads only.
func selectWallet(mgr *wallet.Manager) (*wallet.Wallet, error) {
	name := walletFlag
	if name == "" {
		name = cfg.DefaultWallet
	}
	if name == "" {
		return mgr.Default(), nil
	}
	w, err := mgr.Get(name)
	if err != nil {
		return nil, fmt.Errorf("wallet %q: %w (run `w3raffle wallet list`)", name, err)
	}
	return w, nil
}

// rpcURLs lists custom RPCs first, then the registry's.
func (s *session) rpcURLs() []string {
	return slices.Concat(cfg.GetRPCs(s.network.Name), s.network.RPCs)
}

// Connect selects an endpoint and reads its chain id. Failures are reported
// in the message so the page can show them.
func (s *session) Connect(ctx context.Context) ui.ConnectionMsg {
	msg := ui.ConnectionMsg{Network: s.network.Label()}
	if s.wallet != nil {
		msg.Wallet = s.wallet.Address
	}

	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()

	url, err := rpc.SelectBest(ctx, s.rpcURLs(), cfg.RPCAlgorithm)
	if err != nil {
		msg.Err = fmt.Errorf("selecting RPC for %s: %w", s.network.Name, err)
		s.log.Warnw("Connect failed", "network", s.network.Name, "err", err)
		return msg
	}
	msg.RPC = url

	client := chain.NewEVMClient(url)
	idHex, err := client.ChainIDHex(ctx)
	if err != nil {
		msg.Err = fmt.Errorf("reading chain id: %w", err)
		s.log.Warnw("Connect failed", "rpc", url, "err", err)
		return msg
	}
	chainID, err := hexutil.DecodeBig(idHex)
	if err != nil {
		msg.Err = fmt.Errorf("chain id %q: %w", idHex, err)
		s.log.Warnw("Connect failed", "rpc", url, "err", err)
		return msg
	}

	// The node decides which chain we are on, whatever --network said.
	if c, err := chain.NewRegistry().GetByChainID(chainID.Int64()); err == nil {
		msg.Network = c.Label()
	} else {
		msg.Network = fmt.Sprintf("Unknown (%s)", chainID)
	}

	s.mu.Lock()
	s.client = client
	s.chainID = chainID
	s.mu.Unlock()

	s.log.Debugw("Connected", "rpc", url, "chain_id", chainID.String())
	msg.Conn = raffle.Connection{Enabled: true, ChainIDHex: idHex}
	return msg
}

// Dial binds a raffle client at addr to the last connected endpoint. Writes
// are signed only when the selected wallet holds a key.
func (s *session) Dial(addr common.Address) raffle.Contract {
	s.mu.Lock()
	client, chainID := s.client, s.chainID
	s.mu.Unlock()

	opts := []contract.InvokerOption{contract.WithLogger(s.log)}
	if s.wallet != nil && s.wallet.CanSign() {
		opts = append(opts, contract.WithSigner(wallet.NewSigner(s.wallet, s.keys), chainID))
	}
	inv := contract.NewInvoker(client, contract.RaffleABI(), opts...)
	return raffle.NewClient(inv, addr, cfg.Confirmations)
}

// txURL links hash on the connected chain's explorer, or "".
func (s *session) txURL(hash common.Hash) string {
	s.mu.Lock()
	id := s.chainID
	s.mu.Unlock()
	if id == nil {
		return ""
	}
	c, err := chain.NewRegistry().GetByChainID(id.Int64())
	if err != nil {
		return ""
	}
	return c.TxURL(hash.Hex())
}

// connectWidget runs one connect and hands the result to a fresh widget,
// which resolves the raffle address and refreshes.
func connectWidget(ctx context.Context, opts ...raffle.WidgetOption) (*raffle.Widget, *session, ui.ConnectionMsg, error) {
	s, err := newSession(logger)
	if err != nil {
		return nil, nil, ui.ConnectionMsg{}, err
	}
	book, err := loadAddressBook()
	if err != nil {
		return nil, nil, ui.ConnectionMsg{}, err
	}

	msg := s.Connect(ctx)
	if msg.Err != nil {
		return nil, s, msg, msg.Err
	}

	opts = append([]raffle.WidgetOption{raffle.WithLogger(logger)}, opts...)
	w := raffle.NewWidget(book, s.Dial, opts...)
	w.SetConnection(ctx, msg.Conn)
	return w, s, msg, nil
}

// loadAddressBook reads the configured address file, or the built-in table.
func loadAddressBook() (contract.AddressBook, error) {
	if cfg.AddressFile == "" {
		return contract.DefaultAddressBook(), nil
	}
	return contract.LoadAddressBook(cfg.AddressFile)
}

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
}
