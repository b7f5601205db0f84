// Command beacon-chain boots the chain core against a bbolt data
// directory: it opens (or creates) the store, loads an existing genesis
// or mints a throwaway single-validator one for local development, and
// wires the state-transition driver and fork-choice store around it.
//
// Peer networking (ENR discovery, libp2p transport) is out of this
// core's scope; this binary starts the chain ready for a transport
// layer to drive Service.Import from beacon-chain/sync, but does not
// dial any peers itself.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/sigmachain/beacon-core/beacon-chain/blockchain"
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/beacon-chain/state/phase0"
	"github.com/sigmachain/beacon-core/beacon-chain/db/kv"
	"github.com/sigmachain/beacon-core/beacon-chain/db/sszcodec"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/crypto/bls"
)

var log = logrus.WithField("prefix", "beacon-chain")

var (
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "directory the bbolt data file lives under",
		Value: "./beacon-chain-data",
	}
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "constants set to run with: mainnet or minimal",
		Value: "mainnet",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level: panic, fatal, error, warn, info, debug, trace",
		Value: "info",
	}
)

func main() {
	app := &cli.App{
		Name:  "beacon-chain",
		Usage: "Ethereum proof-of-stake consensus core",
		Flags: []cli.Flag{dataDirFlag, networkFlag, verbosityFlag},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("startup failed")
	}
}

func run(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String(verbosityFlag.Name))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	cfg, err := configForNetwork(c.String(networkFlag.Name))
	if err != nil {
		return err
	}
	log.WithField("network", cfg.ConfigName).Info("loaded chain config")

	store, err := kv.NewKVStore(c.String(dataDirFlag.Name), sszcodec.BlockCodec{}, sszcodec.StateCodec{Cfg: cfg})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("closing store")
		}
	}()

	ctx := context.Background()
	genesisRoot, genesisState, err := loadOrMintGenesis(ctx, store, cfg)
	if err != nil {
		return err
	}
	log.WithField("root", fmt.Sprintf("%x", genesisRoot)).WithField("validators", genesisState.NumValidators()).Info("genesis ready")

	verifier := bls.NewVerifier()
	svc := blockchain.New(cfg, verifier, genesisRoot, genesisState)
	log.WithField("head_slot", svc.HeadSlot()).Info("chain core started")

	// A concrete beacon-chain/sync.PeerSet backed by a real transport
	// (libp2p, discv5) is outside this core's scope; a caller that wires
	// one up drives svc.Import directly as the sync session's Importer.
	return nil
}

func configForNetwork(name string) (*params.BeaconChainConfig, error) {
	switch name {
	case "mainnet":
		return params.MainnetConfig(), nil
	case "minimal":
		return params.MinimalConfig(), nil
	default:
		return nil, fmt.Errorf("unknown network %q", name)
	}
}

// loadOrMintGenesis returns the store's existing genesis block root and
// state if one was already persisted, or mints a throwaway single-validator
// genesis and persists it, the way a local devnet bootstraps without a
// deposit contract to watch (deposit processing itself is out of scope).
func loadOrMintGenesis(ctx context.Context, store *kv.Store, cfg *params.BeaconChainConfig) ([32]byte, beaconstate.BeaconState, error) {
	if root, ok, err := store.GenesisBlockRoot(ctx); err != nil {
		return [32]byte{}, nil, err
	} else if ok {
		state, ok, err := store.State(ctx, root)
		if err != nil {
			return [32]byte{}, nil, err
		}
		if ok {
			return root, state, nil
		}
	}

	state, err := mintDevGenesis(cfg)
	if err != nil {
		return [32]byte{}, nil, err
	}

	stateRoot, err := state.HashTreeRoot()
	if err != nil {
		return [32]byte{}, nil, err
	}
	limits := blocks.Limits{
		MaxProposerSlashings:      cfg.MaxProposerSlashings,
		MaxAttesterSlashings:      cfg.MaxAttesterSlashings,
		MaxAttestations:           cfg.MaxAttestations,
		MaxDeposits:               cfg.MaxDeposits,
		MaxVoluntaryExits:         cfg.MaxVoluntaryExits,
		MaxValidatorsPerCommittee: cfg.MaxValidatorsPerCommittee,
	}
	genesisBlock := blocks.Block{Slot: 0, ParentRoot: cfg.ZeroHash, StateRoot: stateRoot}
	genesisRoot, err := genesisBlock.HashTreeRoot(limits)
	if err != nil {
		return [32]byte{}, nil, err
	}
	signed := blocks.SignedBlock{Block: genesisBlock}

	if err := store.SaveBlock(ctx, genesisRoot, signed); err != nil {
		return [32]byte{}, nil, err
	}
	if err := store.SaveState(ctx, genesisRoot, state); err != nil {
		return [32]byte{}, nil, err
	}
	if err := store.SaveGenesisBlockRoot(ctx, genesisRoot); err != nil {
		return [32]byte{}, nil, err
	}
	if err := store.SaveHeadBlockRoot(ctx, genesisRoot); err != nil {
		return [32]byte{}, nil, err
	}

	return genesisRoot, state, nil
}

// mintDevGenesis builds a Phase 0 genesis state with a single validator
// keyed by a freshly generated BLS key, enough to exercise OnBlock/
// OnAttestation locally without a deposit contract.
func mintDevGenesis(cfg *params.BeaconChainConfig) (beaconstate.BeaconState, error) {
	st, err := phase0.NewGenesis(cfg, 0, cfg.ZeroHash, beaconstate.Eth1Data{})
	if err != nil {
		return nil, err
	}

	sk, err := bls.RandKey()
	if err != nil {
		return nil, err
	}
	var pub [48]byte
	copy(pub[:], sk.PublicKey().Marshal())

	farFutureEpoch := ^primitives.Epoch(0)
	v := &beaconstate.Validator{
		PublicKey:         pub,
		EffectiveBalance:  cfg.MaxEffectiveBalance,
		ExitEpoch:         farFutureEpoch,
		WithdrawableEpoch: farFutureEpoch,
	}
	if err := st.AppendValidator(v); err != nil {
		return nil, err
	}
	if err := st.AppendBalance(cfg.MaxEffectiveBalance); err != nil {
		return nil, err
	}

	return st, nil
}
