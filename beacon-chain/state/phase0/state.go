package phase0

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/container/trie"
	"github.com/sigmachain/beacon-core/encoding/ssz"
)

// State is the Phase 0 BeaconState: a tree-backed container addressed
// through the schema built by NewSchema, plus a copy-on-write validator
// pubkey index cache. It satisfies beaconstate.BeaconState.
type State struct {
	tree      trie.Node
	cfg       *params.BeaconChainConfig
	schema    *ssz.Container
	valIdxMap map[[48]byte]primitives.ValidatorIndex
}

// Initialize builds a State around an existing tree, computing the
// validator pubkey index from its validators list.
func Initialize(cfg *params.BeaconChainConfig, tree trie.Node) (*State, error) {
	schema := NewSchema(cfg)
	s := &State{tree: tree, cfg: cfg, schema: schema}
	if err := s.rebuildValidatorIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewGenesis builds the all-zero genesis State for cfg, then applies
// genesisTime, genesisValidatorsRoot and eth1Data.
func NewGenesis(cfg *params.BeaconChainConfig, genesisTimeVal uint64, genesisValidatorsRootVal [32]byte, eth1Data beaconstate.Eth1Data) (*State, error) {
	schema := NewSchema(cfg)
	s := &State{tree: schema.DefaultTree(), cfg: cfg, schema: schema, valIdxMap: map[[48]byte]primitives.ValidatorIndex{}}
	if err := s.set(genesisTime, ssz.EncodeUint64(genesisTimeVal)); err != nil {
		return nil, err
	}
	if err := s.setBytes(genesisValidatorsRoot, genesisValidatorsRootVal[:]); err != nil {
		return nil, err
	}
	if err := s.SetEth1Data(eth1Data); err != nil {
		return nil, err
	}
	if err := s.SetJustificationBits([1]byte{}); err != nil {
		return nil, err
	}
	return s, nil
}

func bytesNode(b []byte) trie.Node {
	var chunk [32]byte
	copy(chunk[:], b)
	return trie.NewLeaf(chunk)
}

func (s *State) set(i fieldIndex, value trie.Node) error {
	if s == nil || s.tree == nil {
		return beaconstate.ErrNilInnerState
	}
	newTree, err := s.schema.Set(s.tree, int(i), value)
	if err != nil {
		return err
	}
	s.tree = newTree
	return nil
}

func (s *State) setBytes(i fieldIndex, b []byte) error {
	return s.set(i, bytesNode(b))
}

func (s *State) get(i fieldIndex) (trie.Node, error) {
	if s == nil || s.tree == nil {
		return nil, beaconstate.ErrNilInnerState
	}
	return s.schema.Get(s.tree, int(i))
}

func (s *State) rebuildValidatorIndex() error {
	vals, err := s.Validators_()
	if err != nil {
		return err
	}
	idx := make(map[[48]byte]primitives.ValidatorIndex, len(vals))
	for i, v := range vals {
		idx[v.PublicKey] = primitives.ValidatorIndex(i)
	}
	s.valIdxMap = idx
	return nil
}

// GenesisTime returns the genesis_time field.
func (s *State) GenesisTime() uint64 {
	n, err := s.get(genesisTime)
	if err != nil {
		return 0
	}
	v, _ := ssz.DecodeUint64(n)
	return v
}

// GenesisValidatorsRoot returns the genesis_validators_root field.
func (s *State) GenesisValidatorsRoot() [32]byte {
	n, err := s.get(genesisValidatorsRoot)
	if err != nil {
		return [32]byte{}
	}
	leaf, ok := n.(*trie.Leaf)
	if !ok {
		return [32]byte{}
	}
	return leaf.Data()
}

// Slot returns the current slot field.
func (s *State) Slot() primitives.Slot {
	n, err := s.get(slot)
	if err != nil {
		return 0
	}
	v, _ := ssz.DecodeUint64(n)
	return primitives.Slot(v)
}

// SetSlot sets the current slot field.
func (s *State) SetSlot(v primitives.Slot) error {
	return s.set(slot, ssz.EncodeUint64(uint64(v)))
}

// Fork returns the fork field.
func (s *State) Fork() beaconstate.Fork {
	n, err := s.get(fork)
	if err != nil {
		return beaconstate.Fork{}
	}
	f, _ := beaconstate.DecodeFork(n)
	return f
}

// SetFork sets the fork field.
func (s *State) SetFork(f beaconstate.Fork) error {
	return s.set(fork, beaconstate.EncodeFork(f))
}

// LatestBlockHeader returns the latest_block_header field.
func (s *State) LatestBlockHeader() beaconstate.BeaconBlockHeader {
	n, err := s.get(latestBlockHeader)
	if err != nil {
		return beaconstate.BeaconBlockHeader{}
	}
	h, _ := beaconstate.DecodeBlockHeader(n)
	return h
}

// SetLatestBlockHeader sets the latest_block_header field.
func (s *State) SetLatestBlockHeader(h beaconstate.BeaconBlockHeader) error {
	return s.set(latestBlockHeader, beaconstate.EncodeBlockHeader(h))
}

func (s *State) fieldSchema(i fieldIndex) ssz.Schema {
	return s.schema.Fields[i].Schema
}

func (s *State) rootVectorAtIndex(i fieldIndex, idx uint64) ([32]byte, error) {
	n, err := s.get(i)
	if err != nil {
		return [32]byte{}, err
	}
	vec := s.fieldSchema(i).(*ssz.Vector)
	elem, err := vec.GetElement(n, idx)
	if err != nil {
		return [32]byte{}, err
	}
	leaf, ok := elem.(*trie.Leaf)
	if !ok {
		return [32]byte{}, ssz.ErrWrongNodeKind
	}
	return leaf.Data(), nil
}

func (s *State) setRootVectorAtIndex(i fieldIndex, idx uint64, root [32]byte) error {
	n, err := s.get(i)
	if err != nil {
		return err
	}
	vec := s.fieldSchema(i).(*ssz.Vector)
	newN, err := vec.SetElement(n, idx, bytesNode(root[:]))
	if err != nil {
		return err
	}
	return s.set(i, newN)
}

func (s *State) rootVectorAll(i fieldIndex, n uint64) ([][32]byte, error) {
	out := make([][32]byte, n)
	for idx := uint64(0); idx < n; idx++ {
		root, err := s.rootVectorAtIndex(i, idx)
		if err != nil {
			return nil, err
		}
		out[idx] = root
	}
	return out, nil
}

// BlockRoots returns the block_roots vector.
func (s *State) BlockRoots() [][32]byte {
	out, _ := s.rootVectorAll(blockRoots, s.cfg.SlotsPerHistoricalRoot)
	return out
}

// BlockRootAtIndex returns the block root at idx.
func (s *State) BlockRootAtIndex(idx uint64) ([32]byte, error) {
	return s.rootVectorAtIndex(blockRoots, idx)
}

// SetBlockRootAtIndex sets the block root at idx.
func (s *State) SetBlockRootAtIndex(idx uint64, root [32]byte) error {
	return s.setRootVectorAtIndex(blockRoots, idx, root)
}

// StateRoots returns the state_roots vector.
func (s *State) StateRoots() [][32]byte {
	out, _ := s.rootVectorAll(stateRoots, s.cfg.SlotsPerHistoricalRoot)
	return out
}

// SetStateRootAtIndex sets the state root at idx.
func (s *State) SetStateRootAtIndex(idx uint64, root [32]byte) error {
	return s.setRootVectorAtIndex(stateRoots, idx, root)
}

// HistoricalRoots returns the historical_roots list.
func (s *State) HistoricalRoots() [][32]byte {
	n, err := s.get(historicalRoots)
	if err != nil {
		return nil
	}
	l := s.fieldSchema(historicalRoots).(*ssz.List)
	elems, err := l.Elements(n)
	if err != nil {
		return nil
	}
	out := make([][32]byte, len(elems))
	for i, e := range elems {
		leaf, ok := e.(*trie.Leaf)
		if !ok {
			return nil
		}
		out[i] = leaf.Data()
	}
	return out
}

// AppendHistoricalRoot appends a root to historical_roots.
func (s *State) AppendHistoricalRoot(root [32]byte) error {
	n, err := s.get(historicalRoots)
	if err != nil {
		return err
	}
	l := s.fieldSchema(historicalRoots).(*ssz.List)
	newN, err := l.Append(n, bytesNode(root[:]))
	if err != nil {
		return err
	}
	return s.set(historicalRoots, newN)
}

// Eth1Data returns the eth1_data field.
func (s *State) Eth1Data() beaconstate.Eth1Data {
	n, err := s.get(eth1Data)
	if err != nil {
		return beaconstate.Eth1Data{}
	}
	e, _ := beaconstate.DecodeEth1Data(n)
	return e
}

// SetEth1Data sets the eth1_data field.
func (s *State) SetEth1Data(e beaconstate.Eth1Data) error {
	return s.set(eth1Data, beaconstate.EncodeEth1Data(e))
}

// Eth1DataVotes returns the eth1_data_votes list.
func (s *State) Eth1DataVotes() []beaconstate.Eth1Data {
	n, err := s.get(eth1DataVotes)
	if err != nil {
		return nil
	}
	l := s.fieldSchema(eth1DataVotes).(*ssz.List)
	elems, err := l.Elements(n)
	if err != nil {
		return nil
	}
	out := make([]beaconstate.Eth1Data, len(elems))
	for i, e := range elems {
		out[i], _ = beaconstate.DecodeEth1Data(e)
	}
	return out
}

// AppendEth1DataVote appends a vote to eth1_data_votes.
func (s *State) AppendEth1DataVote(e beaconstate.Eth1Data) error {
	n, err := s.get(eth1DataVotes)
	if err != nil {
		return err
	}
	l := s.fieldSchema(eth1DataVotes).(*ssz.List)
	newN, err := l.Append(n, beaconstate.EncodeEth1Data(e))
	if err != nil {
		return err
	}
	return s.set(eth1DataVotes, newN)
}

// Eth1DepositIndex returns the eth1_deposit_index field.
func (s *State) Eth1DepositIndex() uint64 {
	n, err := s.get(eth1DepositIndex)
	if err != nil {
		return 0
	}
	v, _ := ssz.DecodeUint64(n)
	return v
}

// SetEth1DepositIndex sets the eth1_deposit_index field.
func (s *State) SetEth1DepositIndex(v uint64) error {
	return s.set(eth1DepositIndex, ssz.EncodeUint64(v))
}

func (s *State) validatorsList() (*ssz.List, trie.Node, error) {
	n, err := s.get(validators)
	if err != nil {
		return nil, nil, err
	}
	return s.fieldSchema(validators).(*ssz.List), n, nil
}

// Validators_ returns all validator registry entries; unlike Validators it
// propagates read errors so it can be used to rebuild the pubkey index.
func (s *State) Validators_() ([]*beaconstate.Validator, error) {
	l, n, err := s.validatorsList()
	if err != nil {
		return nil, err
	}
	elems, err := l.Elements(n)
	if err != nil {
		return nil, err
	}
	out := make([]*beaconstate.Validator, len(elems))
	for i, e := range elems {
		out[i], err = beaconstate.DecodeValidator(e)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Validators returns all validator registry entries.
func (s *State) Validators() []*beaconstate.Validator {
	out, _ := s.Validators_()
	return out
}

// ValidatorAtIndex returns the validator at idx.
func (s *State) ValidatorAtIndex(idx primitives.ValidatorIndex) (*beaconstate.Validator, error) {
	l, n, err := s.validatorsList()
	if err != nil {
		return nil, err
	}
	elem, err := l.GetElementAt(n, uint64(idx))
	if err != nil {
		return nil, err
	}
	return beaconstate.DecodeValidator(elem)
}

// ValidatorAtIndexReadOnly returns a read-only wrapper around the validator at idx.
func (s *State) ValidatorAtIndexReadOnly(idx primitives.ValidatorIndex) (beaconstate.ReadOnlyValidator, error) {
	v, err := s.ValidatorAtIndex(idx)
	if err != nil {
		return beaconstate.ReadOnlyValidator{}, err
	}
	return beaconstate.NewReadOnlyValidator(v), nil
}

// ValidatorIndexByPubkey looks up a validator's index by its public key.
func (s *State) ValidatorIndexByPubkey(pubkey [48]byte) (primitives.ValidatorIndex, bool) {
	idx, ok := s.valIdxMap[pubkey]
	return idx, ok
}

// NumValidators returns the number of validators currently registered.
func (s *State) NumValidators() int {
	l, n, err := s.validatorsList()
	if err != nil {
		return 0
	}
	length, err := l.Length(n)
	if err != nil {
		return 0
	}
	return int(length)
}

// AppendValidator appends v to the validator registry, updating the pubkey index.
func (s *State) AppendValidator(v *beaconstate.Validator) error {
	l, n, err := s.validatorsList()
	if err != nil {
		return err
	}
	length, err := l.Length(n)
	if err != nil {
		return err
	}
	newN, err := l.Append(n, beaconstate.EncodeValidator(v))
	if err != nil {
		return err
	}
	if err := s.set(validators, newN); err != nil {
		return err
	}
	if s.valIdxMap == nil {
		s.valIdxMap = map[[48]byte]primitives.ValidatorIndex{}
	}
	s.valIdxMap[v.PublicKey] = primitives.ValidatorIndex(length)
	return nil
}

// UpdateValidatorAtIndex replaces the validator at idx.
func (s *State) UpdateValidatorAtIndex(idx primitives.ValidatorIndex, v *beaconstate.Validator) error {
	l, n, err := s.validatorsList()
	if err != nil {
		return err
	}
	newN, err := l.SetElementAt(n, uint64(idx), beaconstate.EncodeValidator(v))
	if err != nil {
		return err
	}
	if old, err := s.ValidatorAtIndex(idx); err == nil && old.PublicKey != v.PublicKey {
		delete(s.valIdxMap, old.PublicKey)
	}
	if err := s.set(validators, newN); err != nil {
		return err
	}
	if s.valIdxMap == nil {
		s.valIdxMap = map[[48]byte]primitives.ValidatorIndex{}
	}
	s.valIdxMap[v.PublicKey] = idx
	return nil
}

func (s *State) balancesList() (*ssz.List, trie.Node, error) {
	n, err := s.get(balances)
	if err != nil {
		return nil, nil, err
	}
	return s.fieldSchema(balances).(*ssz.List), n, nil
}

// Balances returns all validator balances.
func (s *State) Balances() []uint64 {
	l, n, err := s.balancesList()
	if err != nil {
		return nil
	}
	elems, err := l.Elements(n)
	if err != nil {
		return nil
	}
	out := make([]uint64, len(elems))
	for i, e := range elems {
		out[i], _ = ssz.DecodeUint64(e)
	}
	return out
}

// BalanceAtIndex returns the balance at idx.
func (s *State) BalanceAtIndex(idx primitives.ValidatorIndex) (uint64, error) {
	l, n, err := s.balancesList()
	if err != nil {
		return 0, err
	}
	elem, err := l.GetElementAt(n, uint64(idx))
	if err != nil {
		return 0, err
	}
	return ssz.DecodeUint64(elem)
}

// SetBalanceAtIndex sets the balance at idx.
func (s *State) SetBalanceAtIndex(idx primitives.ValidatorIndex, v uint64) error {
	l, n, err := s.balancesList()
	if err != nil {
		return err
	}
	newN, err := l.SetElementAt(n, uint64(idx), ssz.EncodeUint64(v))
	if err != nil {
		return err
	}
	return s.set(balances, newN)
}

// AppendBalance appends a balance entry.
func (s *State) AppendBalance(v uint64) error {
	n, err := s.get(balances)
	if err != nil {
		return err
	}
	l := s.fieldSchema(balances).(*ssz.List)
	newN, err := l.Append(n, ssz.EncodeUint64(v))
	if err != nil {
		return err
	}
	return s.set(balances, newN)
}

// RandaoMixes returns the randao_mixes vector.
func (s *State) RandaoMixes() [][32]byte {
	out, _ := s.rootVectorAll(randaoMixes, s.cfg.EpochsPerHistoricalVector)
	return out
}

// RandaoMixAtIndex returns the randao mix at idx.
func (s *State) RandaoMixAtIndex(idx uint64) ([32]byte, error) {
	return s.rootVectorAtIndex(randaoMixes, idx)
}

// SetRandaoMixAtIndex sets the randao mix at idx.
func (s *State) SetRandaoMixAtIndex(idx uint64, mix [32]byte) error {
	return s.setRootVectorAtIndex(randaoMixes, idx, mix)
}

// Slashings returns the slashings vector.
func (s *State) Slashings() []uint64 {
	n, err := s.get(slashings)
	if err != nil {
		return nil
	}
	vec := s.fieldSchema(slashings).(*ssz.Vector)
	out := make([]uint64, s.cfg.EpochsPerSlashingsVector)
	for i := range out {
		elem, err := vec.GetElement(n, uint64(i))
		if err != nil {
			return nil
		}
		out[i], _ = ssz.DecodeUint64(elem)
	}
	return out
}

// SetSlashingAtIndex sets the slashing accumulator at idx.
func (s *State) SetSlashingAtIndex(idx uint64, v uint64) error {
	n, err := s.get(slashings)
	if err != nil {
		return err
	}
	vec := s.fieldSchema(slashings).(*ssz.Vector)
	newN, err := vec.SetElement(n, idx, ssz.EncodeUint64(v))
	if err != nil {
		return err
	}
	return s.set(slashings, newN)
}

// JustificationBits returns the justification_bits bitvector as raw bytes.
func (s *State) JustificationBits() [1]byte {
	n, err := s.get(justificationBits)
	if err != nil {
		return [1]byte{}
	}
	bv := s.fieldSchema(justificationBits).(*ssz.Bitvector)
	enc, err := bv.Marshal(n)
	if err != nil || len(enc) != 1 {
		return [1]byte{}
	}
	return [1]byte{enc[0]}
}

// SetJustificationBits sets the justification_bits bitvector.
func (s *State) SetJustificationBits(bits [1]byte) error {
	bv := s.fieldSchema(justificationBits).(*ssz.Bitvector)
	n, err := bv.Unmarshal(bits[:])
	if err != nil {
		return err
	}
	return s.set(justificationBits, n)
}

func (s *State) checkpoint(i fieldIndex) beaconstate.Checkpoint {
	n, err := s.get(i)
	if err != nil {
		return beaconstate.Checkpoint{}
	}
	c, _ := beaconstate.DecodeCheckpoint(n)
	return c
}

// PreviousJustifiedCheckpoint returns the previous_justified_checkpoint field.
func (s *State) PreviousJustifiedCheckpoint() beaconstate.Checkpoint {
	return s.checkpoint(previousJustifiedCheckpoint)
}

// SetPreviousJustifiedCheckpoint sets the previous_justified_checkpoint field.
func (s *State) SetPreviousJustifiedCheckpoint(c beaconstate.Checkpoint) error {
	return s.set(previousJustifiedCheckpoint, beaconstate.EncodeCheckpoint(c))
}

// CurrentJustifiedCheckpoint returns the current_justified_checkpoint field.
func (s *State) CurrentJustifiedCheckpoint() beaconstate.Checkpoint {
	return s.checkpoint(currentJustifiedCheckpoint)
}

// SetCurrentJustifiedCheckpoint sets the current_justified_checkpoint field.
func (s *State) SetCurrentJustifiedCheckpoint(c beaconstate.Checkpoint) error {
	return s.set(currentJustifiedCheckpoint, beaconstate.EncodeCheckpoint(c))
}

// FinalizedCheckpoint returns the finalized_checkpoint field.
func (s *State) FinalizedCheckpoint() beaconstate.Checkpoint {
	return s.checkpoint(finalizedCheckpoint)
}

// SetFinalizedCheckpoint sets the finalized_checkpoint field.
func (s *State) SetFinalizedCheckpoint(c beaconstate.Checkpoint) error {
	return s.set(finalizedCheckpoint, beaconstate.EncodeCheckpoint(c))
}

// HashTreeRoot returns the Merkle root of the whole state tree.
func (s *State) HashTreeRoot() ([32]byte, error) {
	if s == nil || s.tree == nil {
		return [32]byte{}, beaconstate.ErrNilInnerState
	}
	return s.tree.HashTreeRoot(), nil
}

// MarshalSSZ serializes the whole state tree through its container schema.
func (s *State) MarshalSSZ() ([]byte, error) {
	if s == nil || s.tree == nil {
		return nil, beaconstate.ErrNilInnerState
	}
	return s.schema.Marshal(s.tree)
}

// UnmarshalSSZSeed rebuilds a State from bytes produced by MarshalSSZ,
// recomputing the validator pubkey index from the restored tree.
func UnmarshalSSZSeed(cfg *params.BeaconChainConfig, data []byte) (*State, error) {
	schema := NewSchema(cfg)
	tree, err := schema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Initialize(cfg, tree)
}

// Copy returns a State sharing the same persistent tree (copy-on-write: the
// next Set* call on the copy rebuilds only the touched path, leaving s's
// tree untouched).
func (s *State) Copy() beaconstate.BeaconState {
	idxCopy := make(map[[48]byte]primitives.ValidatorIndex, len(s.valIdxMap))
	for k, v := range s.valIdxMap {
		idxCopy[k] = v
	}
	return &State{tree: s.tree, cfg: s.cfg, schema: s.schema, valIdxMap: idxCopy}
}

// Mutator mutates a State in place; used with Update to publish a new
// version atomically.
type Mutator func(*State) error

// Update applies m to a copy of s and returns the copy, leaving s
// observable by concurrent readers until the caller swaps in the result.
func Update(s *State, m Mutator) (*State, error) {
	clone := s.Copy().(*State)
	if err := m(clone); err != nil {
		return nil, err
	}
	return clone, nil
}
