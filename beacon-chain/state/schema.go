package state

import (
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/container/trie"
	"github.com/sigmachain/beacon-core/encoding/ssz"
)

// Shared container schemas for the composite value types embedded in every
// fork's BeaconState. Field order and indices here must stay in lock-step
// with the encode/decode helpers below.

// CheckpointSchema describes container{epoch: uint64, root: bytes32}.
var CheckpointSchema = ssz.NewContainer([]ssz.Field{
	{Name: "epoch", Schema: ssz.Uint64},
	{Name: "root", Schema: ssz.BytesN(32)},
})

// ForkSchema describes container{previous_version: bytes4, current_version: bytes4, epoch: uint64}.
var ForkSchema = ssz.NewContainer([]ssz.Field{
	{Name: "previous_version", Schema: ssz.BytesN(4)},
	{Name: "current_version", Schema: ssz.BytesN(4)},
	{Name: "epoch", Schema: ssz.Uint64},
})

// Eth1DataSchema describes container{deposit_root: bytes32, deposit_count: uint64, block_hash: bytes32}.
var Eth1DataSchema = ssz.NewContainer([]ssz.Field{
	{Name: "deposit_root", Schema: ssz.BytesN(32)},
	{Name: "deposit_count", Schema: ssz.Uint64},
	{Name: "block_hash", Schema: ssz.BytesN(32)},
})

// BeaconBlockHeaderSchema describes the compact 5-field block header.
var BeaconBlockHeaderSchema = ssz.NewContainer([]ssz.Field{
	{Name: "slot", Schema: ssz.Uint64},
	{Name: "proposer_index", Schema: ssz.Uint64},
	{Name: "parent_root", Schema: ssz.BytesN(32)},
	{Name: "state_root", Schema: ssz.BytesN(32)},
	{Name: "body_root", Schema: ssz.BytesN(32)},
})

// ValidatorSchema describes the 8-field validator registry entry.
var ValidatorSchema = ssz.NewContainer([]ssz.Field{
	{Name: "pubkey", Schema: ssz.BytesN(48)},
	{Name: "withdrawal_credentials", Schema: ssz.BytesN(32)},
	{Name: "effective_balance", Schema: ssz.Uint64},
	{Name: "slashed", Schema: ssz.Bool},
	{Name: "activation_eligibility_epoch", Schema: ssz.Uint64},
	{Name: "activation_epoch", Schema: ssz.Uint64},
	{Name: "exit_epoch", Schema: ssz.Uint64},
	{Name: "withdrawable_epoch", Schema: ssz.Uint64},
})

func bytesNNode(b []byte) trie.Node {
	var chunk [32]byte
	copy(chunk[:], b)
	return trie.NewLeaf(chunk)
}

// EncodeCheckpoint builds the tree for a Checkpoint value.
func EncodeCheckpoint(c Checkpoint) trie.Node {
	n := CheckpointSchema.DefaultTree()
	n, _ = CheckpointSchema.Set(n, 0, ssz.EncodeUint64(uint64(c.Epoch)))
	n, _ = CheckpointSchema.Set(n, 1, bytesNNode(c.Root[:]))
	return n
}

// DecodeCheckpoint reads a Checkpoint value out of its tree.
func DecodeCheckpoint(n trie.Node) (Checkpoint, error) {
	epochNode, err := CheckpointSchema.Get(n, 0)
	if err != nil {
		return Checkpoint{}, err
	}
	epoch, err := ssz.DecodeUint64(epochNode)
	if err != nil {
		return Checkpoint{}, err
	}
	rootNode, err := CheckpointSchema.Get(n, 1)
	if err != nil {
		return Checkpoint{}, err
	}
	leaf, ok := rootNode.(*trie.Leaf)
	if !ok {
		return Checkpoint{}, ssz.ErrWrongNodeKind
	}
	data := leaf.Data()
	var root [32]byte
	copy(root[:], data[:])
	return Checkpoint{Epoch: primitives.Epoch(epoch), Root: root}, nil
}

// EncodeFork builds the tree for a Fork value.
func EncodeFork(f Fork) trie.Node {
	n := ForkSchema.DefaultTree()
	n, _ = ForkSchema.Set(n, 0, bytesNNode(f.PreviousVersion[:]))
	n, _ = ForkSchema.Set(n, 1, bytesNNode(f.CurrentVersion[:]))
	n, _ = ForkSchema.Set(n, 2, ssz.EncodeUint64(uint64(f.Epoch)))
	return n
}

// DecodeFork reads a Fork value out of its tree.
func DecodeFork(n trie.Node) (Fork, error) {
	var f Fork
	prev, err := ForkSchema.Get(n, 0)
	if err != nil {
		return f, err
	}
	cur, err := ForkSchema.Get(n, 1)
	if err != nil {
		return f, err
	}
	epochNode, err := ForkSchema.Get(n, 2)
	if err != nil {
		return f, err
	}
	leaf, ok := prev.(*trie.Leaf)
	if !ok {
		return f, ssz.ErrWrongNodeKind
	}
	data := leaf.Data()
	copy(f.PreviousVersion[:], data[:4])
	leaf, ok = cur.(*trie.Leaf)
	if !ok {
		return f, ssz.ErrWrongNodeKind
	}
	data = leaf.Data()
	copy(f.CurrentVersion[:], data[:4])
	epoch, err := ssz.DecodeUint64(epochNode)
	if err != nil {
		return f, err
	}
	f.Epoch = primitives.Epoch(epoch)
	return f, nil
}

// EncodeEth1Data builds the tree for an Eth1Data value.
func EncodeEth1Data(e Eth1Data) trie.Node {
	n := Eth1DataSchema.DefaultTree()
	n, _ = Eth1DataSchema.Set(n, 0, bytesNNode(e.DepositRoot[:]))
	n, _ = Eth1DataSchema.Set(n, 1, ssz.EncodeUint64(e.DepositCount))
	n, _ = Eth1DataSchema.Set(n, 2, bytesNNode(e.BlockHash[:]))
	return n
}

// DecodeEth1Data reads an Eth1Data value out of its tree.
func DecodeEth1Data(n trie.Node) (Eth1Data, error) {
	var e Eth1Data
	drNode, err := Eth1DataSchema.Get(n, 0)
	if err != nil {
		return e, err
	}
	dcNode, err := Eth1DataSchema.Get(n, 1)
	if err != nil {
		return e, err
	}
	bhNode, err := Eth1DataSchema.Get(n, 2)
	if err != nil {
		return e, err
	}
	leaf, ok := drNode.(*trie.Leaf)
	if !ok {
		return e, ssz.ErrWrongNodeKind
	}
	data := leaf.Data()
	copy(e.DepositRoot[:], data[:])
	dc, err := ssz.DecodeUint64(dcNode)
	if err != nil {
		return e, err
	}
	e.DepositCount = dc
	leaf, ok = bhNode.(*trie.Leaf)
	if !ok {
		return e, ssz.ErrWrongNodeKind
	}
	data = leaf.Data()
	copy(e.BlockHash[:], data[:])
	return e, nil
}

// EncodeBlockHeader builds the tree for a BeaconBlockHeader value.
func EncodeBlockHeader(h BeaconBlockHeader) trie.Node {
	n := BeaconBlockHeaderSchema.DefaultTree()
	n, _ = BeaconBlockHeaderSchema.Set(n, 0, ssz.EncodeUint64(uint64(h.Slot)))
	n, _ = BeaconBlockHeaderSchema.Set(n, 1, ssz.EncodeUint64(uint64(h.ProposerIndex)))
	n, _ = BeaconBlockHeaderSchema.Set(n, 2, bytesNNode(h.ParentRoot[:]))
	n, _ = BeaconBlockHeaderSchema.Set(n, 3, bytesNNode(h.StateRoot[:]))
	n, _ = BeaconBlockHeaderSchema.Set(n, 4, bytesNNode(h.BodyRoot[:]))
	return n
}

// DecodeBlockHeader reads a BeaconBlockHeader value out of its tree.
func DecodeBlockHeader(n trie.Node) (BeaconBlockHeader, error) {
	var h BeaconBlockHeader
	fields := make([]trie.Node, 5)
	for i := range fields {
		var err error
		fields[i], err = BeaconBlockHeaderSchema.Get(n, i)
		if err != nil {
			return h, err
		}
	}
	slot, err := ssz.DecodeUint64(fields[0])
	if err != nil {
		return h, err
	}
	proposer, err := ssz.DecodeUint64(fields[1])
	if err != nil {
		return h, err
	}
	h.Slot = primitives.Slot(slot)
	h.ProposerIndex = primitives.ValidatorIndex(proposer)
	for i, dst := range []*[32]byte{&h.ParentRoot, &h.StateRoot, &h.BodyRoot} {
		leaf, ok := fields[i+2].(*trie.Leaf)
		if !ok {
			return h, ssz.ErrWrongNodeKind
		}
		data := leaf.Data()
		copy(dst[:], data[:])
	}
	return h, nil
}

// EncodeValidator builds the tree for a Validator registry entry.
func EncodeValidator(v *Validator) trie.Node {
	n := ValidatorSchema.DefaultTree()
	n, _ = ValidatorSchema.Set(n, 0, bytesNNode(v.PublicKey[:]))
	n, _ = ValidatorSchema.Set(n, 1, bytesNNode(v.WithdrawalCredentials[:]))
	n, _ = ValidatorSchema.Set(n, 2, ssz.EncodeUint64(v.EffectiveBalance))
	n, _ = ValidatorSchema.Set(n, 3, ssz.EncodeBool(v.Slashed))
	n, _ = ValidatorSchema.Set(n, 4, ssz.EncodeUint64(uint64(v.ActivationEligibilityEpoch)))
	n, _ = ValidatorSchema.Set(n, 5, ssz.EncodeUint64(uint64(v.ActivationEpoch)))
	n, _ = ValidatorSchema.Set(n, 6, ssz.EncodeUint64(uint64(v.ExitEpoch)))
	n, _ = ValidatorSchema.Set(n, 7, ssz.EncodeUint64(uint64(v.WithdrawableEpoch)))
	return n
}

// DecodeValidator reads a Validator registry entry out of its tree.
func DecodeValidator(n trie.Node) (*Validator, error) {
	fields := make([]trie.Node, 8)
	for i := range fields {
		var err error
		fields[i], err = ValidatorSchema.Get(n, i)
		if err != nil {
			return nil, err
		}
	}
	v := &Validator{}
	leaf, ok := fields[0].(*trie.Leaf)
	if !ok {
		return nil, ssz.ErrWrongNodeKind
	}
	data := leaf.Data()
	copy(v.PublicKey[:], data[:])
	leaf, ok = fields[1].(*trie.Leaf)
	if !ok {
		return nil, ssz.ErrWrongNodeKind
	}
	data = leaf.Data()
	copy(v.WithdrawalCredentials[:], data[:])
	balance, err := ssz.DecodeUint64(fields[2])
	if err != nil {
		return nil, err
	}
	v.EffectiveBalance = balance
	slashed, err := ssz.DecodeBool(fields[3])
	if err != nil {
		return nil, err
	}
	v.Slashed = slashed
	epochs := make([]primitives.Epoch, 4)
	for i := 0; i < 4; i++ {
		e, err := ssz.DecodeUint64(fields[4+i])
		if err != nil {
			return nil, err
		}
		epochs[i] = primitives.Epoch(e)
	}
	v.ActivationEligibilityEpoch = epochs[0]
	v.ActivationEpoch = epochs[1]
	v.ExitEpoch = epochs[2]
	v.WithdrawableEpoch = epochs[3]
	return v, nil
}
