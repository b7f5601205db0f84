package blocks

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/crypto/hash"
)

// depositContractTreeDepth is the depth of the deposit contract's
// incremental Merkle tree; deposit proofs carry one extra branch entry
// mixing in the tree's element count, matching the 33-entry Proof array.
const depositContractTreeDepth = 32

// verifyMerkleBranch re-derives a root by folding leaf up through branch
// using index's bits to choose, at each level, whether the sibling is
// hashed on the left or the right — the same combining rule
// (container/trie's Branch) applied outside the tree structure, since a
// deposit proof is a flat array rather than a trie.Node.
func verifyMerkleBranch(leaf [32]byte, branch [33][32]byte, depth int, index uint64, root [32]byte) bool {
	value := leaf
	for i := 0; i < depth; i++ {
		if (index>>uint(i))&1 == 1 {
			value = hash.HashPair(branch[i], value)
		} else {
			value = hash.HashPair(value, branch[i])
		}
	}
	return value == root
}

// ProcessDeposits verifies each deposit's Merkle proof against st's
// accumulated Eth1Data deposit root and applies it: crediting an
// existing validator's balance, or appending a new registry entry.
func ProcessDeposits(st beaconstate.BeaconState, cfg *params.BeaconChainConfig, deposits []consensusblocks.Deposit) error {
	for _, d := range deposits {
		index := st.Eth1DepositIndex()
		leaf := d.Data.HashTreeRoot()
		if !verifyMerkleBranch(leaf, d.Proof, depositContractTreeDepth+1, index, st.Eth1Data().DepositRoot) {
			return ErrDepositMerkleBranchInvalid
		}
		if err := st.SetEth1DepositIndex(index + 1); err != nil {
			return err
		}
		if existing, ok := st.ValidatorIndexByPubkey(d.Data.PublicKey); ok {
			bal, err := st.BalanceAtIndex(existing)
			if err != nil {
				return err
			}
			if err := st.SetBalanceAtIndex(existing, bal+d.Data.Amount); err != nil {
				return err
			}
			continue
		}
		effective := d.Data.Amount - (d.Data.Amount % cfg.EffectiveBalanceIncrement)
		if effective > cfg.MaxEffectiveBalance {
			effective = cfg.MaxEffectiveBalance
		}
		v := &beaconstate.Validator{
			PublicKey:                  d.Data.PublicKey,
			WithdrawalCredentials:      d.Data.WithdrawalCredentials,
			EffectiveBalance:           effective,
			ActivationEligibilityEpoch: farFutureEpoch,
			ActivationEpoch:            farFutureEpoch,
			ExitEpoch:                  farFutureEpoch,
			WithdrawableEpoch:          farFutureEpoch,
		}
		if err := st.AppendValidator(v); err != nil {
			return err
		}
		if err := st.AppendBalance(d.Data.Amount); err != nil {
			return err
		}
	}
	return nil
}
