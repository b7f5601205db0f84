package blocks

import "github.com/sigmachain/beacon-core/consensus-types/primitives"

// farFutureEpoch marks a validator field as "not yet scheduled": the
// all-ones Epoch value no real epoch will ever reach.
const farFutureEpoch = ^primitives.Epoch(0)
