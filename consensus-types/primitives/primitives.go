// Package primitives defines the small set of distinctly-typed uint64
// quantities that thread through the beacon chain core (slots, epochs,
// validator/committee indices), so a slot can never be passed where an
// epoch is expected without an explicit conversion.
package primitives

// Slot is a single beacon chain slot number.
type Slot uint64

// Epoch is a single beacon chain epoch number.
type Epoch uint64

// ValidatorIndex addresses a validator within BeaconState.Validators.
type ValidatorIndex uint64

// CommitteeIndex addresses a committee within a slot's committee set.
type CommitteeIndex uint64

// Gwei is an amount of the native staking unit.
type Gwei uint64

// ToEpoch converts a slot to its containing epoch given slotsPerEpoch.
func (s Slot) ToEpoch(slotsPerEpoch uint64) Epoch {
	return Epoch(uint64(s) / slotsPerEpoch)
}

// Add returns s+x.
func (s Slot) Add(x uint64) Slot { return s + Slot(x) }

// Sub returns s-x, floored at 0.
func (s Slot) Sub(x uint64) Slot {
	if uint64(s) < x {
		return 0
	}
	return s - Slot(x)
}

// Add returns e+x.
func (e Epoch) Add(x uint64) Epoch { return e + Epoch(x) }

// Sub returns e-x, floored at 0.
func (e Epoch) Sub(x uint64) Epoch {
	if uint64(e) < x {
		return 0
	}
	return e - Epoch(x)
}
