package protoarray

import "errors"

var (
	errUnknownParent            = errors.New("parent node does not exist in fork choice store")
	errUnknownJustifiedRoot     = errors.New("justified root does not exist in fork choice store")
	errUnknownFinalizedRoot     = errors.New("finalized root does not exist in fork choice store")
	errInvalidJustifiedIndex    = errors.New("justified index is out of arena bounds")
	errInvalidBestDescendantIndex = errors.New("best descendant index is out of arena bounds")
	errInvalidNodeIndex         = errors.New("node index is out of arena bounds")
	errInvalidDeltaLength       = errors.New("delta length does not match arena length")
	errInvalidBalanceLength     = errors.New("new balance length does not match vote length")
)
