package protoarray

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	arenaSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "protoarray_nodes_total",
		Help: "Number of nodes currently held in the ProtoArray fork-choice arena.",
	})
	headSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "protoarray_head_slot",
		Help: "Slot of the current fork-choice head.",
	})
)
