package scaler

import (
	"go.uber.org/atomic"
)

type StatisticsDropped struct {
	Invalid     uint64 `json:",omitempty"`
	Degenerate  uint64 `json:",omitempty"`
	Allocation  uint64 `json:",omitempty"`
	Accelerator uint64 `json:",omitempty"`
}

type Statistics struct {
	FramesReceived  uint64
	FramesProcessed uint64
	FramesDropped   StatisticsDropped
	BytesUploaded   uint64
	BytesReadBack   uint64
}

func (s Statistics) FramesDroppedTotal() uint64 {
	d := s.FramesDropped
	return d.Invalid + d.Degenerate + d.Allocation + d.Accelerator
}

type countersDropped struct {
	Invalid     atomic.Uint64
	Degenerate  atomic.Uint64
	Allocation  atomic.Uint64
	Accelerator atomic.Uint64
}

type counters struct {
	FramesReceived  atomic.Uint64
	FramesProcessed atomic.Uint64
	FramesDropped   countersDropped
	BytesUploaded   atomic.Uint64
	BytesReadBack   atomic.Uint64
}

func (c *counters) Convert() Statistics {
	return Statistics{
		FramesReceived:  c.FramesReceived.Load(),
		FramesProcessed: c.FramesProcessed.Load(),
		FramesDropped: StatisticsDropped{
			Invalid:     c.FramesDropped.Invalid.Load(),
			Degenerate:  c.FramesDropped.Degenerate.Load(),
			Allocation:  c.FramesDropped.Allocation.Load(),
			Accelerator: c.FramesDropped.Accelerator.Load(),
		},
		BytesUploaded: c.BytesUploaded.Load(),
		BytesReadBack: c.BytesReadBack.Load(),
	}
}
