package service

import "hash/fnv"

// LaneRouter deterministically maps a doctor to one of the configured
// lanes. The hash is content-stable (FNV-1a over the identifier), so a
// doctor lands in the same lane across restarts and across instances.
// Changing the lane count re-shuffles the mapping; lane assignment is
// per-day operational routing, not durable identity.
type LaneRouter struct {
	lanes []string
}

func NewLaneRouter(lanes []string) *LaneRouter {
	return &LaneRouter{lanes: lanes}
}

func (r *LaneRouter) LaneFor(doctorID string) string {
	if len(r.lanes) == 0 {
		return "A"
	}
	if doctorID == "" {
		return r.lanes[0]
	}

	h := fnv.New32a()
	h.Write([]byte(doctorID))
	return r.lanes[h.Sum32()%uint32(len(r.lanes))]
}

func (r *LaneRouter) Lanes() []string {
	return r.lanes
}
