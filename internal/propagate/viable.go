package propagate

import "github.com/mitchgrout/maw32trail/internal/diffs"

// IsViable is a cheap upper-bound filter applied before a candidate
// input difference is handed to the full Propagate search: it walks
// only the message-schedule extension (never the compression
// function's registers) and asks whether enough of the extended
// schedule words can plausibly reach zero for a full propagation to
// be worth attempting.
//
// The threshold is the same "at least 1-in-4 of the extended words
// are zero" ratio the original tool used; it is not configurable
// because it is a cheap pre-filter, not a cryptographic parameter.
func IsViable(resolver *Resolver, sched [8]byte, rounds int) bool {
	var working [16]byte
	copy(working[:8], sched[:])
	return isViable(resolver, working, rounds, 8, 0)
}

func isViable(resolver *Resolver, sched [16]byte, rounds, t, ctr int) bool {
	const x, y = 4, 1

	if t >= rounds {
		base := rounds
		if base < 8 {
			base = 8
		}
		return x*ctr >= y*(base-8)
	}

	w0 := diffs.Sigma0(sched[t-3])
	w1 := diffs.Sigma1(sched[t-8])
	for _, t1 := range resolver.Add(w0, w1) {
		for _, t2 := range resolver.Add(sched[t-4], t1) {
			next := sched
			next[t] = t2
			inc := 0
			if t2 == 0 {
				inc = 1
			}
			if isViable(resolver, next, rounds, t+1, ctr+inc) {
				return true
			}
		}
	}
	return false
}
