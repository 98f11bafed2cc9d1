package world

import "cachecraft.gg/internal/protocol"

type Outcome string

const (
	OutcomeNoop     Outcome = "NOOP"
	OutcomePickup   Outcome = "PICKUP"
	OutcomePlace    Outcome = "PLACE"
	OutcomeCombine  Outcome = "COMBINE"
	OutcomeRejected Outcome = "REJECTED"
)

// ClickResult is the full outcome of one click. Rejections are normal
// results carrying an error code and message, never Go errors; the
// transport layer decides how to show them.
type ClickResult struct {
	Outcome Outcome
	Code    string // protocol error code when rejected
	Message string

	Cell    Cell
	Content Content // resolved content of the cell after the click
	Held    Content // held token after the click

	// Win is the read-only victory observation: true when the held or the
	// just-crafted token reached the threshold. It never blocks play.
	Win bool
}

func (r ClickResult) Accepted() bool { return r.Outcome != OutcomeRejected }

// Click runs one interaction at c. Rules, in priority order:
// out of interaction range rejects; empty hand on an empty cell is a
// no-op; empty hand on a token picks it up; a held token placed on an
// empty cell is dropped; equal values combine into their double; unequal
// values reject.
func (w *World) Click(c Cell) ClickResult {
	if w.pos.Chebyshev(c) > w.cfg.InteractRadius {
		return ClickResult{
			Outcome: OutcomeRejected,
			Code:    protocol.ErrTooFar,
			Message: "too far away",
			Cell:    c,
			Content: w.Resolve(c),
			Held:    w.held,
		}
	}

	cur := w.Resolve(c)
	res := ClickResult{Cell: c}
	switch {
	case cur == Empty && w.held == Empty:
		res.Outcome = OutcomeNoop

	case cur.IsToken() && w.held == Empty:
		w.held = cur
		w.Mutate(c, Empty)
		res.Outcome = OutcomePickup

	case cur == Empty:
		w.Mutate(c, w.held)
		w.held = Empty
		res.Outcome = OutcomePlace

	case cur == w.held:
		// Doubling is uncapped; the win threshold is an observation, not
		// a ceiling.
		w.Mutate(c, cur*2)
		w.held = Empty
		res.Outcome = OutcomeCombine

	default:
		res.Outcome = OutcomeRejected
		res.Code = protocol.ErrValueMismatch
		res.Message = "values must match"
	}

	res.Content = w.Resolve(c)
	res.Held = w.held
	res.Win = res.Held >= w.cfg.WinThreshold || res.Content >= w.cfg.WinThreshold
	return res
}
