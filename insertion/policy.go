package insertion

// PositionKind selects which tour positions a job may be evaluated against.
type PositionKind int

const (
	// Any considers every position 1..Total()-1 in the tour (the usual case).
	Any PositionKind = iota
	// Concrete restricts evaluation to exactly one position index.
	Concrete
	// Last restricts evaluation to the position immediately before the tour's
	// end activity (used by fake-job synchronisation in search.Repair).
	Last
)

// Policy restricts which insertion positions within a route are considered.
type Policy struct {
	Kind  PositionKind
	Index int // meaningful only when Kind == Concrete
}

// AnyPosition is the default, unrestricted policy.
func AnyPosition() Policy { return Policy{Kind: Any} }

// ConcretePosition restricts evaluation to position idx.
func ConcretePosition(idx int) Policy { return Policy{Kind: Concrete, Index: idx} }

// LastPosition restricts evaluation to the tour's last open slot.
func LastPosition() Policy { return Policy{Kind: Last} }

// positions returns the candidate position indices for this policy over a tour
// with total activities (including the start depot and, if hasEnd, the end
// depot). An open-ended tour (hasEnd==false, no mandatory return) has one more
// valid slot than a closed one: appending after the last activity, since there
// is no end depot to keep last.
func (p Policy) positions(total int, hasEnd bool) []int {
	last := total - 1
	if !hasEnd {
		last = total
	}
	switch p.Kind {
	case Concrete:
		if p.Index < 1 || p.Index > last {
			return nil
		}
		return []int{p.Index}
	case Last:
		return []int{last}
	default:
		out := make([]int, 0, last)
		for i := 1; i <= last; i++ {
			out = append(out, i)
		}
		return out
	}
}
