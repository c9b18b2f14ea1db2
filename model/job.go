package model

// OffsetSpan is a departure-relative time span: [Start, End] measured as an offset
// from the tour's start departure rather than an absolute instant. It is
// re-materialised into an absolute TimeWindow whenever the tour's departure shifts.
type OffsetSpan struct {
	Start Duration
	End   Duration
}

// TimeSpan is either an absolute TimeWindow or a departure-relative OffsetSpan.
// Exactly one field is set.
type TimeSpan struct {
	Window *TimeWindow
	Offset *OffsetSpan
}

// WindowSpan wraps an absolute time window.
func WindowSpan(tw TimeWindow) TimeSpan { return TimeSpan{Window: &tw} }

// OffsetSpanOf wraps a departure-relative offset.
func OffsetSpanOf(start, end Duration) TimeSpan {
	return TimeSpan{Offset: &OffsetSpan{Start: start, End: end}}
}

// Resolve turns the span into an absolute TimeWindow given the tour's current start
// departure. Absolute spans ignore tourStart entirely.
func (ts TimeSpan) Resolve(tourStart Timestamp) TimeWindow {
	if ts.Window != nil {
		return *ts.Window
	}
	return TimeWindow{Start: tourStart + ts.Offset.Start, End: tourStart + ts.Offset.End}
}

// IsOffset reports whether this span needs re-materialisation on departure shift.
func (ts TimeSpan) IsOffset() bool { return ts.Offset != nil }

// Place is where and when a job (or one of a Multi's sub-jobs) may be served.
type Place struct {
	Location *Location // nil means "any reachable location" (rare, e.g. a depot-agnostic break)
	Duration Duration
	Times    []TimeSpan // candidate time spans; any one may be chosen at insertion time
}

// Job is either a Single job or a Multi (all-or-nothing group of sub-jobs).
// Implemented as a closed interface rather than an enum, following the codebase's
// existing Event-interface idiom for small tagged unions.
type Job interface {
	jobMarker()
	// Dimens returns the job's extra dimensions (demand, skills, group id, ...).
	Dimens() Dimensions
}

// Single is a job with a single set of candidate places.
type Single struct {
	Places     []Place
	Dimensions Dimensions
}

func (*Single) jobMarker() {}

// Dimens implements Job.
func (s *Single) Dimens() Dimensions { return s.Dimensions }

// Multi is a job whose sub-jobs must either all be inserted (in a permutation
// consistent with any ordering dimension) or none at all.
type Multi struct {
	Jobs       []*Single
	Dimensions Dimensions
}

func (*Multi) jobMarker() {}

// Dimens implements Job.
func (m *Multi) Dimens() Dimensions { return m.Dimensions }

// strictOrderKey is the Dimensions key a Multi may set to true to require its
// sub-jobs be visited in declaration order rather than any permutation.
const strictOrderKey = "multi_strict_order"

// StrictOrder reports whether this Multi's sub-jobs must appear in declaration order.
func (m *Multi) StrictOrder() bool {
	v, _ := m.Dimensions[strictOrderKey].(bool)
	return v
}

// WithStrictOrder marks a Multi as requiring its declared sub-job order.
func (m *Multi) WithStrictOrder() *Multi {
	if m.Dimensions == nil {
		m.Dimensions = Dimensions{}
	}
	m.Dimensions[strictOrderKey] = true
	return m
}

// Validate checks that the given ordered sequence of sub-jobs (as they physically
// appear in a tour) is a valid permutation of m.Jobs: every sub-job present exactly
// once, and, if StrictOrder is set, in declaration order.
func (m *Multi) Validate(ordered []*Single) bool {
	if len(ordered) != len(m.Jobs) {
		return false
	}
	seen := make(map[*Single]bool, len(m.Jobs))
	for _, s := range m.Jobs {
		seen[s] = false
	}
	for _, s := range ordered {
		seen2, ok := seen[s]
		if !ok || seen2 {
			return false
		}
		seen[s] = true
	}
	if m.StrictOrder() {
		for i, s := range ordered {
			if s != m.Jobs[i] {
				return false
			}
		}
	}
	return true
}

// Locations returns every candidate location referenced by this job (used for
// neighbour queries and distance-to-job estimates).
func Locations(job Job) []Location {
	var locs []Location
	switch j := job.(type) {
	case *Single:
		for _, p := range j.Places {
			if p.Location != nil {
				locs = append(locs, *p.Location)
			}
		}
	case *Multi:
		for _, s := range j.Jobs {
			for _, p := range s.Places {
				if p.Location != nil {
					locs = append(locs, *p.Location)
				}
			}
		}
	}
	return locs
}
