package engine

// ============================================================================
// RECORD VIEW — read access to the launch records
// ============================================================================
// The dataset is loaded once and never mutated. Every pipeline step (site
// filter, payload range, grouping) narrows a view instead of copying rows:
//
//   SliceView: the loaded records
//   SubView:   row indices into a SliceView
// ============================================================================

// RecordView provides indexed access to launch records. Out-of-range indices
// read as the zero value.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
}

// SliceView is the full record set as read from the CSV.
type SliceView struct {
	records []Record
}

// NewSliceView wraps records. The caller must not modify them afterwards.
func NewSliceView(records []Record) RecordView {
	return &SliceView{records: records}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return 0
	}
	return v.records[i].Measures[key]
}

// SubView selects rows of a root view by index. Narrowing a SubView again
// maps the indices straight onto the root, so a site filter followed by a
// payload range and a grouping still reads each record in one hop.
type SubView struct {
	root RecordView
	rows []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	sub, ok := parent.(*SubView)
	if !ok {
		return &SubView{root: parent, rows: indices}
	}
	rows := make([]int, len(indices))
	for i, idx := range indices {
		rows[i] = sub.rows[idx]
	}
	return &SubView{root: sub.root, rows: rows}
}

func (v *SubView) Len() int { return len(v.rows) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.rows) {
		return ""
	}
	return v.root.Dimension(v.rows[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.rows) {
		return 0
	}
	return v.root.Measure(v.rows[i], key)
}
