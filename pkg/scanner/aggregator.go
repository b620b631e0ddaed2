package scanner

// Aggregator accumulates captured values per category.
//
// Each category keeps the raw values in scan order, duplicates included, and
// after Finalize a unique list in first-seen order. Only the unique list is
// used for script generation; the raw count is informational.
type Aggregator struct {
	raw    [NumCategories][]string
	unique [NumCategories][]string
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends v to the raw list of c. Invalid categories are ignored.
func (a *Aggregator) Record(c Category, v string) {
	if !c.Valid() {
		return
	}
	a.raw[c] = append(a.raw[c], v)
}

// Finalize rebuilds every category's unique list from its raw list, keeping
// the first occurrence of each value in scan order. It may be called again
// after further Record calls; with unchanged raw lists the result is the same.
func (a *Aggregator) Finalize() {
	for c := range a.raw {
		a.unique[c] = firstSeen(a.raw[c])
	}
}

func firstSeen(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Raw returns the captured values of c in scan order.
func (a *Aggregator) Raw(c Category) []string {
	if !c.Valid() {
		return nil
	}
	return a.raw[c]
}

// Values returns the unique values of c in first-seen order.
// Empty until Finalize has been called.
func (a *Aggregator) Values(c Category) []string {
	if !c.Valid() {
		return nil
	}
	return a.unique[c]
}

// Counts returns the raw and unique counts of c.
func (a *Aggregator) Counts(c Category) (raw, unique int) {
	if !c.Valid() {
		return 0, 0
	}
	return len(a.raw[c]), len(a.unique[c])
}

// Diagnostics returns the number of emittable categories with at least one
// unique value.
func (a *Aggregator) Diagnostics() int {
	n := 0
	for _, c := range Categories() {
		if c.Emittable() && len(a.unique[c]) > 0 {
			n++
		}
	}
	return n
}

// Total returns the number of raw captures across all categories.
func (a *Aggregator) Total() int {
	n := 0
	for c := range a.raw {
		n += len(a.raw[c])
	}
	return n
}
