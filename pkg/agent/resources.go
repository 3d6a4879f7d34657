package agent

// ResourceIdSet maps a resource type to the specific resource unit ids
// reserved from it, e.g. "gpu" -> ["gpu-0", "gpu-2"].
type ResourceIdSet map[string][]string

// Returns a deep copy of the set.
func (s ResourceIdSet) Clone() ResourceIdSet {
	clone := ResourceIdSet{}
	for name, ids := range s {
		clone[name] = append([]string{}, ids...)
	}
	return clone
}

func (s ResourceIdSet) Empty() bool {
	return len(s) == 0
}

// ResourceInstances maps a resource type to the fractional amount
// allocated from each of its units. Resources may be fractionally
// shared between workers, so amounts are continuous.
type ResourceInstances map[string][]float64

func (r ResourceInstances) Clone() ResourceInstances {
	clone := ResourceInstances{}
	for name, amounts := range r {
		clone[name] = append([]float64{}, amounts...)
	}
	return clone
}

func (r ResourceInstances) Empty() bool {
	return len(r) == 0
}

// Total amount allocated for a resource type across all of its units.
func (r ResourceInstances) Total(name string) float64 {
	var total float64
	for _, amount := range r[name] {
		total += amount
	}
	return total
}
