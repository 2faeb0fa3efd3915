package core

// SumCounters adds counters group by group and name by name. Groups and
// counters keep the order in which they were first seen.
func SumCounters(all ...Counters) Counters {
	var out Counters
	groupIdx := make(map[string]int)
	counterIdx := make(map[string]map[string]int)

	for _, c := range all {
		for _, g := range c.Groups {
			gi, ok := groupIdx[g.Name]
			if !ok {
				gi = len(out.Groups)
				groupIdx[g.Name] = gi
				counterIdx[g.Name] = make(map[string]int)
				out.Groups = append(out.Groups, CounterGroup{Name: g.Name, DisplayName: g.DisplayName})
			}
			group := &out.Groups[gi]
			for _, counter := range g.Counters {
				ci, ok := counterIdx[g.Name][counter.Name]
				if !ok {
					counterIdx[g.Name][counter.Name] = len(group.Counters)
					group.Counters = append(group.Counters, counter)
					continue
				}
				group.Counters[ci].Value += counter.Value
			}
		}
	}
	return out
}

// Value returns the value of a counter and whether it exists.
func (c Counters) Value(group, name string) (int64, bool) {
	for _, g := range c.Groups {
		if g.Name != group {
			continue
		}
		for _, counter := range g.Counters {
			if counter.Name == name {
				return counter.Value, true
			}
		}
	}
	return 0, false
}

// Clone returns a deep copy.
func (c Counters) Clone() Counters {
	if c.Groups == nil {
		return Counters{}
	}
	groups := make([]CounterGroup, len(c.Groups))
	for i, g := range c.Groups {
		groups[i] = CounterGroup{
			Name:        g.Name,
			DisplayName: g.DisplayName,
			Counters:    append([]Counter(nil), g.Counters...),
		}
	}
	return Counters{Groups: groups}
}
