package language

// Group is a set of language codes submitted together in one recognition
// engine invocation. Order is preserved for deterministic dispatch.
type Group struct {
	Languages []string
}

// Contains reports whether the group includes the given code.
func (g Group) Contains(code string) bool { return contains(g.Languages, code) }

// PlanGroups partitions a fixed-up language set into the groups the engine
// will be invoked with. Each language is consumed by at most one rule, first
// match wins; only the hub may appear in multiple groups:
//
//  1. Isolation leader present: one group with the full fixed companion set.
//  2. One {lang, hub} group per solo script.
//  3. One hub-prefixed group for all requested devanagari scripts.
//  4. One {lang, hub} group per remaining non-Latin auxiliary script.
//  5. Remaining Latin-family languages in one final group, hub appended when
//     it has not been emitted elsewhere.
//  6. Degenerate fallback: the input verbatim as a single group.
//
// Mixing scripts that need character-set-specific decoding in one call costs
// accuracy, while the hub's Latin alphabet is cheap to include everywhere.
func PlanGroups(languages []string) []Group {
	langs := Normalize(languages)
	if len(langs) == 0 {
		return nil
	}

	var groups []Group
	consumed := make(map[string]struct{}, len(langs))
	hubEmitted := false

	emit := func(codes []string) {
		groups = append(groups, Group{Languages: codes})
		for _, c := range codes {
			if c == Hub {
				hubEmitted = true
				continue
			}
			consumed[c] = struct{}{}
		}
	}
	isConsumed := func(code string) bool {
		_, ok := consumed[code]
		return ok
	}

	// Rule 1: isolation group swallows the leader and its companions.
	if contains(langs, IsolationLeader) {
		emit(append([]string(nil), isolationSet...))
	}

	// Rule 2: solo scripts, one engine call each.
	for _, l := range langs {
		if _, ok := soloLookup[l]; ok && !isConsumed(l) {
			emit([]string{l, Hub})
		}
	}

	// Rule 3: devanagari scripts share one call, hub first.
	devanagari := []string{Hub}
	for _, l := range langs {
		if _, ok := devanagariLookup[l]; ok && !isConsumed(l) {
			devanagari = append(devanagari, l)
		}
	}
	if len(devanagari) > 1 {
		emit(devanagari)
	}

	// Rule 4: remaining non-Latin auxiliary scripts pair with the hub.
	for _, l := range langs {
		if _, ok := auxLookup[l]; ok && !isConsumed(l) {
			emit([]string{l, Hub})
		}
	}

	// Rule 5: whatever is left is Latin-family and shares one call.
	var latin []string
	for _, l := range langs {
		if l == Hub || isConsumed(l) {
			continue
		}
		latin = append(latin, l)
	}
	if len(latin) > 0 {
		if !hubEmitted {
			latin = append(latin, Hub)
		}
		emit(latin)
	}

	// Rule 6: degenerate input that matched nothing above.
	if len(groups) == 0 {
		emit(langs)
	}
	return groups
}

// Union returns the deduplicated union of all group languages, preserving
// group order.
func Union(groups []Group) []string {
	var all []string
	for _, g := range groups {
		all = append(all, g.Languages...)
	}
	return Normalize(all)
}
