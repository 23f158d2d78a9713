package reconcile

// MatchedPair binds one local and one remote record by correlation key.
// Each record appears in at most one pair per run.
type MatchedPair struct {
	Local  NormalizedLocal
	Remote NormalizedRemote
}

// MatchResult partitions both normalized sequences: every record lands in
// exactly one of Pairs, LocalOrphans or RemoteOrphans.
type MatchResult struct {
	Pairs         []MatchedPair
	LocalOrphans  []NormalizedLocal
	RemoteOrphans []NormalizedRemote
}

// Match partitions the two sequences by exact correlation key. No fuzzy
// matching. When several local records share a key, the first unmatched one
// in input order wins; inputs are pre-sorted by creation time, so the
// tie-break is positional. A local record with no key is automatically a
// local orphan. Output order follows input order.
func Match(locals []NormalizedLocal, remotes []NormalizedRemote) MatchResult {
	remoteByKey := make(map[string]int, len(remotes))
	for i, r := range remotes {
		// Duplicate remote keys keep the first occurrence.
		if _, exists := remoteByKey[r.Key]; !exists {
			remoteByKey[r.Key] = i
		}
	}

	result := MatchResult{}
	consumed := make([]bool, len(remotes))

	for _, l := range locals {
		if l.Key == "" {
			result.LocalOrphans = append(result.LocalOrphans, l)
			continue
		}
		idx, ok := remoteByKey[l.Key]
		if !ok || consumed[idx] {
			result.LocalOrphans = append(result.LocalOrphans, l)
			continue
		}
		consumed[idx] = true
		result.Pairs = append(result.Pairs, MatchedPair{Local: l, Remote: remotes[idx]})
	}

	for i, r := range remotes {
		if !consumed[i] {
			result.RemoteOrphans = append(result.RemoteOrphans, r)
		}
	}

	return result
}
