package eval

import "github.com/lithammer/fuzzysearch/fuzzy"

// suggestName returns a best-effort "did you mean" candidate for a name
// that failed to resolve, drawn from candidates (the caller passes every
// name bound across the whole scope chain). It powers the `help` context
// key on NoBinding errors; NoKey errors carry no suggestion and is never on a success path, so a linear fuzzy rank over
// the whole scope is an acceptable cost.
func suggestName(candidates []string, name string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	return ranks[0].Target, true
}
