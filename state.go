package traitquery

// state is what a trait query keeps between executions: the trait's entries
// as of construction, the match list cache and the declared access.
type state struct {
	trait  TraitID
	cache  *matchCache
	access Access
	policy AmbiguityPolicy
}

// newState snapshots trait from r, sealing r.
func newState(r *Registry, trait TraitID, write bool) *state {
	entries := r.snapshot(trait)
	return &state{
		trait:  trait,
		cache:  newMatchCache(trait, entries),
		access: newAccess(entries, write),
		policy: Config.AmbiguityPolicy(),
	}
}

// matchList returns the cached match list for u.
func (s *state) matchList(u Unit) MatchList {
	return s.cache.get(u.Mask())
}
