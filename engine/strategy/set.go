package strategy

import "fmt"

// Set holds one loader per strategy.
type Set struct {
	Direct      *DirectLoader
	Cached      *CachedLoader
	Declarative *DeclarativeLoader
}

func (s *Set) Loader(st Strategy) (Loader, error) {
	switch st {
	case Direct:
		return s.Direct, nil
	case Cached:
		return s.Cached, nil
	case Declarative:
		return s.Declarative, nil
	default:
		return nil, fmt.Errorf("no loader for %s", st)
	}
}
