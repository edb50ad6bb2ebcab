package realm

const (
	// SelfFirstStrategyName searches imports, then the realm itself, then the
	// parent.
	SelfFirstStrategyName = "self-first"
	// ParentFirstStrategyName searches imports, then the parent, then the
	// realm itself.
	ParentFirstStrategyName = "parent-first"
	// IsolatedStrategyName searches imports, then the realm itself, and never
	// the parent.
	IsolatedStrategyName = "isolated"
)

// NewSelfFirstStrategy is the StrategyFactory of the default strategy.
func NewSelfFirstStrategy(r *Realm) Strategy {
	return NewOrderedStrategy(r, ImportStep, SelfStep, ParentStep)
}

// NewParentFirstStrategy is the StrategyFactory of "parent-first".
func NewParentFirstStrategy(r *Realm) Strategy {
	return NewOrderedStrategy(r, ImportStep, ParentStep, SelfStep)
}

// NewIsolatedStrategy is the StrategyFactory of "isolated".
func NewIsolatedStrategy(r *Realm) Strategy {
	return NewOrderedStrategy(r, ImportStep, SelfStep)
}
