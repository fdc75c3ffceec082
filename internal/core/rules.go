package core

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewWorkerCountRule())
	engine.Register(NewRecordIdentityRule())
	engine.Register(NewVitalsAlertRule())
	return engine
}
