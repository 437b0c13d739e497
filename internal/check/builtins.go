package check

// Thresholds configures the built-in checks. Values come from the
// caller's configuration; nothing here is hardcoded policy.
type Thresholds struct {
	LintLowMax        int
	ScopeRatio        float64
	CascadeIndicators []string
	CascadeHighCount  int
	RequiredSections  []string
	MinSteps          int
	CriticalFiles     []string
}

// Builtins returns the seven built-in checks wired with the given
// thresholds.
func Builtins(t Thresholds) []Check {
	return []Check{
		CompilationClean{},
		LintClean{LowMax: t.LintLowMax},
		UnexpectedFileTouch{CriticalFiles: t.CriticalFiles},
		ScopeExpansion{Ratio: t.ScopeRatio},
		DependencySatisfied{},
		PlanCompleteness{RequiredSections: t.RequiredSections, MinSteps: t.MinSteps},
		CascadeRisk{Indicators: t.CascadeIndicators, HighCount: t.CascadeHighCount},
	}
}

// RegisterBuiltins registers all built-in checks on the registry.
func RegisterBuiltins(r *Registry, t Thresholds) error {
	for _, c := range Builtins(t) {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
