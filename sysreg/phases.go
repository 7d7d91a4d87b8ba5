package sysreg

// Canonical phase names from spec.md §4.5. Concrete systems declare
// DependsOn in terms of these (or of specific system names within a phase)
// so the topological sort reproduces the canonical layering without the
// registry having to hardcode phase order itself.
const (
	PhaseInput      = "phase.input"
	PhaseSpawn      = "phase.spawn"
	PhasePlacement  = "phase.placement"
	PhaseMechanics  = "phase.mechanics"
	PhaseMovement   = "phase.movement"
	PhaseVision     = "phase.vision"
	PhaseCombat     = "phase.combat"
	PhaseEconomy    = "phase.economy"
	PhaseAI         = "phase.ai"
	PhaseOutput     = "phase.output"
	PhaseMeta       = "phase.meta"
)

// phaseOrder lists the canonical layering in order; phaseBarrier declares a
// no-op barrier system per phase so concrete systems can depend on "the
// previous phase finished" without naming every system in it.
var phaseOrder = []string{
	PhaseInput, PhaseSpawn, PhasePlacement, PhaseMechanics, PhaseMovement,
	PhaseVision, PhaseCombat, PhaseEconomy, PhaseAI, PhaseOutput, PhaseMeta,
}

type barrierSystem struct{}

func (barrierSystem) Update(uint64) {}

// DeclareBarriers registers one no-op system per canonical phase, each
// depending on the previous phase's barrier, giving every later
// declaration a single stable dependency name ("phase.movement") instead of
// requiring it to enumerate every system in every earlier phase.
func DeclareBarriers(r *Registry) {
	var prev string
	for _, phase := range phaseOrder {
		deps := []string(nil)
		if prev != "" {
			deps = []string{prev}
		}
		r.Declare(Declaration{
			Name:      phase,
			DependsOn: deps,
			Factory:   func(any) System { return barrierSystem{} },
		})
		prev = phase
	}
}
