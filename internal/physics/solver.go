package physics

// ConstraintSolver runs the sequential-impulse iterations over a set of
// constraints. Velocity iterations run after contact resolution inside the
// velocity phase; position iterations run during stabilization, after
// positions have been integrated.
type ConstraintSolver struct {
	VelocityIterations int
	PositionIterations int
}

func NewConstraintSolver(velocityIterations, positionIterations int) *ConstraintSolver {
	if velocityIterations < 1 {
		velocityIterations = 1
	}
	if positionIterations < 0 {
		positionIterations = 0
	}
	return &ConstraintSolver{
		VelocityIterations: velocityIterations,
		PositionIterations: positionIterations,
	}
}

// SolveVelocities warm-starts every active constraint once, runs the
// velocity iterations, then checks breaking thresholds against the impulse
// each constraint accumulated this step.
func (s *ConstraintSolver) SolveVelocities(constraints []Constraint, dt float32) {
	for _, c := range constraints {
		if constraintAsleep(c) {
			continue
		}
		c.PreSolve(dt)
	}
	for i := 0; i < s.VelocityIterations; i++ {
		for _, c := range constraints {
			if constraintAsleep(c) {
				continue
			}
			c.SolveVelocity(dt)
		}
	}
	for _, c := range constraints {
		if cb, ok := c.(breakChecker); ok {
			cb.checkBreak(dt)
		}
	}
}

// SolvePositions runs the positional stabilization iterations.
func (s *ConstraintSolver) SolvePositions(constraints []Constraint, dt float32) {
	for i := 0; i < s.PositionIterations; i++ {
		for _, c := range constraints {
			if constraintAsleep(c) {
				continue
			}
			c.SolvePosition(dt)
		}
	}
}

// constraintAsleep reports whether every participant is asleep or
// non-dynamic. Solving such a joint would push velocity into sleeping
// bodies that integration then ignores.
func constraintAsleep(c Constraint) bool {
	if a := c.BodyA(); a != nil && !atRest(a) {
		return false
	}
	if b := c.BodyB(); b != nil && !atRest(b) {
		return false
	}
	return true
}

type breakChecker interface {
	checkBreak(dt float32)
}
