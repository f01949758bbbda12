package consts

const (
	DROP_TOLERANCE  = 1e-13 // Entries at or below this magnitude are skipped on dense import
	TIES_MULTIPLIER = 5     // Markowitz ties multiplier handed to the sparse engine
	PRINTER_WIDTH   = 140   // Engine print width
	MAX_ITER        = 100   // Default iteration limit for block solvers
	ABSTOL          = 1e-12 // Absolute solution-change tolerance
	RELTOL          = 1e-6  // Relative solution-change tolerance
	RESTOL          = 1e-10 // Relative residual tolerance
)
