package units

import "fmt"

// Unit tags used by the tensile test records
const (
	// Displacement
	Millimeter = "mm"
	Meter      = "m"

	// Force
	Newton     = "N"
	Kilonewton = "kN"

	// MPa is the only supported unit system: lengths in mm, forces in N,
	// stresses in N/mm² (MPa)
	MPa = "MPa"

	// Conversion factors to the MPa system
	MetersToMillimeters  = 1000.0
	KilonewtonsToNewtons = 1000.0
)

// DisplacementFactor returns the factor that converts a displacement given in
// unit into the length unit of system.
func DisplacementFactor(unit, system string) (float64, error) {
	if system != MPa {
		return 0, fmt.Errorf("unsupported unit system %q", system)
	}
	switch unit {
	case Millimeter:
		return 1, nil
	case Meter:
		return MetersToMillimeters, nil
	}
	return 0, fmt.Errorf("unsupported displacement unit %q", unit)
}

// ForceFactor returns the factor that converts a force given in unit into the
// force unit of system.
func ForceFactor(unit, system string) (float64, error) {
	if system != MPa {
		return 0, fmt.Errorf("unsupported unit system %q", system)
	}
	switch unit {
	case Newton:
		return 1, nil
	case Kilonewton:
		return KilonewtonsToNewtons, nil
	}
	return 0, fmt.Errorf("unsupported force unit %q", unit)
}

// Target returns the displacement and force units of system.
func Target(system string) (disp, force string, err error) {
	if system != MPa {
		return "", "", fmt.Errorf("unsupported unit system %q", system)
	}
	return Millimeter, Newton, nil
}
