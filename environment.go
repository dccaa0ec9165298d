package ascent

// ApproxFromCurve performs piecewise-linear interpolation of a 2-column
// table indexed by x, saturating at the endpoints, per spec.md §6's
// `approx_from_curve` collaborator contract.
func ApproxFromCurve(x float64, table [][2]float64) float64 {
	if len(table) == 0 {
		return 0
	}
	if x <= table[0][0] {
		return table[0][1]
	}
	last := len(table) - 1
	if x >= table[last][0] {
		return table[last][1]
	}
	for i := 0; i < last; i++ {
		x0, y0 := table[i][0], table[i][1]
		x1, y1 := table[i+1][0], table[i+1][1]
		if x >= x0 && x <= x1 {
			if x1 == x0 {
				return y0
			}
			frac := (x - x0) / (x1 - x0)
			return y0 + frac*(y1-y0)
		}
	}
	return table[last][1]
}

// airGasConstant is the specific gas constant of dry air, J/(kg*K).
const airGasConstant = 287.058

// AirDensity computes air density via the ideal gas law, per spec.md §6's
// `calculate_air_density` collaborator contract.
func AirDensity(pressurePa, temperatureK float64) float64 {
	if temperatureK <= 0 {
		return 0
	}
	return pressurePa / (airGasConstant * temperatureK)
}

// Pressure returns ambient atmospheric pressure in atmospheres at a given
// altitude above sea level (metres), per spec.md §4.2.
func (env Environment) Pressure(altitudeM float64) float64 {
	return ApproxFromCurve(altitudeM/1000, env.PressureTable)
}

// Temperature returns ambient temperature in Kelvin at a given altitude
// above sea level (metres), per spec.md §4.2.
func (env Environment) Temperature(altitudeM float64) float64 {
	celsius := ApproxFromCurve(altitudeM/1000, env.TemperatureTable)
	return celsius + 273.15
}

// DragCoefficient looks up a stage's drag coefficient for a given airspeed,
// per spec.md §4.2.
func DragCoefficient(speed float64, curve [][2]float64) float64 {
	return ApproxFromCurve(speed, curve)
}
