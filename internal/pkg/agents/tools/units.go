package tools

const defaultUnits = "metric"

// unitSuffixes maps an OpenWeather units value to the suffixes attached to
// normalized results. Anything other than metric/imperial is the provider's
// "standard" (Kelvin) mode.
func unitSuffixes(units string) (tempUnit, windUnit string) {
	switch units {
	case "metric":
		return "°C", "m/s"
	case "imperial":
		return "°F", "mph"
	default:
		return "K", "m/s"
	}
}

// floatOrNil lifts an optional upstream value into a result map entry,
// preserving absence as null.
func floatOrNil(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
