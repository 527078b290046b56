package geo

import "math"

// ApproxEqual tells whether a and b differ by less than e.
func ApproxEqual(a, b, e float64) bool {
	return math.Abs(a-b) < e
}

// NormalizeAngle maps theta into (-π, π].
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	} else if theta > math.Pi {
		theta -= 2 * math.Pi
	}
	return theta
}

// ReciprocalAngle returns the direction opposite to theta, in (-π, π].
// theta is first placed in [0, 2π) and shifted back by π.
func ReciprocalAngle(theta float64) float64 {
	theta = math.Mod(NormalizeAngle(theta), 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return NormalizeAngle(theta - math.Pi)
}
