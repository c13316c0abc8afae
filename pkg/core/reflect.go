package core

// Reflect mirrors incident about normal: incident - 2(n·incident)n.
// normal must be unit length or the result is scaled incorrectly.
func Reflect(incident, normal Vec3) Vec3 {
	return incident.Subtract(normal.Multiply(2 * normal.Dot(incident)))
}
