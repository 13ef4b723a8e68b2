package carrier

// RouteCoverage pairs a carrier capability with the coverage facts for one
// origin/destination route: whether the carrier's network spans the origin
// pincode and the destination pincode. The serviceability check intersects
// these flags; a carrier serves the route only when it covers both ends.
type RouteCoverage struct {
	Capability        Capability
	CoversOrigin      bool
	CoversDestination bool
}

// ServesRoute reports whether the carrier covers both ends of the route.
func (rc RouteCoverage) ServesRoute() bool {
	return rc.CoversOrigin && rc.CoversDestination
}
