package renderer

import (
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/shadowmaps/pkg/math"
)

// poissonCandidates is the number of candidates tried per accepted point.
const poissonCandidates = 32

// PoissonDisk returns n well-spaced points in the unit disk using Mitchell's
// best-candidate algorithm. The result depends only on n.
func PoissonDisk(n int) []math.Vec2 {
	rng := rand.New(rand.NewPCG(uint64(n), 0x5eed))
	points := make([]math.Vec2, 0, n)

	for len(points) < n {
		var best math.Vec2
		bestDist := float32(-1)
		for range poissonCandidates {
			c := randomInDisk(rng)
			d := nearest(points, c)
			if d > bestDist {
				best, bestDist = c, d
			}
		}
		points = append(points, best)
	}
	return points
}

func randomInDisk(rng *rand.Rand) math.Vec2 {
	return math.Polar(gomath.Sqrt(rng.Float64()), rng.Float64()*2*gomath.Pi)
}

// nearest returns the distance from c to the closest point, or +Inf.
func nearest(points []math.Vec2, c math.Vec2) float32 {
	d := float32(gomath.Inf(1))
	for _, p := range points {
		d = min(d, p.Distance(c))
	}
	return d
}
