// Implements the mobility model: users advance along predefined waypoint
// paths, with positions interpolated linearly between the two waypoints
// bracketing the current simulated time. The model is a pure function of the
// path and the clock, so replays with the same dataset reproduce identical
// trajectories.

package sim

import "math"

// Point is a 2D map coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Waypoint is one entry of a user's mobility path: a position and the
// simulated time at which the user reaches it.
type Waypoint struct {
	Position Point
	Time     float64
}

// MobilityModel advances users along their paths. It carries no state of its
// own; determinism follows from the paths being immutable.
type MobilityModel struct{}

// Advance updates the user's position for the given simulated time and
// returns it. At a waypoint timestamp the position equals that waypoint
// exactly; between waypoints it interpolates linearly; past the final
// waypoint the user is held at the last position and marked arrived. There
// is no extrapolation and no wraparound.
func (MobilityModel) Advance(u *User, now float64) Point {
	path := u.Path
	last := path[len(path)-1]

	switch {
	case now >= last.Time:
		u.Position = last.Position
		u.Arrived = true
	case now <= path[0].Time:
		u.Position = path[0].Position
	default:
		for i := 1; i < len(path); i++ {
			if now > path[i].Time {
				continue
			}
			u.Position = interpolate(path[i-1], path[i], now)
			break
		}
	}
	return u.Position
}

func interpolate(a, b Waypoint, now float64) Point {
	f := (now - a.Time) / (b.Time - a.Time)
	return Point{
		X: a.Position.X + f*(b.Position.X-a.Position.X),
		Y: a.Position.Y + f*(b.Position.Y-a.Position.Y),
	}
}
