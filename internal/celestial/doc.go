// Package celestial holds the data model shared by every part of the
// simulator: bodies, their kinds, the ordered system they live in, and the
// domain errors raised when a value falls outside its documented range.
//
//   - [Body]: point mass with position, velocity, trail and a default snapshot
//   - [Kind]: tagged variant distinguishing stars, planets and plain bodies
//   - [System]: ordered, name-indexed collection under simulation
//   - [Trail]: bounded FIFO of render-space positions
//
// Positions are metres and velocities metres per second, expressed with
// gonum's r3.Vec. Render-space conversion lives in package scale.
//
// # Example
//
//	sun, _ := celestial.NewStar(celestial.Params{Name: "Sun", Mass: celestial.SunMass, Radius: 1.4}, celestial.SunLuminosity)
//	earth, _ := celestial.NewPlanet(celestial.Params{
//	    Name:     "Earth",
//	    Position: r3.Vec{X: celestial.AU},
//	    Velocity: r3.Vec{Z: -29783},
//	    Mass:     celestial.EarthMass,
//	    Radius:   0.75,
//	}, 0.2, 0.7)
//	sys, _ := celestial.NewSystem(sun, earth)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. The simulation
// controller owns the System and serialises access to it.
package celestial
