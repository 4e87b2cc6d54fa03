package kernel

import "github.com/flexshop/jobshop-sim/pkg/machine"

// DefaultFleet returns the fixed eight-machine shop floor the reference
// simulation hardcodes: three class-A machines, two class-B, two class-C,
// and one class-D, each with its own threshold and repair-time profile.
func DefaultFleet(physics machine.Physics) []*machine.Machine {
	return []*machine.Machine{
		machine.New("A", "A_1", 40, 100, 2.0, 16.0, 3, physics),
		machine.New("A", "A_2", 41, 86, 2.2, 8.5, 3, physics),
		machine.New("A", "A_3", 42, 87, 2.1, 8.5, 3, physics),
		machine.New("B", "B_1", 50, 110, 4.0, 18.0, 5, physics),
		machine.New("B", "B_2", 49, 100, 3.8, 14.0, 5, physics),
		machine.New("C", "C_1", 30, 110, 3.0, 14.0, 4, physics),
		machine.New("C", "C_2", 31, 81, 3.2, 10.0, 4, physics),
		machine.New("D", "D_1", 35, 120, 1.5, 19.0, 6, physics),
	}
}
