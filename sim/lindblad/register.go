// register.go wires the reference engine into the sim package's registration
// variable (NewEngineFunc). This init() runs when any package imports
// sim/lindblad, breaking the import cycle between sim/ (interface owner) and
// sim/lindblad/ (implementation). Production code imports sim/lindblad
// directly; test code in package sim uses lindblad_import_test.go for the
// blank import.
package lindblad

import "github.com/quac-sim/quac-sim/sim"

func init() {
	sim.NewEngineFunc = New
}
