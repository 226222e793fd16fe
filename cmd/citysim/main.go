// Command citysim is the headless CLI front-end for the ProcIsoCity engine:
// generate, simulate, auto-build, batch, and replay deterministic
// procedural cities.
package main

import "github.com/talgya/iso-citysim/internal/cmd"

func main() {
	cmd.Execute()
}
