package noise

import "fmt"

// Source tags where the effective noise model of a run came from.
type Source string

const (
	SourceDisabled Source = "disabled"
	SourceOverride Source = "override"
	SourceHardware Source = "hardware"
)

// ResolveModel evaluates the noise precedence chain once per run:
// an explicit override beats hardware-derived parameters, and the disable
// flag beats both. With no override, no hardware, and noise not disabled
// there is nothing to simulate with, which is a configuration error.
func ResolveModel(override *Model, hardware *HardwareProperties, disable bool, nQubits int) (*Model, Source, error) {
	if disable {
		return Noiseless(nQubits), SourceDisabled, nil
	}
	if override != nil {
		if override.NumQubits() != nQubits {
			return nil, "", fmt.Errorf("noise model describes %d qubits, run needs %d", override.NumQubits(), nQubits)
		}
		return override, SourceOverride, nil
	}
	if hardware != nil {
		model, err := FromHardwareProperties(hardware, nQubits)
		if err != nil {
			return nil, "", err
		}
		return model, SourceHardware, nil
	}
	return nil, "", fmt.Errorf("no hardware specs and no user-defined noise model provided")
}
