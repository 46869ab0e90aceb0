package tools

// Elevation represents how the probe command gains raw-socket privileges
type Elevation string

const (
	// ElevateSudo prefixes the command with sudo
	ElevateSudo Elevation = "sudo"

	// ElevateNone runs the command as the current user (setuid mtr-packet, root, capabilities)
	ElevateNone Elevation = ""
)

// String returns the string representation of the elevation
func (e Elevation) String() string {
	return string(e)
}

// IsNone returns true if no prefix command is used
func (e Elevation) IsNone() bool {
	return e == ElevateNone
}

// ElevationFor maps the sudo config switch to an Elevation
func ElevationFor(sudo bool) Elevation {
	if sudo {
		return ElevateSudo
	}
	return ElevateNone
}
