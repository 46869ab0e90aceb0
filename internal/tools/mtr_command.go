package tools

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// JSONFlag asks mtr for a JSON report
const JSONFlag = "-j"

var jsonFlags = []string{JSONFlag, "--json"}

// MtrCommand builds the argv for an mtr invocation
type MtrCommand struct {
	elevation Elevation
	path      string
	args      []string
	json      bool
}

// NewMtrCommand creates a new mtr command builder for the binary at path.
// Default: run through sudo and force JSON output.
func NewMtrCommand(path string) *MtrCommand {
	return &MtrCommand{
		elevation: ElevateSudo,
		path:      path,
		json:      true,
	}
}

// Elevate sets the privilege prefix
func (c *MtrCommand) Elevate(e Elevation) *MtrCommand {
	c.elevation = e
	return c
}

// Args appends user-supplied arguments verbatim
func (c *MtrCommand) Args(args ...string) *MtrCommand {
	c.args = append(c.args, args...)
	return c
}

// Count appends the report cycle count (-c N)
func (c *MtrCommand) Count(n int) *MtrCommand {
	if n > 0 {
		c.args = append(c.args, "-c", strconv.Itoa(n))
	}
	return c
}

// Target appends the destination host
func (c *MtrCommand) Target(host string) *MtrCommand {
	if host != "" {
		c.args = append(c.args, host)
	}
	return c
}

// JSON sets whether the JSON flag is forced
func (c *MtrCommand) JSON(enable bool) *MtrCommand {
	c.json = enable
	return c
}

// Argv generates the full argument vector, program first
func (c *MtrCommand) Argv() []string {
	argv := make([]string, 0, len(c.args)+3)
	if !c.elevation.IsNone() {
		argv = append(argv, c.elevation.String())
	}
	argv = append(argv, c.path)
	argv = append(argv, c.args...)

	// Only append -j when the caller has not asked for JSON already
	if c.json && !HasJSONFlag(c.args) {
		argv = append(argv, JSONFlag)
	}
	return argv
}

// String returns the command line joined by spaces
func (c *MtrCommand) String() string {
	return strings.Join(c.Argv(), " ")
}

// HasJSONFlag reports whether args already request JSON output
func HasJSONFlag(args []string) bool {
	return lo.ContainsBy(args, func(arg string) bool {
		return lo.Contains(jsonFlags, arg)
	})
}
