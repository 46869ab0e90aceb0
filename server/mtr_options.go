package server

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// maxPacketSize is mtr's MAXPACKET
const maxPacketSize = 4470

// mtrOption is an mtr flag the API passes through. check is nil for flags that take no value.
type mtrOption struct {
	check func(value string) error
}

// allowedOptions 可以通过 arg 参数传给 mtr 的选项
var allowedOptions = map[string]mtrOption{
	"-n":         {},
	"--no-dns":   {},
	"-b":         {},
	"--show-ips": {},
	"-z":         {},
	"--aslookup": {},
	"-4":         {},
	"-6":         {},
	"-T":         {},
	"--tcp":      {},
	"-u":         {},
	"--udp":      {},
	"-P":         {check: checkPort},
	"--port":     {check: checkPort},
	"-i":         {check: checkInterval},
	"--interval": {check: checkInterval},
	"-s":         {check: checkPacketSize},
	"--psize":    {check: checkPacketSize},
}

// checkOptions rejects any arg that is not an allowed option or a valid value for the option before it
func checkOptions(args []string) error {
	for i := 0; i < len(args); i++ {
		name := args[i]
		opt, ok := allowedOptions[name]
		if !ok {
			return fmt.Errorf("option %q is not allowed (allowed: %s)", name, allowedOptionNames())
		}
		if opt.check == nil {
			continue
		}
		if i+1 >= len(args) {
			return fmt.Errorf("option %s requires a value", name)
		}
		i++
		if err := opt.check(args[i]); err != nil {
			return fmt.Errorf("option %s: %w", name, err)
		}
	}
	return nil
}

func allowedOptionNames() string {
	names := lo.Keys(allowedOptions)
	slices.Sort(names)
	return strings.Join(names, " ")
}

func checkPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port %q must be between 1 and 65535", value)
	}
	return nil
}

func checkInterval(value string) error {
	secs, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		return fmt.Errorf("interval %q must be a positive number of seconds", value)
	}
	return nil
}

func checkPacketSize(value string) error {
	size, err := strconv.Atoi(value)
	if err != nil {
		return errors.New("packet size must be an integer")
	}
	if size < 1 || size > maxPacketSize {
		return fmt.Errorf("packet size %d must be between 1 and %d", size, maxPacketSize)
	}
	return nil
}
