package main

import (
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"s7link/logging"
	"s7link/s7"
)

// connectFlags are the flags shared by every command that opens a
// connection to a PLC.
type connectFlags struct {
	Host string `flag:"" required:"" short:"H" help:"PLC IPv4 address."`
	Port uint16 `flag:"" optional:"" default:"102" help:"TCP port (S7 default 102)."`
	Rack uint16 `flag:"" optional:"" default:"0" help:"CPU rack."`
	Slot uint16 `flag:"" optional:"" default:"0" help:"CPU slot (0 for S7-1200/1500, 2 for S7-300)."`

	ConnectTimeout time.Duration `flag:"" optional:"" default:"3s" help:"TCP connect timeout."`
	ReadTimeout    time.Duration `flag:"" optional:"" default:"1s" help:"Per-job read timeout."`
	WriteTimeout   time.Duration `flag:"" optional:"" default:"500ms" help:"Per-job write timeout."`

	Trace string `flag:"" optional:"" help:"Write a hex-dump trace of every telegram to this file."`
}

// dial opens a Session against f using a rack/slot connection and returns
// it connected, along with a cleanup func the caller must defer.
func (f connectFlags) dial() (*s7.Session, func(), error) {
	var tracer logging.Tracer = logging.NopTracer()
	var traceFile *logging.FileTracer
	if f.Trace != "" {
		var err error
		traceFile, err = logging.NewFileTracer(f.Trace)
		if err != nil {
			return nil, nil, fmt.Errorf("open trace file: %w", err)
		}
		tracer = traceFile
	}

	s := s7.New(tracer)
	s.SetConnectionPort(f.Port)
	s.SetTimeout(f.ConnectTimeout, f.ReadTimeout, f.WriteTimeout)

	if err := s.ConnectRackSlot(f.Host, f.Rack, f.Slot); err != nil {
		if traceFile != nil {
			_ = traceFile.Close()
		}
		return nil, nil, fmt.Errorf("connect to %s: %w", f.Host, err)
	}

	cleanup := func() {
		s.Disconnect()
		if traceFile != nil {
			_ = traceFile.Close()
		}
	}
	return s, cleanup, nil
}

// dumpStats spews s.Stats() to stderr when debug is enabled.
func dumpStats(debug bool, s *s7.Session) {
	if !debug {
		return
	}
	spew.Fdump(os.Stderr, s.Stats())
}

// parseArea maps the --area flag value to an s7.Area.
func parseArea(name string) (s7.Area, error) {
	switch name {
	case "PE":
		return s7.AreaPE, nil
	case "PA":
		return s7.AreaPA, nil
	case "MK":
		return s7.AreaMK, nil
	case "DB":
		return s7.AreaDB, nil
	default:
		return 0, fmt.Errorf("unknown area %q (want PE, PA, MK, or DB)", name)
	}
}
