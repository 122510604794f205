// Command s7cli drives an s7.Session from the shell: single read/write
// jobs, a YAML batch plan, or a Prometheus metrics endpoint for a held-open
// connection.
package main

import (
	"github.com/alecthomas/kong"
)

const (
	programName = "s7cli"
	programDesc = "Siemens S7 ISO-on-TCP client"
)

// context is the context struct kong passes to every Run method.
type context struct {
	Debug bool
}

var cli struct {
	Debug bool `help:"Spew the session's Stats snapshot to stderr after every job." default:"false"`

	Read  readCmd  `cmd:"" help:"Read a block, byte range, or single bit from a PLC."`
	Write writeCmd `cmd:"" help:"Write a block, byte range, or single bit to a PLC."`
	Plan  planCmd  `cmd:"" help:"Run a sequence of read/write jobs from a YAML plan file."`
	Serve serveCmd `cmd:"" help:"Hold a connection open and serve its stats as Prometheus metrics."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	err := ctx.Run(&context{Debug: cli.Debug})
	ctx.FatalIfErrorf(err)
}
