package main

import (
	"encoding/hex"
	"fmt"

	"s7link/s7"
)

type readCmd struct {
	connectFlags

	Area  string `flag:"" required:"" help:"Memory area: PE, PA, MK, or DB."`
	DB    uint16 `flag:"" optional:"" default:"0" help:"Data block number (ignored outside DB)."`
	Start uint16 `flag:"" required:"" help:"Start byte offset."`
	Len   uint16 `flag:"" optional:"" default:"1" help:"Number of bytes to read."`
	Bit   int    `flag:"" optional:"" default:"-1" help:"Bit index 0..7 within Start; reads a single bit instead of Len bytes."`
}

func (r *readCmd) Run(ctx *context) error {
	area, err := parseArea(r.Area)
	if err != nil {
		return err
	}

	s, cleanup, err := r.dial()
	if err != nil {
		return err
	}
	defer cleanup()

	if r.Bit >= 0 {
		val, err := s.ReadBit(area, r.DB, r.Start, uint8(r.Bit))
		dumpStats(ctx.Debug, s)
		if err != nil {
			return fmt.Errorf("read bit: %w", err)
		}
		fmt.Println(val)
		return nil
	}

	buf := make([]byte, r.Len)
	err = s.ReadArea(area, r.DB, r.Start, s7.WLByte, buf)
	dumpStats(ctx.Debug, s)
	if err != nil {
		return fmt.Errorf("read area: %w", err)
	}
	fmt.Println(hex.EncodeToString(buf))
	return nil
}
