package main

import (
	"encoding/hex"
	"fmt"

	"s7link/s7"
)

type writeCmd struct {
	connectFlags

	Area  string `flag:"" required:"" help:"Memory area: PE, PA, MK, or DB."`
	DB    uint16 `flag:"" optional:"" default:"0" help:"Data block number (ignored outside DB)."`
	Start uint16 `flag:"" required:"" help:"Start byte offset."`
	Data  string `flag:"" optional:"" help:"Hex-encoded bytes to write, e.g. deadbeef."`
	Bit   int    `flag:"" optional:"" default:"-1" help:"Bit index 0..7 within Start; writes a single bit instead of Data."`
	Value bool   `flag:"" optional:"" default:"false" help:"Bit value to write, used with --bit."`
}

func (w *writeCmd) Run(ctx *context) error {
	area, err := parseArea(w.Area)
	if err != nil {
		return err
	}

	s, cleanup, err := w.dial()
	if err != nil {
		return err
	}
	defer cleanup()

	if w.Bit >= 0 {
		err := s.WriteBit(area, w.DB, w.Start, uint8(w.Bit), w.Value)
		dumpStats(ctx.Debug, s)
		if err != nil {
			return fmt.Errorf("write bit: %w", err)
		}
		return nil
	}

	data, err := hex.DecodeString(w.Data)
	if err != nil {
		return fmt.Errorf("decode --data: %w", err)
	}
	err = s.WriteArea(area, w.DB, w.Start, s7.WLByte, data)
	dumpStats(ctx.Debug, s)
	if err != nil {
		return fmt.Errorf("write area: %w", err)
	}
	return nil
}
