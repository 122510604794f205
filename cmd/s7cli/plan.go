package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"s7link/s7"
)

type planCmd struct {
	Path string `arg:"" required:"" help:"Path to a YAML batch plan file."`
}

// planFile describes a single connection and a sequence of jobs to run
// against it, one at a time, in order.
type planFile struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`
	Rack uint16 `yaml:"rack"`
	Slot uint16 `yaml:"slot"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`

	Jobs []planJob `yaml:"jobs"`
}

type planJob struct {
	Op    string `yaml:"op"` // "read" or "write"
	Area  string `yaml:"area"`
	DB    uint16 `yaml:"db"`
	Start uint16 `yaml:"start"`
	Len   uint16 `yaml:"len"`  // read only
	Data  string `yaml:"data"` // write only, hex-encoded
}

func (p *planCmd) Run(ctx *context) error {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		return fmt.Errorf("read plan file: %w", err)
	}

	var plan planFile
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return fmt.Errorf("parse plan file: %w", err)
	}
	if plan.Port == 0 {
		plan.Port = 102
	}

	flags := connectFlags{
		Host:           plan.Host,
		Port:           plan.Port,
		Rack:           plan.Rack,
		Slot:           plan.Slot,
		ConnectTimeout: orDefault(plan.ConnectTimeout, 3*time.Second),
		ReadTimeout:    orDefault(plan.ReadTimeout, time.Second),
		WriteTimeout:   orDefault(plan.WriteTimeout, 500*time.Millisecond),
	}

	s, cleanup, err := flags.dial()
	if err != nil {
		return err
	}
	defer cleanup()

	for i, job := range plan.Jobs {
		if err := runPlanJob(s, job); err != nil {
			return fmt.Errorf("job %d (%s): %w", i, job.Op, err)
		}
		dumpStats(ctx.Debug, s)
	}
	return nil
}

func runPlanJob(s *s7.Session, job planJob) error {
	area, err := parseArea(job.Area)
	if err != nil {
		return err
	}

	switch job.Op {
	case "read":
		buf := make([]byte, job.Len)
		if err := s.ReadArea(area, job.DB, job.Start, s7.WLByte, buf); err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(buf))
		return nil
	case "write":
		data, err := hex.DecodeString(job.Data)
		if err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
		return s.WriteArea(area, job.DB, job.Start, s7.WLByte, data)
	default:
		return fmt.Errorf("unknown op %q (want read or write)", job.Op)
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d == 0 {
		return fallback
	}
	return d
}
