package config

import (
	"errors"
	"fmt"
	"math"
	"net/netip"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrHelp is returned by Parse when the operator asked for the usage text.
var ErrHelp = errors.New("help requested")

// DefaultInterval is used when --interval-ms is not given.
const DefaultInterval = 1000 * time.Millisecond

// Config holds all runtime parameters for the beacon.
type Config struct {
	Addr      netip.Addr
	Port      uint16
	Interval  time.Duration
	LogFile   string
	LogLevel  string
	Preflight bool
}

// fileConfig mirrors the optional YAML defaults file given via --config.
type fileConfig struct {
	Addr       string `yaml:"addr"`
	Port       uint64 `yaml:"port"`
	IntervalMS uint64 `yaml:"interval_ms"`
}

// Usage returns the usage text for the program.
func Usage(program string) string {
	return fmt.Sprintf(`Usage:
  %[1]s --addr <IPv4-or-IPv6> --port <1-65535> [--interval-ms <ms>]
        [--config <file>] [--log <file>] [--loglevel <level>] [--preflight]

Example:
  %[1]s --addr 255.255.255.255 --port 12321 --interval-ms 1000
  %[1]s --addr ff02::1 --port 12321 --interval-ms 500
`, program)
}

// Parse scans args strictly left to right and stops at the first error. A
// help selector short-circuits everything after it; a help selector after an
// already-fatal token is never reached. Parse touches no socket; its only
// I/O is reading the --config file when that selector is scanned.
func Parse(args []string) (*Config, error) {
	cfg := &Config{Interval: DefaultInterval, LogLevel: "INFO"}
	var haveAddr, havePort, haveInterval bool

	var file fileConfig
	var haveFile bool

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--addr":
			v, err := nextValue(args, i, "--addr")
			if err != nil {
				return nil, err
			}
			i++
			addr, err := parseAddr(v, "--addr")
			if err != nil {
				return nil, err
			}
			cfg.Addr = addr
			haveAddr = true
		case "--port":
			v, err := nextValue(args, i, "--port")
			if err != nil {
				return nil, err
			}
			i++
			port, err := parsePort(v, "--port")
			if err != nil {
				return nil, err
			}
			cfg.Port = port
			havePort = true
		case "--interval-ms":
			v, err := nextValue(args, i, "--interval-ms")
			if err != nil {
				return nil, err
			}
			i++
			interval, err := parseInterval(v, "--interval-ms")
			if err != nil {
				return nil, err
			}
			cfg.Interval = interval
			haveInterval = true
		case "--config":
			v, err := nextValue(args, i, "--config")
			if err != nil {
				return nil, err
			}
			i++
			if file, err = loadFile(v); err != nil {
				return nil, err
			}
			haveFile = true
		case "--log":
			v, err := nextValue(args, i, "--log")
			if err != nil {
				return nil, err
			}
			i++
			cfg.LogFile = v
		case "--loglevel":
			v, err := nextValue(args, i, "--loglevel")
			if err != nil {
				return nil, err
			}
			i++
			cfg.LogLevel = v
		case "--preflight":
			cfg.Preflight = true
		case "-h", "--help":
			return nil, ErrHelp
		default:
			return nil, fmt.Errorf("Unknown argument: %s", args[i])
		}
	}

	// File values act as defaults; explicit selectors win regardless of
	// their position relative to --config.
	if haveFile {
		if err := mergeFile(cfg, file, haveAddr, havePort, haveInterval); err != nil {
			return nil, err
		}
		haveAddr = haveAddr || file.Addr != ""
		havePort = havePort || file.Port != 0
	}

	if !haveAddr {
		return nil, errors.New("Missing required --addr")
	}
	if !havePort {
		return nil, errors.New("Missing required --port")
	}
	return cfg, nil
}

// nextValue returns the value token following the selector at index i.
func nextValue(args []string, i int, selector string) (string, error) {
	if i+1 >= len(args) || args[i+1] == "" {
		return "", fmt.Errorf("Missing value for %s", selector)
	}
	return args[i+1], nil
}

func parseAddr(s, selector string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("Invalid IP address for %s: %s", selector, s)
	}
	return addr, nil
}

func parsePort(s, selector string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("Invalid value for %s: %s", selector, s)
	}
	if v == 0 || v > 65535 {
		return 0, fmt.Errorf("Port out of range for %s: %d", selector, v)
	}
	return uint16(v), nil
}

// maxIntervalMS is the largest millisecond count that still fits in a
// time.Duration; anything above it would wrap negative when converted.
const maxIntervalMS = math.MaxInt64 / uint64(time.Millisecond)

func parseInterval(s, selector string) (time.Duration, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid value for %s: %s", selector, s)
	}
	if v == 0 {
		return 0, fmt.Errorf("%s must be > 0", selector)
	}
	if v > maxIntervalMS {
		return 0, fmt.Errorf("Interval out of range for %s: %d", selector, v)
	}
	return time.Duration(v) * time.Millisecond, nil
}

func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("Cannot read --config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("Invalid --config file %s: %v", path, err)
	}
	return file, nil
}

// mergeFile applies file values wherever the corresponding selector was not
// given explicitly. File values pass the same checks as flag values.
func mergeFile(cfg *Config, file fileConfig, haveAddr, havePort, haveInterval bool) error {
	if !haveAddr && file.Addr != "" {
		addr, err := parseAddr(file.Addr, "addr (from --config)")
		if err != nil {
			return err
		}
		cfg.Addr = addr
	}
	if !havePort && file.Port != 0 {
		port, err := parsePort(strconv.FormatUint(file.Port, 10), "port (from --config)")
		if err != nil {
			return err
		}
		cfg.Port = port
	}
	if !haveInterval && file.IntervalMS != 0 {
		interval, err := parseInterval(strconv.FormatUint(file.IntervalMS, 10), "interval_ms (from --config)")
		if err != nil {
			return err
		}
		cfg.Interval = interval
	}
	return nil
}
