// Package occa implements the compute backend on OCCA devices
package occa

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/notargets/gocca"
	"github.com/notargets/ktune/logger"
)

// ModeAuto probes the modes of ProbeOrder and opens the first that works
const ModeAuto = "auto"

// ProbeOrder lists device modes from most to least parallel
var ProbeOrder = []string{"OpenCL", "CUDA", "OpenMP", "Serial"}

// DeviceConfig selects an OCCA device
type DeviceConfig struct {
	Mode       string // OpenCL, CUDA, HIP, OpenMP, Serial or auto
	PlatformID int    // OpenCL only
	DeviceID   int
}

// Props renders the device properties handed to OCCA
func (c DeviceConfig) Props() (string, error) {
	props := map[string]any{"mode": c.Mode}
	switch c.Mode {
	case "OpenCL":
		props["platform_id"] = c.PlatformID
		props["device_id"] = c.DeviceID
	case "CUDA", "HIP":
		props["device_id"] = c.DeviceID
	}
	b, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("marshal device properties: %w", err)
	}
	return string(b), nil
}

// DeviceInfo is the result of probing one mode
type DeviceInfo struct {
	Mode  string
	Props string
	Err   error
}

// Available reports whether the mode opened
func (d DeviceInfo) Available() bool {
	return d.Err == nil
}

// Probe tries to open a device in every mode of ProbeOrder and closes it
// again
func Probe(platformID, deviceID int) []DeviceInfo {
	infos := make([]DeviceInfo, 0, len(ProbeOrder))
	for _, mode := range ProbeOrder {
		cfg := DeviceConfig{Mode: mode, PlatformID: platformID, DeviceID: deviceID}
		device, props, err := newDevice(cfg)
		if err == nil {
			device.Free()
		}
		infos = append(infos, DeviceInfo{Mode: mode, Props: props, Err: err})
	}
	return infos
}

func newDevice(cfg DeviceConfig) (*gocca.OCCADevice, string, error) {
	props, err := cfg.Props()
	if err != nil {
		return nil, "", err
	}
	device, err := gocca.NewDevice(props)
	if err != nil {
		return nil, props, err
	}
	if device == nil {
		return nil, props, errors.New("device creation returned nil")
	}
	return device, props, nil
}

// openDevice opens the configured device, probing in order for ModeAuto
func openDevice(cfg DeviceConfig, log logger.Logger) (*gocca.OCCADevice, error) {
	if cfg.Mode != "" && cfg.Mode != ModeAuto {
		device, props, err := newDevice(cfg)
		if err != nil {
			return nil, fmt.Errorf("open %s device %s: %w", cfg.Mode, props, err)
		}
		return device, nil
	}

	var errs []error
	for _, mode := range ProbeOrder {
		try := cfg
		try.Mode = mode
		device, props, err := newDevice(try)
		if err != nil {
			log.Debug("device mode unavailable", "mode", mode, "props", props, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", mode, err))
			continue
		}
		return device, nil
	}
	return nil, fmt.Errorf("no usable device: %w", errors.Join(errs...))
}
