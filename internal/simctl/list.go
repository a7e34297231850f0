package simctl

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mattjoyce/simdeck/internal/device"
)

// listing is the decoded output of `simctl list --json`.
type listing struct {
	Devices     map[string][]deviceEntry `json:"devices"`
	Runtimes    []runtimeEntry           `json:"runtimes"`
	DeviceTypes []deviceTypeEntry        `json:"devicetypes"`
}

type deviceEntry struct {
	UDID                 string `json:"udid"`
	Name                 string `json:"name"`
	State                string `json:"state"`
	IsAvailable          bool   `json:"isAvailable"`
	DeviceTypeIdentifier string `json:"deviceTypeIdentifier"`
	DataPath             string `json:"dataPath"`
	LogPath              string `json:"logPath"`
}

type runtimeEntry struct {
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	IsAvailable bool   `json:"isAvailable"`
}

type deviceTypeEntry struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

// record is one simulator with its runtime and type resolved to names.
type record struct {
	deviceEntry
	Runtime    string
	DeviceType string
}

func (r record) info() device.Info {
	return device.Info{
		UDID:   r.UDID,
		Name:   r.Name,
		State:  parseState(r.State),
		Device: r.DeviceType,
		OS:     r.Runtime,
	}
}

func (r record) configuration() device.Configuration {
	return device.Configuration{Name: r.Name, Device: r.DeviceType, OS: r.Runtime}
}

func parseListing(data []byte) (*listing, error) {
	var l listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode simctl list: %w", err)
	}
	return &l, nil
}

// records flattens the device map, resolving identifiers to display names.
// Unavailable devices are skipped. Order is by runtime, then name.
func (l *listing) records() []record {
	runtimes := make(map[string]string, len(l.Runtimes))
	for _, rt := range l.Runtimes {
		runtimes[rt.Identifier] = rt.Name
	}
	types := make(map[string]string, len(l.DeviceTypes))
	for _, dt := range l.DeviceTypes {
		types[dt.Identifier] = dt.Name
	}

	var out []record
	for runtimeID, devices := range l.Devices {
		for _, d := range devices {
			if !d.IsAvailable {
				continue
			}
			rec := record{deviceEntry: d, Runtime: runtimes[runtimeID], DeviceType: types[d.DeviceTypeIdentifier]}
			if rec.Runtime == "" {
				rec.Runtime = runtimeNameFromIdentifier(runtimeID)
			}
			if rec.DeviceType == "" {
				rec.DeviceType = lastComponent(d.DeviceTypeIdentifier)
			}
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Runtime != out[j].Runtime {
			return out[i].Runtime < out[j].Runtime
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (l *listing) runtimeID(name string) (string, error) {
	for _, rt := range l.Runtimes {
		if !rt.IsAvailable {
			continue
		}
		if strings.EqualFold(rt.Name, name) || rt.Identifier == name {
			return rt.Identifier, nil
		}
	}
	return "", fmt.Errorf("runtime %q: %w", name, device.ErrNotFound)
}

func (l *listing) deviceTypeID(name string) (string, error) {
	for _, dt := range l.DeviceTypes {
		if strings.EqualFold(dt.Name, name) || dt.Identifier == name {
			return dt.Identifier, nil
		}
	}
	return "", fmt.Errorf("device type %q: %w", name, device.ErrNotFound)
}

// runtimeNameFromIdentifier turns com.apple.CoreSimulator.SimRuntime.iOS-17-2
// into "iOS 17.2".
func runtimeNameFromIdentifier(id string) string {
	last := lastComponent(id)
	platform, version, ok := strings.Cut(last, "-")
	if !ok {
		return last
	}
	return platform + " " + strings.ReplaceAll(version, "-", ".")
}

func lastComponent(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}

func parseState(s string) device.State {
	switch s {
	case "Shutdown":
		return device.StateShutdown
	case "Booted":
		return device.StateBooted
	case "Booting":
		return device.StateBooting
	case "Shutting Down":
		return device.StateShuttingDown
	case "Creating":
		return device.StateCreating
	}
	return device.StateUnknown
}
