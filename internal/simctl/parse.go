package simctl

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattjoyce/simdeck/internal/device"
)

// parseLaunchPID reads the "<bundle id>: <pid>" line printed by simctl launch.
func parseLaunchPID(out []byte) (int, error) {
	line := strings.TrimSpace(string(out))
	if i := strings.LastIndex(line, "\n"); i >= 0 {
		line = line[i+1:]
	}
	_, pidText, ok := strings.Cut(line, ": ")
	if !ok {
		return 0, fmt.Errorf("unexpected launch output %q", line)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(pidText))
	if err != nil {
		return 0, fmt.Errorf("parse launch pid %q: %w", pidText, err)
	}
	return pid, nil
}

// findServicePID scans `launchctl list` output (PID, status, label columns)
// for a label naming bundleID. A "-" pid means the job is loaded but not
// running.
func findServicePID(out []byte, bundleID string) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 || !labelMatches(fields[2], bundleID) {
			continue
		}
		if fields[0] == "-" {
			return 0, fmt.Errorf("service %s is not running: %w", bundleID, device.ErrNotFound)
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		return pid, nil
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read launchctl output: %w", err)
	}
	return 0, fmt.Errorf("service %s: %w", bundleID, device.ErrNotFound)
}

// labelMatches accepts both plain labels and UIKitApplication:<id>[...] ones.
func labelMatches(label, bundleID string) bool {
	if label == bundleID {
		return true
	}
	rest, ok := strings.CutPrefix(label, "UIKitApplication:")
	if !ok {
		return false
	}
	if i := strings.IndexByte(rest, '['); i >= 0 {
		rest = rest[:i]
	}
	return rest == bundleID
}

// parsePS reads `ps -o pid=,comm=,args=` output for one process.
func parsePS(out []byte, pid int) (device.ProcessInfo, error) {
	line := strings.TrimSpace(string(out))
	if line == "" {
		return device.ProcessInfo{}, fmt.Errorf("pid %d: %w", pid, device.ErrNotFound)
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return device.ProcessInfo{}, fmt.Errorf("unexpected ps output %q", line)
	}
	got, err := strconv.Atoi(fields[0])
	if err != nil || got != pid {
		return device.ProcessInfo{}, fmt.Errorf("unexpected ps output %q", line)
	}

	info := device.ProcessInfo{PID: pid, Path: fields[1]}
	info.Name = fields[1]
	if i := strings.LastIndexByte(info.Name, '/'); i >= 0 {
		info.Name = info.Name[i+1:]
	}
	if len(fields) > 3 {
		info.Arguments = fields[3:]
	}
	return info, nil
}
