package runner

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
)

// DefaultMediaPattern matches the file types the backend can import as media.
var DefaultMediaPattern = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|heic|mov|mp4|m4v)$`)

// Artifact is the subject reported for each diagnostic copied to the
// auxiliary directory.
type Artifact struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// UploadRunner sends media to the target in one batch, then copies every
// other diagnostic into AuxDir.
type UploadRunner struct {
	Reporter     *events.Reporter
	Target       device.Target
	Diagnostics  []device.Diagnostic
	AuxDir       string
	MediaPattern *regexp.Regexp
}

// Partition splits diags into media and the rest, preserving order.
func Partition(diags []device.Diagnostic, pattern *regexp.Regexp) (media, other []device.Diagnostic) {
	if pattern == nil {
		pattern = DefaultMediaPattern
	}
	for _, d := range diags {
		if d.Path != "" && pattern.MatchString(d.Path) {
			media = append(media, d)
		} else {
			other = append(other, d)
		}
	}
	return media, other
}

// Run checks every diagnostic can be read before anything is sent, so a
// missing one leaves the target untouched.
func (r UploadRunner) Run(ctx context.Context) Result {
	udid := r.Target.UDID()
	for _, d := range r.Diagnostics {
		if !d.HasContent() {
			return Failure(KindMissing, "upload: diagnostic %q has no local path or content", d.Name)
		}
	}
	media, other := Partition(r.Diagnostics, r.MediaPattern)

	if len(media) > 0 {
		paths := make([]string, 0, len(media))
		for _, d := range media {
			paths = append(paths, d.Path)
		}
		_, err := call(ctx, func(ctx context.Context) (any, error) {
			return nil, r.Target.UploadMedia(ctx, paths)
		})
		if err != nil {
			return FailureFromError(err, "upload: media upload of %d file(s) to %s failed", len(paths), udid)
		}
		r.Reporter.Report(events.NameUpload, events.PhaseDiscrete, paths)
	}

	artifacts := make([]Artifact, 0, len(other))
	written := make(map[string]string, len(other))
	for _, d := range other {
		rel := artifactPath(d)
		if prev, ok := written[rel]; ok {
			return Failure(KindExternal, "upload: diagnostics %q and %q both map to %s", prev, d.Name, rel)
		}
		written[rel] = d.Name

		a, err := writeArtifact(r.AuxDir, rel, d)
		if err != nil {
			return FailureFromError(err, "upload: write diagnostic %q to %s", d.Name, r.AuxDir)
		}
		r.Reporter.Report(events.NameUpload, events.PhaseDiscrete, a)
		artifacts = append(artifacts, a)
	}
	return Success(artifacts)
}

// artifactPath is where d lands relative to the auxiliary directory. The
// diagnostic's name keeps its subdirectories but can never climb out.
func artifactPath(d device.Diagnostic) string {
	name := filepath.Clean("/" + filepath.FromSlash(d.Name))
	name = strings.TrimPrefix(name, string(filepath.Separator))
	if name == "" {
		name = filepath.Base(d.Path)
	}
	if name == "." || name == string(filepath.Separator) {
		name = "artifact"
	}
	return name
}

func writeArtifact(dir, rel string, d device.Diagnostic) (Artifact, error) {
	if dir == "" {
		return Artifact{}, fmt.Errorf("auxiliary directory is not configured")
	}
	dest := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create auxiliary directory: %w", err)
	}

	var src io.Reader
	if d.Content != nil {
		src = bytes.NewReader(d.Content)
	} else {
		f, err := os.Open(d.Path)
		if err != nil {
			return Artifact{}, err
		}
		defer f.Close()
		src = f
	}

	out, err := os.Create(dest)
	if err != nil {
		return Artifact{}, err
	}

	h := blake3.New()
	n, err := io.Copy(io.MultiWriter(out, h), src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Name:     d.Name,
		Path:     dest,
		Size:     n,
		Checksum: "blake3:" + hex.EncodeToString(h.Sum(nil)),
	}, nil
}
