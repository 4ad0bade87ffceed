package selfupdate

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
	ErrUnsupported   = errors.New("no release build for this platform")
)

const (
	binaryName    = "ayurai"
	checksumsFile = "checksums.txt"
	maxAssetSize  = 128 << 20
)

// UpdateInput selects the release to install. An empty TargetVersion means
// the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// Update stages, in order.
const (
	StageCheck    = "check"
	StageDownload = "download"
	StageVerify   = "verify"
	StageInstall  = "install"
	StageDone     = "done"
)

type UpdateProgress struct {
	Stage   string
	Message string
}

// Update downloads a release archive, checks it against the release's
// checksums.txt and swaps the running executable for the binary inside.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}
	report := func(stage, format string, args ...any) {
		if progress != nil {
			progress(UpdateProgress{Stage: stage, Message: fmt.Sprintf(format, args...)})
		}
	}

	tag := input.TargetVersion
	if tag == "" {
		report(StageCheck, "Checking for the latest release...")
		res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	asset, err := releaseAsset(c.goos, c.goarch)
	if err != nil {
		return err
	}

	report(StageDownload, "Downloading %s %s...", binaryName, tag)
	archive, err := c.fetch(ctx, c.assetURL(tag, asset))
	if err != nil {
		return fmt.Errorf("download %s: %w", asset, err)
	}

	report(StageVerify, "Verifying checksum...")
	sums, err := c.fetch(ctx, c.assetURL(tag, checksumsFile))
	if err != nil {
		return fmt.Errorf("download %s: %w", checksumsFile, err)
	}
	want, err := checksumFor(sums, asset)
	if err != nil {
		return err
	}
	if got := sha256Hex(archive); got != want {
		return fmt.Errorf("%w for %s: got %s, want %s", ErrChecksum, asset, got, want)
	}

	bin, err := unpack(archive)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", asset, err)
	}

	report(StageInstall, "Installing...")
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if err := replaceFile(target, bin); err != nil {
		return err
	}

	report(StageDone, "Updated to %s", tag)
	return nil
}

// releaseAsset names the archive published for a platform. macOS ships one
// universal binary; Linux ships amd64 and arm64.
func releaseAsset(goos, goarch string) (string, error) {
	switch {
	case goos == "darwin":
		return "ayurai_Darwin_all.tar.gz", nil
	case goos == "linux" && goarch == "amd64":
		return "ayurai_Linux_x86_64.tar.gz", nil
	case goos == "linux" && goarch == "arm64":
		return "ayurai_Linux_arm64.tar.gz", nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnsupported, goos, goarch)
}

func (c *Checker) assetURL(tag, name string) string {
	return strings.TrimRight(c.downloadBaseURL, "/") + "/" + path.Join(c.owner, c.repo, "releases/download", tag, name)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("larger than %d bytes", maxAssetSize)
	}
	return data, nil
}

// checksumFor finds asset in a "<sha256>  <name>" listing.
func checksumFor(sums []byte, asset string) (string, error) {
	sc := bufio.NewScanner(bytes.NewReader(sums))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && fields[1] == asset {
			return strings.ToLower(fields[0]), nil
		}
	}
	return "", fmt.Errorf("%w: %s is not listed in %s", ErrChecksum, asset, checksumsFile)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// unpack returns the ayurai binary from a tar.gz release archive.
func unpack(archive []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no %s binary in archive", binaryName)
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == binaryName {
			return io.ReadAll(io.LimitReader(tr, maxAssetSize))
		}
	}
}

// replaceFile writes data beside target and renames it over target, keeping
// target's permissions. A failed write leaves target untouched.
func replaceFile(target string, data []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".ayurai-update-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
