package packager

import (
	"context"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/ossii/oxt-packager/internal/logger"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

var errHashUnavailable = errors.New("hash function unavailable")

const (
	// MarkerFilename marks that a build is running right now to avoid parallel execution.
	MarkerFilename = "oxt-packager-build-marker.bin"

	// DefaultChecksumFunction is used to fingerprint release artifacts.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// markerLifetime is the period after which a stale build marker is eligible for cleanup.
	markerLifetime = 30 * time.Second

	// packagerExecutable is the base name of this binary, used for stale-marker recovery.
	packagerExecutable = "oxt-packager"
)

// FileChecksum returns base64-encoded checksum bytes for a file using DefaultChecksumFunction.
func FileChecksum(path string) (string, error) {
	source, err := os.Open(path)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = source.Close()
	}()

	if !DefaultChecksumFunction.Available() {
		return "", fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err = io.Copy(hasher, source); err != nil {
		return "", fmt.Errorf("calculate checksum: %w", err)
	}

	return base64.StdEncoding.EncodeToString(hasher.Sum(nil)), nil
}

// IsBuildRunningNow checks presence of a build marker and attempts recovery
// if it looks stale. A stale marker is removed only when no other packager
// process is alive, so a long build on a slow disk is never hijacked.
func IsBuildRunningNow(ctx context.Context) bool {
	logger.Debug(ctx, "Checking for the presence of a build marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false
		}

		logger.Infof(ctx, "Unable to read build marker: %v", err)

		return false
	}

	if time.Since(fileInfo.ModTime()) <= markerLifetime {
		return true
	}

	logger.Info(ctx, "The build marker is stale, checking for a live packager process")

	if otherPackagerAlive() {
		return true
	}

	if err = os.Remove(MarkerFilename); err != nil {
		return true
	}

	return false
}

// otherPackagerAlive reports whether a packager process other than this one is running.
func otherPackagerAlive() bool {
	processList, err := ps.Processes()
	if err != nil {
		// Cannot tell, assume the worst.
		return true
	}

	executable := packagerExecutable
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		executable += ".exe"
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == executable {
			return true
		}
	}

	return false
}
