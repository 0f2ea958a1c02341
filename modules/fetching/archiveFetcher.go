// Package fetching downloads the TSPLIB archive and unpacks it into a
// data folder: the tar.gz is extracted into an archive sub-folder and every
// per-instance .gz member is then decompressed into the data folder.
package fetching

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/readahead"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrCorruptArchive   = errors.New("archive is not a valid tar.gz")
	ErrUnsafePath       = errors.New("archive entry escapes the target folder")
)

const defaultWorkers = 4

type Config struct {
	URL string
	// BaseDir receives the decompressed instance files.
	BaseDir string
	// ArchiveDir is the sub-folder of BaseDir holding the download and its extracted members.
	ArchiveDir string
	Workers    int
}

// Summary is the bookkeeping of the per-file decompression step.
type Summary struct {
	Processed    int
	Decompressed int
	Failed       int
	Bytes        uint64
	Failures     []error
}

// Err combines the per-file failures, nil when every file was decompressed.
func (s Summary) Err() error {
	return multierr.Combine(s.Failures...)
}

type ArchiveFetcher struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

func NewArchiveFetcher(config Config, client *http.Client, logger *slog.Logger) *ArchiveFetcher {
	if config.Workers <= 0 {
		config.Workers = defaultWorkers
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ArchiveFetcher{config: config, client: client, logger: logger}
}

func (f *ArchiveFetcher) ArchiveDir() string {
	return filepath.Join(f.config.BaseDir, f.config.ArchiveDir)
}

// ArchivePath is where the downloaded archive is stored, named after the last URL segment.
func (f *ArchiveFetcher) ArchivePath() (string, error) {
	parsed, err := url.Parse(f.config.URL)
	if err != nil {
		return "", err
	}

	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("%s: no file name in URL", f.config.URL)
	}

	return filepath.Join(f.ArchiveDir(), name), nil
}

// Fetch downloads the archive unless it is already present, extracts it and
// decompresses every .gz member. A failing member is counted in the summary
// and does not stop the others.
func (f *ArchiveFetcher) Fetch(ctx context.Context) (Summary, error) {
	archivePath, err := f.ArchivePath()
	if err != nil {
		return Summary{}, err
	}

	if err := os.MkdirAll(f.ArchiveDir(), os.ModePerm); err != nil {
		return Summary{}, err
	}

	present, err := FileExists(archivePath)
	if err != nil {
		return Summary{}, err
	}

	if present {
		f.logger.Info("archive already exists, skipping the download", "path", archivePath)
	} else {
		f.logger.Info("downloading archive", "url", f.config.URL)
		written, err := Download(ctx, f.client, f.config.URL, archivePath)
		if err != nil {
			return Summary{}, err
		}
		f.logger.Info("archive downloaded", "path", archivePath, "size", humanize.Bytes(uint64(written)))
	}

	f.logger.Info("extracting archive", "path", archivePath, "into", f.ArchiveDir())
	if err := Extract(archivePath, f.ArchiveDir()); err != nil {
		return Summary{}, err
	}

	summary, err := f.DecompressAll(ctx, f.ArchiveDir(), f.config.BaseDir, filepath.Base(archivePath))
	if err != nil {
		return summary, err
	}

	f.logger.Info("decompression finished",
		"processed", summary.Processed,
		"decompressed", summary.Decompressed,
		"failed", summary.Failed,
		"size", humanize.Bytes(summary.Bytes))

	return summary, nil
}

// Extract unpacks the tar.gz at archivePath into dir.
func Extract(archivePath, dir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer file.Close()

	ahead := readahead.NewReader(file)
	defer ahead.Close()

	gz, err := gzip.NewReader(ahead)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", archivePath, ErrCorruptArchive, err)
	}
	defer gz.Close()

	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w: %v", archivePath, ErrCorruptArchive, err)
		}

		target, err := safeJoin(dir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.ModePerm); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, reader); err != nil {
				return err
			}
		}
	}
}

// DecompressAll gunzips every regular *.gz file of srcDir into dstDir,
// dropping the .gz suffix. Files named in skip are left alone.
func (f *ArchiveFetcher) DecompressAll(ctx context.Context, srcDir, dstDir string, skip ...string) (Summary, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return Summary{}, err
	}

	var (
		summary Summary
		mu      sync.Mutex
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(f.config.Workers)

	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasSuffix(strings.ToLower(name), ".gz") || slices.Contains(skip, name) {
			continue
		}

		summary.Processed++

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			output := filepath.Join(dstDir, name[:len(name)-len(".gz")])
			written, err := gunzip(filepath.Join(srcDir, name), output)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				summary.Failed++
				summary.Failures = append(summary.Failures, fmt.Errorf("%s: %w", name, err))
				f.logger.Error("could not decompress file", "file", name, "error", err)
				return nil
			}

			summary.Decompressed++
			summary.Bytes += uint64(written)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return summary, err
	}

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].Error() < summary.Failures[j].Error()
	})

	return summary, nil
}

func gunzip(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return 0, err
	}
	defer gz.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, gz)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return 0, err
	}

	return written, nil
}

func writeFile(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return err
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}

	return err
}

func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, name)

	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafePath)
	}

	return target, nil
}
