package fetching

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Download streams url into dest. The body is written to a temporary file
// next to dest which is renamed once complete, so dest never holds a
// partial download.
func Download(ctx context.Context, client *http.Client, url, dest string) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: %w: %s", url, ErrUnexpectedStatus, resp.Status)
	}

	partial := dest + ".part"
	file, err := os.Create(partial)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partial)
		return 0, fmt.Errorf("%s: %w", url, err)
	}

	if err := os.Rename(partial, dest); err != nil {
		os.Remove(partial)
		return 0, err
	}

	return written, nil
}

// FileExists reports whether path exists.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}
