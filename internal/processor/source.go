package processor

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxSourceSize caps how much of a remote or local source is read.
const maxSourceSize = 256 << 20

// readSource loads a GeoJSON source from a local file or an http(s) URL.
func readSource(client *http.Client, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		log.Debug().Str("url", source).Msg("Downloading source")

		resp, err := client.Get(source)
		if err != nil {
			return nil, err
		}
		// Explicitly ignore close error as it's a read-only operation
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download %s: status %d", source, resp.StatusCode)
		}

		return io.ReadAll(io.LimitReader(resp.Body, maxSourceSize))
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return io.ReadAll(io.LimitReader(f, maxSourceSize))
}
