package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/roach88/jirban/internal/boardcfg"
	"github.com/roach88/jirban/internal/catalog"
	"github.com/roach88/jirban/internal/manager"
	"github.com/roach88/jirban/internal/store"
)

// readDocument reads a board document and returns it as JSON, the form the
// manager stores. CUE documents are evaluated first, so a CUE error is
// reported against the file it came from.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, withCode(ErrCodeReadFailed, fmt.Errorf("failed to read board document: %w", err))
	}
	if !isCUE(path) {
		return data, nil
	}

	v, err := boardcfg.Parse(path, data)
	if err != nil {
		return nil, err
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return nil, withCode(ErrCodeReadFailed, fmt.Errorf("%s: %w", path, err))
	}
	return out, nil
}

// loadBoard reads and resolves a board document without storing it. Errors
// carry the document's file name and position.
func loadBoard(opts *RootOptions, path string) (*boardcfg.BoardConfig, error) {
	host, err := openCatalog(opts)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, withCode(ErrCodeReadFailed, fmt.Errorf("failed to read board document: %w", err))
	}
	v, err := boardcfg.Parse(path, data)
	if err != nil {
		return nil, err
	}
	return boardcfg.LoadValue(host, 0, "", v, opts.RankFieldID)
}

func isCUE(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cue")
}

func openCatalog(opts *RootOptions) (*catalog.Catalog, error) {
	if opts.CatalogPath == "" {
		return nil, withCode(ErrCodeNoCatalog, errors.New("no host catalog: set --catalog or JIRBAN_CATALOG"))
	}
	c, err := catalog.Load(opts.CatalogPath)
	if err != nil {
		return nil, withCode(ErrCodeBadCatalog, err)
	}
	return c, nil
}

// openManager opens the board store and, when withCatalog is set, the host
// catalog boards are resolved against. The returned close func releases the
// database.
func openManager(opts *RootOptions, withCatalog bool) (*manager.Manager, func(), error) {
	var host boardcfg.Host
	if withCatalog {
		c, err := openCatalog(opts)
		if err != nil {
			return nil, nil, err
		}
		host = c
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, nil, withCode(ErrCodeStoreFailed, err)
	}
	logger := opts.Logger()
	closeFn := func() {
		if err := st.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}
	return manager.New(st, host, opts.RankFieldID, manager.WithLogger(logger)), closeFn, nil
}

// parseBoardID parses a board id argument.
func parseBoardID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, withCode(ErrCodeBadArgument, fmt.Errorf("invalid board id %q: must be a positive integer", arg))
	}
	return id, nil
}
