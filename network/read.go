package network

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrUnknownFormat is returned for network files whose format cannot be
// determined from their extension.
var ErrUnknownFormat = errors.New("unknown network file type")

// ParseError reports a malformed line in a network file.
type ParseError struct {
	Format string
	Line   int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %s", e.Format, e.Line, e.Msg)
}

type reader func(r io.Reader) (*Graph, error)

var readers = map[string]reader{
	".net":      ReadPajek,
	".edgelist": ReadEdgelist,
	".txt":      ReadEdgelist,
	".tsv":      ReadEdgelist,
	".dot":      ReadDOT,
	".gv":       ReadDOT,
	".json":     ReadJSON,
	".gexf":     ReadGEXF,
	".adjlist":  ReadAdjlist,
}

// Extensions returns the known network file extensions.
func Extensions() []string {
	out := make([]string, 0, len(readers))
	for ext := range readers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ReadFile reads a network, picking the format from the file extension.
func ReadFile(fs afero.Fs, filename string) (*Graph, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	read, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: file '%s', known types are %s", ErrUnknownFormat, filename, strings.Join(Extensions(), ", "))
	}
	logrus.Infof("Reading file '%s'...", filename)
	f, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	logrus.Infof("Successfully read file: %s", g)
	return g, nil
}
