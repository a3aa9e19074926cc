package network

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadEdgelist reads an undirected network from whitespace separated
// "u v [weight]" lines. Empty lines and lines starting with # are skipped.
func ReadEdgelist(r io.Reader) (*Graph, error) {
	g := New(false)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			g.AddNode(fields[0])
		case 2:
			g.AddEdge(fields[0], fields[1], nil)
		case 3:
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, &ParseError{"edgelist", lineno, fmt.Sprintf("invalid weight %q", fields[2])}
			}
			g.AddEdge(fields[0], fields[1], map[string]float64{"weight": w})
		default:
			return nil, &ParseError{"edgelist", lineno, fmt.Sprintf("expected 1 to 3 fields, got %d", len(fields))}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadAdjlist reads an undirected network from "u v w ..." lines, linking
// the first node of each line to all the others.
func ReadAdjlist(r io.Reader) (*Graph, error) {
	g := New(false)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		g.AddNode(fields[0])
		for _, v := range fields[1:] {
			g.AddEdge(fields[0], v, nil)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// WriteEdgelist writes the edges of g as "u v weight" lines, weight being
// read from the given attribute.
func WriteEdgelist(w io.Writer, g *Graph, weight string) error {
	bw := bufio.NewWriter(w)
	for _, e := range g.Edges() {
		_, err := fmt.Fprintf(bw, "%s %s %s\n", g.Label(e.U), g.Label(e.V),
			strconv.FormatFloat(g.Weight(e.U, e.V, weight), 'g', -1, 64))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
