package network

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

type pajekEdge struct {
	u, v  string
	attrs map[string]float64
}

type pajekVertex struct {
	id, label string
	attrs     map[string]string
}

// ReadPajek reads a network in Pajek .net format. Vertices, edges, arcs and
// their list forms are supported; matrices are not. As soon as one
// undirected edge is present, the whole network is undirected.
func ReadPajek(r io.Reader) (*Graph, error) {
	var (
		vertices []pajekVertex
		edges    []pajekEdge
		labels   = make(map[string]string)
		seen     = make(map[string]bool)
		state    string
		nnodes   = -1
		directed = true
	)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if strings.HasPrefix(line, "*") {
			fields := strings.Fields(line)
			switch strings.ToLower(fields[0]) {
			case "*network":
			case "*vertices":
				if len(fields) < 2 {
					return nil, &ParseError{"pajek", lineno, "missing number of vertices"}
				}
				n, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, &ParseError{"pajek", lineno, fmt.Sprintf("invalid number of vertices %q", fields[1])}
				}
				nnodes = n
				state = "vertices"
			case "*edges", "*arcs", "*edgeslist", "*arcslist":
				state = strings.ToLower(fields[0][1:])
			case "*matrix":
				return nil, &ParseError{"pajek", lineno, "matrix format is not supported"}
			default:
				return nil, &ParseError{"pajek", lineno, fmt.Sprintf("unknown section %s", fields[0])}
			}
			continue
		}

		tokens := splitQuoted(line)
		switch state {
		case "vertices":
			v := parsePajekVertex(tokens)
			if _, ok := labels[v.id]; ok {
				return nil, &ParseError{"pajek", lineno, "vertex already added: " + v.id}
			}
			if seen[v.label] {
				return nil, &ParseError{"pajek", lineno, "node already added: " + v.label}
			}
			seen[v.label] = true
			labels[v.id] = v.label
			vertices = append(vertices, v)
		case "edges", "arcs":
			if len(tokens) < 2 {
				return nil, &ParseError{"pajek", lineno, "an edge needs two vertices"}
			}
			if state == "edges" {
				directed = false
			}
			edges = append(edges, pajekEdge{tokens[0], tokens[1], parsePajekEdgeAttrs(tokens[2:])})
		case "edgeslist", "arcslist":
			if state == "edgeslist" {
				directed = false
			}
			for _, t := range tokens[1:] {
				edges = append(edges, pajekEdge{u: tokens[0], v: t})
			}
		default:
			return nil, &ParseError{"pajek", lineno, "data outside of a section"}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	g := New(directed)
	for _, v := range vertices {
		i := g.AddNode(v.label)
		for k, val := range v.attrs {
			g.SetNodeAttr(i, k, val)
		}
	}
	label := func(id string) string {
		if l, ok := labels[id]; ok {
			return l
		}
		return id
	}
	multiple := 0
	for _, e := range edges {
		u, v := g.AddNode(label(e.u)), g.AddNode(label(e.v))
		if g.HasEdge(u, v) {
			multiple++
		}
		g.AddEdgeIndex(u, v, e.attrs)
	}
	if multiple > 0 {
		logrus.Warnf("Network contains %d multiple edges. These will be ignored.", multiple)
	}
	if nnodes >= 0 && nnodes != g.Len() {
		return nil, &ParseError{"pajek", lineno, fmt.Sprintf("wrong number of nodes: declared %d, found %d", nnodes, g.Len())}
	}
	return g, nil
}

func parsePajekVertex(tokens []string) pajekVertex {
	v := pajekVertex{id: tokens[0], label: tokens[0], attrs: map[string]string{"node_id": tokens[0]}}
	if len(tokens) < 2 {
		return v
	}
	v.label = tokens[1]
	rest := tokens[2:]
	if len(rest) >= 2 && isFloat(rest[0]) && isFloat(rest[1]) {
		v.attrs["x"], v.attrs["y"] = rest[0], rest[1]
		rest = rest[2:]
		if len(rest) >= 1 && isFloat(rest[0]) {
			v.attrs["z"] = rest[0]
			rest = rest[1:]
		}
		if len(rest)%2 == 1 {
			v.attrs["shape"] = rest[0]
			rest = rest[1:]
		}
	}
	for i := 0; i+1 < len(rest); i += 2 {
		v.attrs[rest[i]] = rest[i+1]
	}
	return v
}

func parsePajekEdgeAttrs(tokens []string) map[string]float64 {
	attrs := make(map[string]float64)
	if len(tokens) > 0 {
		if w, err := strconv.ParseFloat(tokens[0], 64); err == nil {
			attrs["weight"] = w
			tokens = tokens[1:]
		}
	}
	for i := 0; i+1 < len(tokens); i += 2 {
		if w, err := strconv.ParseFloat(tokens[i+1], 64); err == nil {
			attrs[tokens[i]] = w
		}
	}
	return attrs
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// splitQuoted splits on whitespace, keeping double-quoted tokens whole.
func splitQuoted(line string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quoted bool
		inTok  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inTok = true
		case (r == ' ' || r == '\t') && !quoted:
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
