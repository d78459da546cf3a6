// Package circuit models photonic programs and their transmittable
// lattice script form.
//
// A lattice script is line oriented. Header lines name the program,
// its language version and the execution target; every remaining
// non-blank line is a gate or measurement operation. A '#' starts a
// comment.
//
//	name template_2x2
//	version 1.0
//	target chip0 (shots=10)
//
//	S2gate(0.543) | [0, 2]
//	MeasureFock() | [0, 1, 2, 3]
package circuit

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Program is a photonic program parsed from a lattice script.
type Program struct {
	Name       string
	Version    string
	Target     string
	Shots      int
	Operations []string
}

var targetRe = regexp.MustCompile(`^target\s+(\S+)(?:\s+\(shots=(\d+)\))?$`)

// Load reads and parses a lattice script file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading program: %w", err)
	}
	p, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing program %s: %w", path, err)
	}
	return p, nil
}

// Parse parses lattice script source. A program needs at least one
// operation; header lines are optional.
func Parse(src string) (*Program, error) {
	p := &Program{}

	sc := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "name "):
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "name "))
		case strings.HasPrefix(line, "version "):
			p.Version = strings.TrimSpace(strings.TrimPrefix(line, "version "))
		case strings.HasPrefix(line, "target "):
			m := targetRe.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("malformed target header on line %d: %q", lineNo, line)
			}
			p.Target = m[1]
			if m[2] != "" {
				shots, err := strconv.Atoi(m[2])
				if err != nil {
					return nil, fmt.Errorf("malformed shot count on line %d: %q", lineNo, line)
				}
				p.Shots = shots
			}
		default:
			p.Operations = append(p.Operations, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error scanning program: %w", err)
	}

	if len(p.Operations) == 0 {
		return nil, fmt.Errorf("program has no operations")
	}
	return p, nil
}

// Serialize renders the transmittable script with the target header
// stamped from the arguments. The arguments override any target or
// shot count carried by the source script.
func (p *Program) Serialize(target string, shots int) (string, error) {
	if target == "" {
		return "", fmt.Errorf("target is required")
	}
	if shots < 1 {
		return "", fmt.Errorf("shots must be positive, got %d", shots)
	}
	if len(p.Operations) == 0 {
		return "", fmt.Errorf("program has no operations")
	}

	var b strings.Builder
	if p.Name != "" {
		fmt.Fprintf(&b, "name %s\n", p.Name)
	}
	if p.Version != "" {
		fmt.Fprintf(&b, "version %s\n", p.Version)
	}
	fmt.Fprintf(&b, "target %s (shots=%d)\n\n", target, shots)
	for _, op := range p.Operations {
		b.WriteString(op)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
