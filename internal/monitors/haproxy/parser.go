package haproxy

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/signalfx/haproxy-monitor/internal/monitors/types"
)

const (
	infoSeparator = ": "
	statSeparator = ","
	statusField   = "status"
)

// Parser turns raw `show info` and `show stat` responses into a namespace.
// It holds no state beyond its allow-lists, so the same input always yields
// the same namespace.
type Parser struct {
	includeInfo map[string]bool
	includeStat map[string]bool
}

// NewParser creates a parser that keeps only the given info fields and stat
// columns.
func NewParser(includeInfo, includeStat []string) *Parser {
	return &Parser{
		includeInfo: toSet(includeInfo),
		includeStat: toSet(includeStat),
	}
}

// Parse builds the namespace for one poll.  Info fields are stored under
// their own name, stat columns under `<pxname>.<svname>.<column>`.  Fields
// that could not be used are returned alongside the namespace instead of
// failing the parse.
func (p *Parser) Parse(rawInfo, rawStat []byte) (*types.Namespace, []*FieldError) {
	ns := types.NewNamespace()

	skipped := p.parseInfo(ns, string(rawInfo))

	// A missing Process_num leaves this at zero, which disables the status
	// gauges for the poll.
	processNum, _ := ns.Get(ProcessNumKey)

	skipped = append(skipped, p.parseStat(ns, string(rawStat), processNum)...)
	return ns, skipped
}

func (p *Parser) parseInfo(ns *types.Namespace, raw string) []*FieldError {
	var skipped []*FieldError
	for i, line := range splitLines(raw) {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, infoSeparator, 2)
		if len(parts) != 2 {
			skipped = append(skipped, &FieldError{Line: i + 1, Value: line, Err: ErrMalformedInfoLine})
			continue
		}

		key := parts[0]
		if !p.includeInfo[key] {
			continue
		}

		v, err := parseValue(parts[1])
		if err != nil {
			skipped = append(skipped, &FieldError{Line: i + 1, Key: key, Value: parts[1], Err: err})
			continue
		}
		ns.Set(key, v)
	}
	return skipped
}

func (p *Parser) parseStat(ns *types.Namespace, raw string, processNum float64) []*FieldError {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil
	}

	// The first two header columns name the row and the last one is the
	// empty column after HAProxy's trailing comma.
	header := strings.Split(lines[0], statSeparator)
	if len(header) < 3 {
		return nil
	}
	fields := header[2 : len(header)-1]

	var skipped []*FieldError
	for i, line := range lines[1:] {
		row := strings.Split(line, statSeparator)
		if len(row) == 1 {
			continue
		}

		prefix := row[0] + "." + row[1]
		for j, value := range row[2:] {
			if j >= len(fields) {
				break
			}
			field := fields[j]
			if !p.includeStat[field] {
				continue
			}

			key := prefix + "." + field
			if field == statusField && isExpandedStatus(value) && processNum == 1 {
				for _, s := range statusValues {
					var v float64
					if s == value {
						v = 1
					}
					ns.Set(key+"."+s, v)
				}
				continue
			}

			v, err := parseValue(value)
			if err != nil {
				skipped = append(skipped, &FieldError{Line: i + 2, Key: key, Value: value, Err: err})
				continue
			}
			ns.Set(key, v)
		}
	}
	return skipped
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrap(err, "not numeric")
	}
	return v, nil
}

func isExpandedStatus(v string) bool {
	for _, s := range statusValues {
		if v == s {
			return true
		}
	}
	return false
}

func splitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, i := range items {
		out[i] = true
	}
	return out
}
