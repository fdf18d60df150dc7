package option

import (
	"fmt"
	"strings"
)

// UnknownOptionError is raised for a token that looks like an option
// (starts with '-') but matches no schema entry applicable to the
// active mode.
type UnknownOptionError struct {
	Token string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("option: unknown option %q", e.Token)
}

// MissingArgumentError is raised when a separate/joinedOrSeparate
// option appears as the last argv element with no following value.
type MissingArgumentError struct {
	Spelling string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("option: missing argument for %q", e.Spelling)
}

// Parse tokenizes argv into a sequence of ParsedOption values using
// longest-prefix matching against table's schema for mode.
// Non-option tokens become Input entries; "--" switches every
// subsequent token (regardless of leading '-') to an Input entry,
// consuming the rest of argv wholesale.
func Parse(argv []string, mode DriverMode, table *Table) ([]ParsedOption, error) {
	var out []ParsedOption
	afterDoubleDash := false

	for i := 0; i < len(argv); {
		token := argv[i]

		if afterDoubleDash {
			out = append(out, ParsedOption{ID: IDInput, IsInput: true, Value: token})
			i++
			continue
		}

		if token == "--" {
			afterDoubleDash = true
			i++
			continue
		}

		if token == "" || token[0] != '-' || token == "-" {
			out = append(out, ParsedOption{ID: IDInput, IsInput: true, Value: token})
			i++
			continue
		}

		entry, matchedLen, found := table.LongestMatch(mode, token)
		if !found {
			return nil, &UnknownOptionError{Token: token}
		}
		suffix := token[matchedLen:]
		id := table.resolvedID(entry)

		switch entry.Generator {
		case GenFlag:
			if suffix != "" {
				return nil, &UnknownOptionError{Token: token}
			}
			out = append(out, ParsedOption{ID: id, Spelling: entry.Spelling, Kind: GenFlag})
			i++

		case GenJoined:
			out = append(out, ParsedOption{ID: id, Spelling: entry.Spelling, Kind: GenJoined, Value: suffix})
			i++

		case GenSeparate:
			if suffix != "" {
				return nil, &UnknownOptionError{Token: token}
			}
			if i+1 >= len(argv) {
				return nil, &MissingArgumentError{Spelling: entry.Spelling}
			}
			out = append(out, ParsedOption{ID: id, Spelling: entry.Spelling, Kind: GenSeparate, Value: argv[i+1]})
			i += 2

		case GenJoinedOrSeparate:
			if suffix != "" {
				out = append(out, ParsedOption{ID: id, Spelling: entry.Spelling, Kind: GenJoinedOrSeparate, Value: suffix})
				i++
				continue
			}
			if i+1 >= len(argv) {
				return nil, &MissingArgumentError{Spelling: entry.Spelling}
			}
			out = append(out, ParsedOption{ID: id, Spelling: entry.Spelling, Kind: GenJoinedOrSeparate, Value: argv[i+1]})
			i += 2

		case GenCommaJoined:
			var values []string
			if suffix != "" {
				values = strings.Split(suffix, ",")
			}
			out = append(out, ParsedOption{ID: id, Spelling: entry.Spelling, Kind: GenCommaJoined, Values: values})
			i++

		case GenRemaining:
			afterDoubleDash = true
			i++

		default:
			return nil, fmt.Errorf("option: schema entry %q has no parser handling", entry.Spelling)
		}
	}

	return out, nil
}

// Get returns the first ParsedOption with the given ID, if any.
func Get(opts []ParsedOption, id ID) (ParsedOption, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return ParsedOption{}, false
}

// Has reports whether any ParsedOption with the given ID is present.
func Has(opts []ParsedOption, id ID) bool {
	_, ok := Get(opts, id)
	return ok
}

// Inputs returns every Input-kind ParsedOption's value, in order.
func Inputs(opts []ParsedOption) []string {
	var out []string
	for _, o := range opts {
		if o.IsInput {
			out = append(out, o.Value)
		}
	}
	return out
}

// All returns every ParsedOption with the given ID, in order.
func All(opts []ParsedOption, id ID) []ParsedOption {
	var out []ParsedOption
	for _, o := range opts {
		if o.ID == id {
			out = append(out, o)
		}
	}
	return out
}
