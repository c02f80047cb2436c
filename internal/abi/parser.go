// Package abi provides internal utilities for parsing Solidity event signatures.
package abi

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/hedeqiang/seal/event"
)

// EventSignatureHash computes the Keccak-256 hash of a canonical event signature.
func EventSignatureHash(sig string) event.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	var out event.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// ParsedEvent represents a parsed Solidity event signature.
type ParsedEvent struct {
	Name   string
	Params []ParsedParam
}

// ParsedParam represents a single parameter in an event signature.
type ParsedParam struct {
	Type    string
	Name    string
	Indexed bool
}

// Canonical returns the canonical signature string (e.g. "Transfer(address,address,uint256)").
func (p *ParsedEvent) Canonical() string {
	types := make([]string, len(p.Params))
	for i, param := range p.Params {
		types[i] = param.Type
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(types, ","))
}

// ParseEventSignature parses a Solidity event signature string.
// Supported formats:
//   - "TransferSent(bytes32)"
//   - "TransferSent(bytes32 indexed digest)"
func ParseEventSignature(sig string) (*ParsedEvent, error) {
	sig = strings.TrimSpace(sig)

	parenOpen := strings.IndexByte(sig, '(')
	parenClose := strings.LastIndexByte(sig, ')')
	if parenOpen < 0 || parenClose < 0 || parenClose <= parenOpen {
		return nil, fmt.Errorf("abi: malformed event signature: %q", sig)
	}

	name := strings.TrimSpace(sig[:parenOpen])
	if name == "" {
		return nil, fmt.Errorf("abi: empty event name in signature: %q", sig)
	}

	paramsStr := strings.TrimSpace(sig[parenOpen+1 : parenClose])
	if paramsStr == "" {
		return &ParsedEvent{Name: name}, nil
	}

	parts := splitParams(paramsStr)
	params := make([]ParsedParam, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		p, err := parseParam(part)
		if err != nil {
			return nil, fmt.Errorf("abi: %w in signature %q", err, sig)
		}
		params = append(params, p)
	}

	return &ParsedEvent{Name: name, Params: params}, nil
}

func parseParam(s string) (ParsedParam, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return ParsedParam{}, fmt.Errorf("empty parameter")
	}

	var p ParsedParam
	p.Type = tokens[0]

	for i := 1; i < len(tokens); i++ {
		if tokens[i] == "indexed" {
			p.Indexed = true
		} else {
			p.Name = tokens[i]
		}
	}

	return p, nil
}

// TypeWords returns the number of 32-byte words a parameter of the given
// type occupies in the static head of ABI-encoded event data. Static tuples
// and fixed-size arrays span the sum of their components' words; dynamic
// types (bytes, string, slices, tuples with a dynamic member) hold a single
// offset word.
func TypeWords(typ string) (int, error) {
	dynamic, err := typeIsDynamic(typ)
	if err != nil {
		return 0, err
	}
	if dynamic {
		return 1, nil
	}

	switch {
	case strings.HasSuffix(typ, "]"):
		elem, count, err := arrayElem(typ)
		if err != nil {
			return 0, err
		}
		w, err := TypeWords(elem)
		if err != nil {
			return 0, err
		}
		return count * w, nil
	case strings.HasPrefix(typ, "("):
		components, err := tupleComponents(typ)
		if err != nil {
			return 0, err
		}
		total := 0
		for _, c := range components {
			w, err := TypeWords(c)
			if err != nil {
				return 0, err
			}
			total += w
		}
		return total, nil
	default:
		return 1, nil
	}
}

// typeIsDynamic reports whether the type has a dynamic ABI encoding, i.e.
// its head holds an offset into the tail rather than the value itself.
func typeIsDynamic(typ string) (bool, error) {
	switch {
	case typ == "bytes" || typ == "string":
		return true, nil
	case strings.HasSuffix(typ, "[]"):
		return true, nil
	case strings.HasSuffix(typ, "]"):
		elem, _, err := arrayElem(typ)
		if err != nil {
			return false, err
		}
		return typeIsDynamic(elem)
	case strings.HasPrefix(typ, "("):
		components, err := tupleComponents(typ)
		if err != nil {
			return false, err
		}
		for _, c := range components {
			dynamic, err := typeIsDynamic(c)
			if err != nil || dynamic {
				return dynamic, err
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

func tupleComponents(typ string) ([]string, error) {
	if !strings.HasSuffix(typ, ")") {
		return nil, fmt.Errorf("abi: malformed tuple type %q", typ)
	}
	inner := typ[1 : len(typ)-1]
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}

	parts := splitParams(inner)
	components := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("abi: malformed tuple type %q", typ)
		}
		components = append(components, p)
	}
	return components, nil
}

func arrayElem(typ string) (elem string, count int, err error) {
	open := strings.LastIndexByte(typ, '[')
	if open < 1 {
		return "", 0, fmt.Errorf("abi: malformed array type %q", typ)
	}
	count, err = strconv.Atoi(typ[open+1 : len(typ)-1])
	if err != nil || count < 0 {
		return "", 0, fmt.Errorf("abi: malformed array length in %q", typ)
	}
	return typ[:open], count, nil
}

// splitParams splits a parameter list string, respecting nested parentheses (e.g., tuples).
func splitParams(s string) []string {
	var parts []string
	depth := 0
	start := 0

	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
