// Package selector parses sdparm's CLI field-selection grammar
// (spec §4.3) and resolves the parsed items against the catalog into
// typed FieldRequest records ModeEngine can apply.
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sdparm-go/sdparm/internal/catalog"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
)

// Parse-time errors, wrapped with the offending item's text via %w so
// callers can both match on the sentinel and print the context.
var (
	ErrUnknownAcronym     = errors.New("selector: unknown acronym")
	ErrWrongPage          = errors.New("selector: acronym not valid for the given page")
	ErrBadByteOffset      = errors.New("selector: byte offset must be >= 0")
	ErrBadStartBit        = errors.New("selector: start_bit must be 0..7")
	ErrBadNumBits         = errors.New("selector: num_bits must be 1..64")
	ErrNoPage             = errors.New("selector: numeric byte:bit:width addressing requires --page=")
	ErrMalformedItem      = errors.New("selector: malformed item")
	ErrMalformedValue     = errors.New("selector: malformed value")
	ErrAmbiguousAcronym   = errors.New("selector: acronym matches fields on more than one page; specify --page=")
)

// RawItem is one comma-separated item, parsed syntactically but not yet
// resolved against the catalog.
type RawItem struct {
	Text      string // original item text, for error messages
	Numeric   bool   // true for byte:bit:width form, false for acronym form
	Acronym   string
	DescIndex int // parsed from ".N"; -1 means absent
	ByteOffset int
	StartBit   int
	NumBits    int
	HasValue   bool
	Value      int64
}

// ParseExpr splits spec on commas and parses each item per spec §4.3's
// grammar, independent of any catalog lookup.
func ParseExpr(spec string) ([]RawItem, error) {
	var out []RawItem
	for _, raw := range strings.Split(spec, ",") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		item, err := parseItem(text)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedItem, spec)
	}
	return out, nil
}

func parseItem(text string) (RawItem, error) {
	item := RawItem{Text: text, DescIndex: -1}

	lhs, value, hasValue, err := splitValue(text)
	if err != nil {
		return RawItem{}, err
	}
	item.HasValue = hasValue
	item.Value = value

	if looksNumeric(lhs) {
		item.Numeric = true
		byteOff, bit, width, err := parseByteBitWidth(lhs)
		if err != nil {
			return RawItem{}, err
		}
		item.ByteOffset = byteOff
		item.StartBit = bit
		item.NumBits = width
		return item, nil
	}

	acron, descIdx, err := parseAcronym(lhs)
	if err != nil {
		return RawItem{}, err
	}
	item.Acronym = acron
	item.DescIndex = descIdx
	return item, nil
}

// splitValue splits "lhs=value" on the first '=', returning hasValue=false
// when there is no '=' at all.
func splitValue(text string) (lhs string, value int64, hasValue bool, err error) {
	idx := strings.IndexByte(text, '=')
	if idx < 0 {
		return text, 0, false, nil
	}
	lhs = text[:idx]
	valStr := strings.TrimSpace(text[idx+1:])
	if lhs == "" || valStr == "" {
		return "", 0, false, fmt.Errorf("%w: %q", ErrMalformedItem, text)
	}
	v, err := parseValue(valStr)
	if err != nil {
		return "", 0, false, err
	}
	return lhs, v, true, nil
}

func parseValue(s string) (int64, error) {
	if s == "-1" {
		return -1, nil
	}
	u, err := parseUint(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedValue, s)
	}
	return int64(u), nil
}

// looksNumeric reports whether lhs is the byte:bit:width form rather
// than an acronym (optionally with ".desc_num").
func looksNumeric(lhs string) bool {
	return strings.Count(lhs, ":") == 2
}

func parseByteBitWidth(lhs string) (byteOff, bit, width int, err error) {
	parts := strings.Split(lhs, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedItem, lhs)
	}
	byteOff, err = parseByteOffset(parts[0])
	if err != nil {
		return 0, 0, 0, err
	}
	bit, err = strconv.Atoi(parts[1])
	if err != nil || bit < 0 || bit > 7 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadStartBit, parts[1])
	}
	width, err = strconv.Atoi(parts[2])
	if err != nil || width < 1 || width > 64 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadNumBits, parts[2])
	}
	return byteOff, bit, width, nil
}

// parseByteOffset accepts decimal, "0x"-prefixed hex, or a trailing-"h"
// hex form (spec §4.3: "(decimal | "0x" hex | hex "h")").
func parseByteOffset(s string) (int, error) {
	u, err := parseUint(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadByteOffset, s)
	}
	if int64(u) < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadByteOffset, s)
	}
	return int(u), nil
}

// parseUint accepts decimal, "0x"-prefixed hex, and trailing-"h" hex.
func parseUint(s string) (uint64, error) {
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		return strconv.ParseUint(s[2:], 16, 64)
	case strings.HasSuffix(s, "h") || strings.HasSuffix(s, "H"):
		return strconv.ParseUint(s[:len(s)-1], 16, 64)
	default:
		return strconv.ParseUint(s, 10, 64)
	}
}

func parseAcronym(lhs string) (acron string, descIdx int, err error) {
	dot := strings.IndexByte(lhs, '.')
	if dot < 0 {
		if lhs == "" {
			return "", -1, fmt.Errorf("%w: empty acronym", ErrMalformedItem)
		}
		return lhs, -1, nil
	}
	acron = lhs[:dot]
	numStr := lhs[dot+1:]
	if acron == "" || numStr == "" {
		return "", -1, fmt.Errorf("%w: %q", ErrMalformedItem, lhs)
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return "", -1, fmt.Errorf("%w: %q", ErrMalformedItem, lhs)
	}
	return acron, n, nil
}

// FieldRequest is a RawItem resolved against the catalog: either Field
// is set (acronym form) or ByteOffset/StartBit/NumBits stand alone
// (numeric triple form).
type FieldRequest struct {
	Field      *catalog.FieldDescriptor
	ByteOffset int
	StartBit   int
	NumBits    int
	DescIndex  int // 0 when the item had no ".N" qualifier
	HasValue   bool
	Value      int64
}

// Resolve resolves parsed items against cat, scoped to the given
// (page, subpage, pdt, transport, vendor). pageGiven reflects whether
// the caller supplied --page=; numeric byte:bit:width items require it
// (spec §4.3's "no --page= given with numeric triple addressing" error).
func Resolve(items []RawItem, cat *catalog.Catalog, page, subpage uint8, pageGiven bool, pdt scsicmd.PDT, transport scsicmd.Transport, vendor scsicmd.Vendor) ([]FieldRequest, error) {
	out := make([]FieldRequest, 0, len(items))
	for _, item := range items {
		if item.Numeric {
			if !pageGiven {
				return nil, fmt.Errorf("%w: %q", ErrNoPage, item.Text)
			}
			out = append(out, FieldRequest{
				ByteOffset: item.ByteOffset,
				StartBit:   item.StartBit,
				NumBits:    item.NumBits,
				DescIndex:  normalizeDescIndex(item.DescIndex),
				HasValue:   item.HasValue,
				Value:      item.Value,
			})
			continue
		}

		candidates := cat.FindFieldsByAcronym(item.Acronym, transport, vendor)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAcronym, item.Acronym)
		}

		field, err := pickField(candidates, page, subpage, pageGiven, item.Acronym)
		if err != nil {
			return nil, err
		}

		out = append(out, FieldRequest{
			Field:      field,
			ByteOffset: field.StartByte,
			StartBit:   field.StartBit,
			NumBits:    field.NumBits,
			DescIndex:  normalizeDescIndex(item.DescIndex),
			HasValue:   item.HasValue,
			Value:      item.Value,
		})
	}
	return out, nil
}

func normalizeDescIndex(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// pickField narrows candidates to the one matching (page, subpage) when
// the caller supplied --page=; with no --page= given, a single-page
// match is required (ambiguity across pages is an error, per spec
// §4.3's "acronym not in expected page" rule read together with the
// acronym-collision design in §9).
func pickField(candidates []*catalog.FieldDescriptor, page, subpage uint8, pageGiven bool, acron string) (*catalog.FieldDescriptor, error) {
	if pageGiven {
		for _, f := range candidates {
			if f.PageCode == page && f.SubpageCode == subpage {
				return f, nil
			}
		}
		return nil, fmt.Errorf("%w: %q on page 0x%02x/0x%02x", ErrWrongPage, acron, page, subpage)
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	first := candidates[0]
	for _, f := range candidates[1:] {
		if f.PageCode != first.PageCode || f.SubpageCode != first.SubpageCode {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousAcronym, acron)
		}
	}
	return first, nil
}
