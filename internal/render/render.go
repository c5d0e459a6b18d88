// Package render implements the Renderer component (spec §4.7): a
// single event stream (hr_line/obj/arr/kv_*) fanned out to one of two
// sinks, text or JSON, the way cmd/tcgdiskstat/main.go's outputTable
// and outputJSON share one Devices value but render it two ways.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// TerminalWidth returns stdout's column width via term.GetSize when fd
// is a tty, the same API pkg/cmdutil/resolver.go imports x/term for
// (there term.ReadPassword, here term.GetSize). Falls back to 0 (no
// wrapping) for pipes/redirection, matching term.IsTerminal's false case.
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// wrapDescription breaks text into width-wide lines (0 disables
// wrapping), splitting on word boundaries; used by TextSink's
// --long description column when stdout is a tty.
func wrapDescription(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+1+len(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Sink is the event stream every decoder (ModeEngine, VpdDecoder)
// writes to. Implementations never see SCSI semantics, only a tree of
// keyed values — the same separation pkg/core keeps between decoding
// and cmd/*/main.go's presentation.
type Sink interface {
	HRLine(text string)
	BeginObj(key string)
	EndObj()
	BeginArr(key string)
	EndArr()
	KVInt(key string, value int64, hexFlag bool, description string)
	KVStr(key, value string)
	KVHexBytes(key string, b []byte)
}

// SnakeCase converts a catalog display name ("Read-Write Error
// Recovery") to its JSON key form ("read_write_error_recovery"), per
// spec §4.7 ("JSON keys are the snake-case conversion of the page/field
// name").
func SnakeCase(name string) string {
	var b strings.Builder
	prevUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
			prevUnderscore = false
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		default:
			if !prevUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// TextSink renders to a tabwriter-backed human-readable stream, the
// style of cmd/tcgdiskstat's outputTable: acronym, then value, aligned
// in columns.
type TextSink struct {
	w      *tabwriter.Writer
	quiet  bool
	indent int
	descWidth int
}

// NewTextSink wraps out in a tabwriter with the same column padding
// tcgdiskstat's outputTable uses. descWidth wraps the --long
// description column to that many characters (0 disables wrapping,
// the right choice when out isn't a tty — see TerminalWidth).
func NewTextSink(out io.Writer, quiet bool, descWidth int) *TextSink {
	return &TextSink{w: tabwriter.NewWriter(out, 0, 0, 3, ' ', 0), quiet: quiet, descWidth: descWidth}
}

// Flush must be called once rendering is complete.
func (s *TextSink) Flush() error { return s.w.Flush() }

func (s *TextSink) HRLine(text string) {
	fmt.Fprintln(s.w, text)
}

func (s *TextSink) BeginObj(key string) {
	if key != "" && !s.quiet {
		fmt.Fprintf(s.w, "%s%s:\n", strings.Repeat("  ", s.indent), key)
	}
	s.indent++
}

func (s *TextSink) EndObj() {
	if s.indent > 0 {
		s.indent--
	}
}

func (s *TextSink) BeginArr(key string) { s.BeginObj(key) }
func (s *TextSink) EndArr()             { s.EndObj() }

func (s *TextSink) KVInt(key string, value int64, hexFlag bool, description string) {
	val := fmt.Sprintf("%d", value)
	if hexFlag {
		val = fmt.Sprintf("0x%x", value)
	}
	prefix := strings.Repeat("  ", s.indent)
	if s.quiet || description == "" {
		fmt.Fprintf(s.w, "%s%s\t%s\n", prefix, key, val)
		return
	}
	lines := wrapDescription(description, s.descWidth)
	fmt.Fprintf(s.w, "%s%s\t%s\t%s\n", prefix, key, val, lines[0])
	for _, cont := range lines[1:] {
		fmt.Fprintf(s.w, "%s\t\t%s\n", prefix, cont)
	}
}

func (s *TextSink) KVStr(key, value string) {
	fmt.Fprintf(s.w, "%s%s\t%s\n", strings.Repeat("  ", s.indent), key, value)
}

func (s *TextSink) KVHexBytes(key string, b []byte) {
	fmt.Fprintf(s.w, "%s%s\t%x\n", strings.Repeat("  ", s.indent), key, b)
}

// jsonNode is one entry in the JSON tree sink's stack. Object children
// preserve insertion order via keys/vals parallel slices (encoding/json
// has no ordered-map type), matching how the teacher leans on
// json.MarshalIndent for its own Devices slice rather than hand-rolled
// streaming.
type jsonNode struct {
	isArray bool
	keys    []string
	vals    []interface{}
	arr     []interface{}
}

func (n *jsonNode) set(key string, v interface{}) {
	if n.isArray {
		n.arr = append(n.arr, v)
		return
	}
	n.keys = append(n.keys, key)
	n.vals = append(n.vals, v)
}

func (n *jsonNode) MarshalJSON() ([]byte, error) {
	if n.isArray {
		return json.Marshal(n.arr)
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range n.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, err := json.Marshal(n.vals[i])
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// JSONSink builds the same tree model as TextSink walks, but keeps it
// in memory and marshals it once at the end (spec §4.7's "JSON keys
// are the snake-case conversion").
type JSONSink struct {
	root  *jsonNode
	stack []*jsonNode
}

// NewJSONSink creates an empty tree-building sink.
func NewJSONSink() *JSONSink {
	root := &jsonNode{}
	return &JSONSink{root: root, stack: []*jsonNode{root}}
}

func (s *JSONSink) top() *jsonNode { return s.stack[len(s.stack)-1] }

func (s *JSONSink) HRLine(text string) {
	// Text-only lines have no place in the JSON tree; spec §4.7 treats
	// hr_line as the human-output sink's concern only.
}

func (s *JSONSink) BeginObj(key string) {
	n := &jsonNode{}
	s.top().set(SnakeCase(key), n)
	s.stack = append(s.stack, n)
}

func (s *JSONSink) EndObj() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *JSONSink) BeginArr(key string) {
	n := &jsonNode{isArray: true}
	s.top().set(SnakeCase(key), n)
	s.stack = append(s.stack, n)
}

func (s *JSONSink) EndArr() { s.EndObj() }

func (s *JSONSink) KVInt(key string, value int64, hexFlag bool, description string) {
	s.top().set(SnakeCase(key), value)
}

func (s *JSONSink) KVStr(key, value string) {
	s.top().set(SnakeCase(key), value)
}

func (s *JSONSink) KVHexBytes(key string, b []byte) {
	s.top().set(SnakeCase(key), fmt.Sprintf("%x", b))
}

// MarshalIndent renders the accumulated tree, mirroring
// json.MarshalIndent(state, "", "  ") in cmd/tcgdiskstat's outputJSON.
func (s *JSONSink) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s.root, "", "  ")
}
