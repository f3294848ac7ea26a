package trackdat

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed command_tables/*.csv
var embeddedTables embed.FS

// DefaultCommandTablePath names the embedded command table. Its argument
// counts are an unverified placeholder: no authoritative table for the
// command set is known. Files whose commands take other counts misparse
// silently, so real decoding should supply a verified table through
// LoadCommandTable.
const DefaultCommandTablePath = "command_tables/default.csv"

// CommandTable maps a command identifier to the number of i16 arguments that
// follow the two-byte command header. The known command set is incomplete, so
// the table is data rather than code.
type CommandTable struct {
	extraArgs map[uint8]int
	source    string
}

// NewCommandTable builds a table from an id -> extra argument count map.
func NewCommandTable(extraArgs map[uint8]int) *CommandTable {
	t := &CommandTable{extraArgs: make(map[uint8]int, len(extraArgs)), source: "inline"}
	for id, n := range extraArgs {
		t.extraArgs[id] = n
	}
	return t
}

// ArgCount returns the number of i16 arguments for id.
func (t *CommandTable) ArgCount(id uint8) (int, bool) {
	n, ok := t.extraArgs[id]
	return n, ok
}

// IDs returns the known command identifiers in ascending order.
func (t *CommandTable) IDs() []uint8 {
	ids := make([]uint8, 0, len(t.extraArgs))
	for id := range t.extraArgs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of commands in the table.
func (t *CommandTable) Len() int { return len(t.extraArgs) }

// Source describes where the table was loaded from.
func (t *CommandTable) Source() string { return t.source }

// LoadEmbeddedCommandTable loads the placeholder command table compiled into
// the binary and warns on the ops stream that its counts are unverified.
func LoadEmbeddedCommandTable() (*CommandTable, error) {
	file, err := embeddedTables.Open(DefaultCommandTablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded command table: %w", err)
	}
	defer file.Close()

	t, err := ParseCommandTable(file)
	if err != nil {
		return nil, err
	}
	t.source = "embedded:" + DefaultCommandTablePath
	opsf("using unverified placeholder command table %s; set command_table to a verified table", DefaultCommandTablePath)
	return t, nil
}

// LoadCommandTable loads a command table from a CSV file on disk.
func LoadCommandTable(path string) (*CommandTable, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".csv" {
		return nil, fmt.Errorf("command table must have .csv extension, got %q", ext)
	}
	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open command table: %w", err)
	}
	defer file.Close()

	t, err := ParseCommandTable(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	t.source = cleanPath
	return t, nil
}

// ParseCommandTable reads "command,extra_args" CSV records. Command ids may
// be written in decimal or with a 0x prefix.
func ParseCommandTable(r io.Reader) (*CommandTable, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read command table CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("insufficient data in command table")
	}

	header := records[0]
	if len(header) != 2 ||
		strings.ToLower(strings.TrimSpace(header[0])) != "command" ||
		strings.ToLower(strings.TrimSpace(header[1])) != "extra_args" {
		return nil, fmt.Errorf("invalid header in command table, expected: command,extra_args")
	}

	t := &CommandTable{extraArgs: make(map[uint8]int, len(records)-1)}
	for i, record := range records[1:] {
		line := i + 2
		if len(record) != 2 {
			return nil, fmt.Errorf("invalid record at line %d: expected 2 fields", line)
		}

		id, err := strconv.ParseUint(strings.TrimSpace(record[0]), 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid command id at line %d: %w", line, err)
		}
		if id == 0 {
			return nil, fmt.Errorf("command id 0 at line %d marks a track section, not a command", line)
		}

		n, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid argument count at line %d: %w", line, err)
		}
		if n < 0 || n > 16 {
			return nil, fmt.Errorf("argument count %d out of range (0-16) at line %d", n, line)
		}

		if _, dup := t.extraArgs[uint8(id)]; dup {
			return nil, fmt.Errorf("duplicate command 0x%02X at line %d", id, line)
		}
		t.extraArgs[uint8(id)] = n
	}
	return t, nil
}

// DefaultCommandTable returns the embedded placeholder table, or an empty
// table if the embedded file cannot be parsed (which would fail every
// command lookup).
func DefaultCommandTable() *CommandTable {
	t, err := LoadEmbeddedCommandTable()
	if err != nil {
		opsf("embedded command table unusable: %v", err)
		return &CommandTable{extraArgs: map[uint8]int{}, source: "empty"}
	}
	return t
}

// WriteCSV writes the table in the format read by ParseCommandTable.
func (t *CommandTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"command", "extra_args"}); err != nil {
		return err
	}
	for _, id := range t.IDs() {
		if err := cw.Write([]string{fmt.Sprintf("0x%02X", id), strconv.Itoa(t.extraArgs[id])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
