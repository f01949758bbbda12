package deck

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type CommandType int

const (
	CommandVMult CommandType = iota
	CommandTVMult
	CommandResidual
	CommandSolve
)

func (c CommandType) String() string {
	switch c {
	case CommandVMult:
		return "vmult"
	case CommandTVMult:
		return "tvmult"
	case CommandResidual:
		return "residual"
	case CommandSolve:
		return "solve"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

type Deck struct {
	Title     string
	RowBlocks []int // Block sizes along rows
	ColBlocks []int // Block sizes along columns, RowBlocks when omitted
	Options   struct {
		Sorted        bool    // Accept column lists in any order
		DropTolerance float64 // Zero means library default
	}
	Entries     []Entry
	Vectors     map[string][]float64
	VectorNames []string // Declaration order
	Commands    []Command
}

type Entry struct {
	Type   string    // A, S, E, P
	Name   string    // Entry name
	Rows   []int     // Global row indices
	Cols   []int     // Global column indices
	Values []float64 // Row-major, len(Rows)*len(Cols)
}

// Batched reports whether the entry is a patch write rather than a single entry.
func (e Entry) Batched() bool { return e.Type == "A" || e.Type == "S" }

// Accumulates reports whether the entry adds to existing values.
func (e Entry) Accumulates() bool { return e.Type == "A" || e.Type == "E" }

type Command struct {
	Type    CommandType
	Args    []string // Vector names
	MaxIter int      // Solve only, zero means default
	Tol     float64  // Solve only, zero means default
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	valuePattern = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGKkmunpf])?$`)
	spacePattern = regexp.MustCompile(`\s+`)
)

func Parse(input string) (*Deck, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	deck := &Deck{
		Vectors: make(map[string][]float64),
	}

	// Title or comment
	if scanner.Scan() {
		deck.Title = strings.TrimPrefix(scanner.Text(), "*")
		deck.Title = strings.TrimSpace(deck.Title)
	}

	var currentLine string
	ended := false
	physical, stmtLine := 1, 1

	flush := func() error {
		if currentLine == "" {
			return nil
		}
		line := currentLine
		currentLine = ""
		if ended {
			return nil
		}
		if err := parseLine(deck, line); err != nil {
			return fmt.Errorf("line %d: %v", stmtLine, err)
		}
		if strings.EqualFold(strings.Fields(line)[0], ".end") {
			ended = true
		}
		return nil
	}

	for scanner.Scan() {
		physical++
		line := strings.TrimSpace(scanner.Text())

		// Inline comment
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if len(line) == 0 {
			continue
		}

		if strings.HasPrefix(line, "+") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "+"))
			if currentLine == "" {
				return nil, fmt.Errorf("line %d: continuation without a statement", physical)
			}
			currentLine += " " + line
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		currentLine = line
		stmtLine = physical
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading deck: %v", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(deck.RowBlocks) == 0 {
		return nil, fmt.Errorf("missing .rowblocks")
	}
	if deck.ColBlocks == nil {
		deck.ColBlocks = append([]int(nil), deck.RowBlocks...)
	}
	return deck, nil
}

func parseLine(deck *Deck, line string) error {
	line = spacePattern.ReplaceAllString(line, " ")

	if strings.HasPrefix(line, ".") {
		return parseDotOperator(deck, line)
	}

	entry, err := parseEntry(line)
	if err != nil {
		return err
	}
	deck.Entries = append(deck.Entries, *entry)
	return nil
}

// Parse .rowblocks, .colblocks, .options, .vector and the analysis commands
func parseDotOperator(deck *Deck, line string) error {
	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ".end":
		return nil

	case ".rowblocks":
		sizes, err := parseSizes(fields[1:])
		if err != nil {
			return fmt.Errorf("invalid row blocks: %v", err)
		}
		deck.RowBlocks = sizes

	case ".colblocks":
		sizes, err := parseSizes(fields[1:])
		if err != nil {
			return fmt.Errorf("invalid column blocks: %v", err)
		}
		deck.ColBlocks = sizes

	case ".options":
		for _, field := range fields[1:] {
			pair := strings.SplitN(field, "=", 2)
			switch strings.ToLower(pair[0]) {
			case "sorted":
				deck.Options.Sorted = true
			case "droptol":
				if len(pair) != 2 {
					return fmt.Errorf("droptol needs a value")
				}
				tol, err := ParseValue(pair[1])
				if err != nil {
					return fmt.Errorf("invalid droptol: %v", err)
				}
				if tol < 0 {
					return fmt.Errorf("droptol must not be negative: %g", tol)
				}
				deck.Options.DropTolerance = tol
			default:
				return fmt.Errorf("unsupported option: %s", field)
			}
		}

	case ".vector":
		if len(fields) < 2 {
			return fmt.Errorf("missing vector name")
		}
		name := fields[1]
		if _, exists := deck.Vectors[name]; exists {
			return fmt.Errorf("vector %s defined twice", name)
		}
		values, err := parseValues(fields[2:])
		if err != nil {
			return fmt.Errorf("vector %s: %v", name, err)
		}
		deck.Vectors[name] = values
		deck.VectorNames = append(deck.VectorNames, name)

	case ".vmult", ".tvmult":
		if len(fields) != 2 {
			return fmt.Errorf("%s needs exactly one vector", fields[0])
		}
		cmd := Command{Type: CommandVMult, Args: fields[1:]}
		if strings.EqualFold(fields[0], ".tvmult") {
			cmd.Type = CommandTVMult
		}
		deck.Commands = append(deck.Commands, cmd)

	case ".residual":
		if len(fields) != 3 {
			return fmt.Errorf("insufficient residual parameters, need x and b")
		}
		deck.Commands = append(deck.Commands, Command{Type: CommandResidual, Args: fields[1:]})

	case ".solve":
		if len(fields) < 2 || len(fields) > 4 {
			return fmt.Errorf("invalid solve parameters, need b [maxiter [tol]]")
		}
		cmd := Command{Type: CommandSolve, Args: fields[1:2]}
		if len(fields) > 2 {
			maxIter, err := strconv.Atoi(fields[2])
			if err != nil || maxIter <= 0 {
				return fmt.Errorf("invalid maxiter: %s", fields[2])
			}
			cmd.MaxIter = maxIter
		}
		if len(fields) > 3 {
			tol, err := ParseValue(fields[3])
			if err != nil {
				return fmt.Errorf("invalid tol: %v", err)
			}
			cmd.Tol = tol
		}
		deck.Commands = append(deck.Commands, cmd)

	default:
		return fmt.Errorf("unsupported command: %s", fields[0])
	}

	return nil
}

// Parse matrix entry
func parseEntry(line string) (*Entry, error) {
	fields := strings.Fields(line)
	entry := &Entry{
		Name: fields[0],
		Type: strings.ToUpper(fields[0][:1]),
	}

	switch entry.Type {
	case "A", "S":
		rest := strings.Join(fields[1:], " ")
		rows, rest, err := cutIndexList(rest)
		if err != nil {
			return nil, fmt.Errorf("%s rows: %v", entry.Name, err)
		}
		cols, rest, err := cutIndexList(rest)
		if err != nil {
			return nil, fmt.Errorf("%s columns: %v", entry.Name, err)
		}
		values, err := parseValues(strings.Fields(rest))
		if err != nil {
			return nil, fmt.Errorf("%s: %v", entry.Name, err)
		}
		if len(values) != len(rows)*len(cols) {
			return nil, fmt.Errorf("%s: %d rows x %d columns need %d values, got %d",
				entry.Name, len(rows), len(cols), len(rows)*len(cols), len(values))
		}
		entry.Rows, entry.Cols, entry.Values = rows, cols, values

	case "E", "P":
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid entry format: %s", line)
		}
		row, err := parseIndex(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s row: %v", entry.Name, err)
		}
		col, err := parseIndex(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%s column: %v", entry.Name, err)
		}
		value, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s: %v", entry.Name, err)
		}
		entry.Rows, entry.Cols, entry.Values = []int{row}, []int{col}, []float64{value}

	default:
		return nil, fmt.Errorf("unsupported entry type: %s", entry.Name)
	}

	return entry, nil
}

// cutIndexList splits a leading "[...]" group off s.
func cutIndexList(s string) ([]int, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return nil, "", fmt.Errorf("expected index list, got %q", s)
	}
	end := strings.Index(s, "]")
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated index list")
	}
	indices, err := ParseIndexList(s[:end+1])
	if err != nil {
		return nil, "", err
	}
	return indices, s[end+1:], nil
}

// ParseIndexList parses "[0 1 4]" (brackets optional) into global indices.
func ParseIndexList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("unterminated index list")
		}
		s = s[1 : len(s)-1]
	}
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	indices := make([]int, 0, len(fields))
	for _, field := range fields {
		index, err := parseIndex(field)
		if err != nil {
			return nil, err
		}
		indices = append(indices, index)
	}
	return indices, nil
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index: %s", s)
	}
	if index < 0 {
		return 0, fmt.Errorf("negative index: %d", index)
	}
	return index, nil
}

func parseSizes(fields []string) ([]int, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no block sizes")
	}
	sizes := make([]int, len(fields))
	for i, field := range fields {
		size, err := strconv.Atoi(field)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("invalid block size: %s", field)
		}
		sizes[i] = size
	}
	return sizes, nil
}

func parseValues(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		value, err := ParseValue(field)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// ParseValue - Parse value and factor. 1k -> 1000
func ParseValue(val string) (float64, error) {
	matches := valuePattern.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if matches[2] != "" {
		factor, ok := unitMap[matches[2]]
		if !ok {
			return 0, fmt.Errorf("unknown unit suffix %q in %s", matches[2], val)
		}
		num *= factor
	}

	return num, nil
}
