package matrix

// Op selects how a written value combines with the stored entry.
type Op int

const (
	Insert Op = iota // overwrite
	Add              // accumulate
)

func (op Op) String() string {
	switch op {
	case Insert:
		return "set"
	case Add:
		return "add"
	default:
		return "unknown"
	}
}

// Writer is a batched writer for a single local row. Column indices may come
// in any order; values[k] belongs to cols[k].
type Writer interface {
	Write(op Op, row int, cols []int, values []float64)
}
