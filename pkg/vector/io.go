package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Print writes the entries with the given precision, either on one line
// (across) or one per line.
func (v *Vector) Print(w io.Writer, precision int, scientific, across bool) error {
	verb := byte('f')
	if scientific {
		verb = 'e'
	}
	for _, x := range v.val {
		s := strconv.FormatFloat(x, verb, precision, 64)
		var err error
		if across {
			_, err = fmt.Fprint(w, s, " ")
		} else {
			_, err = fmt.Fprintln(w, s)
		}
		if err != nil {
			return err
		}
	}
	if across {
		_, err := fmt.Fprintln(w)
		return err
	}
	return nil
}

// PrintFormat writes all entries on one line using a printf verb,
// "%1.3e" when format is empty.
func (v *Vector) PrintFormat(w io.Writer, format string) error {
	if format == "" {
		format = "%1.3e"
	}
	for _, x := range v.val {
		if _, err := fmt.Fprintf(w, format+" ", x); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// BlockWrite stores the vector in binary form.
func (v *Vector) BlockWrite(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d\n[", len(v.val)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, v.val); err != nil {
		return err
	}
	_, err := w.Write([]byte{']'})
	return err
}

// BlockRead reads a vector written by BlockWrite, resizing v. It only
// recognizes gross framing errors.
func (v *Vector) BlockRead(r io.Reader) error {
	n, err := readSize(r)
	if err != nil {
		return err
	}

	if c, err := readByte(r); err != nil || c != '[' {
		return fmt.Errorf("opening bracket: %w", ErrIO)
	}

	vals, err := readValues(r, n)
	if err != nil {
		return err
	}

	if c, err := readByte(r); err != nil || c != ']' {
		return fmt.Errorf("closing bracket: %w", ErrIO)
	}
	v.Reinit(n, true)
	copy(v.val, vals)
	return nil
}

// readChunk bounds the allocation made ahead of data actually arriving.
const readChunk = 1 << 16

// readValues grows the result chunk by chunk so that a header announcing more
// values than the stream holds fails with ErrIO instead of allocating n up
// front.
func readValues(r io.Reader, n int) ([]float64, error) {
	if n > math.MaxInt/8 {
		return nil, fmt.Errorf("size %d: %w", n, ErrIO)
	}
	vals := make([]float64, 0, min(n, readChunk))
	for len(vals) < n {
		k := min(n-len(vals), readChunk)
		chunk := make([]float64, k)
		if err := binary.Read(r, binary.LittleEndian, chunk); err != nil {
			return nil, fmt.Errorf("reading %d values at %d: %v: %w", n, len(vals), err, ErrIO)
		}
		vals = append(vals, chunk...)
	}
	return vals, nil
}

// readSize consumes the decimal size line byte by byte so that nothing past
// the header is taken from r.
func readSize(r io.Reader) (int, error) {
	var digits []byte
	for {
		c, err := readByte(r)
		if err != nil {
			return 0, fmt.Errorf("reading size: %v: %w", err, ErrIO)
		}
		if c == '\n' {
			break
		}
		if c < '0' || c > '9' || len(digits) > 18 {
			return 0, fmt.Errorf("size contains %q: %w", c, ErrIO)
		}
		digits = append(digits, c)
	}
	if len(digits) == 0 {
		return 0, fmt.Errorf("empty size: %w", ErrIO)
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, fmt.Errorf("size %q: %w", digits, ErrIO)
	}
	return n, nil
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
