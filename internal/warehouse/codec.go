package warehouse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every parse error of the text formats.
var ErrMalformed = errors.New("malformed input")

// Input is the JSON shape of an instance. Item ids are the map keys.
type Input struct {
	Orders     []map[int]int `json:"orders"`
	Aisles     []map[int]int `json:"aisles"`
	NItems     int           `json:"nItems"`
	WaveSizeLB int           `json:"waveSizeLB"`
	WaveSizeUB int           `json:"waveSizeUB"`
}

// Instance builds the problem model for the input.
func (in Input) Instance() *Instance {
	return New(in.Orders, in.Aisles, in.NItems, in.WaveSizeLB, in.WaveSizeUB)
}

// Solution is a wave: the selected order and aisle indices.
type Solution struct {
	Orders []int `json:"orders" yaml:"orders"`
	Aisles []int `json:"aisles" yaml:"aisles"`
}

// Empty reports whether the solution selects nothing.
func (s Solution) Empty() bool {
	return len(s.Orders) == 0 && len(s.Aisles) == 0
}

// MaxItems bounds the item count a text instance may declare; the per-item
// indices are sized by it.
const MaxItems = 1 << 24

type tokenReader struct {
	sc   *bufio.Scanner
	read int
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) next(what string) (int, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return 0, fmt.Errorf("reading %s: %w", what, err)
		}
		return 0, fmt.Errorf("%w: unexpected end of input reading %s", ErrMalformed, what)
	}
	t.read++
	v, err := strconv.Atoi(t.sc.Text())
	if err != nil {
		return 0, fmt.Errorf("%w: token %d (%s): %v", ErrMalformed, t.read, what, err)
	}
	return v, nil
}

func (t *tokenReader) pairs(what string) (map[int]int, error) {
	k, err := t.next(what + " size")
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: negative entry count %d in %s", ErrMalformed, k, what)
	}
	m := make(map[int]int)
	for j := 0; j < k; j++ {
		item, err := t.next(what + " item")
		if err != nil {
			return nil, err
		}
		qty, err := t.next(what + " quantity")
		if err != nil {
			return nil, err
		}
		m[item] += qty
	}
	return m, nil
}

// ReadInstance parses the challenge text format:
//
//	nOrders nItems nAisles
//	k item qty item qty ...   (one line per order)
//	k item qty item qty ...   (one line per aisle)
//	LB UB
func ReadInstance(r io.Reader) (*Instance, error) {
	t := newTokenReader(r)
	nOrders, err := t.next("order count")
	if err != nil {
		return nil, err
	}
	nItems, err := t.next("item count")
	if err != nil {
		return nil, err
	}
	nAisles, err := t.next("aisle count")
	if err != nil {
		return nil, err
	}
	if nOrders < 0 || nItems < 0 || nAisles < 0 {
		return nil, fmt.Errorf("%w: negative header %d %d %d", ErrMalformed, nOrders, nItems, nAisles)
	}
	if nItems > MaxItems {
		return nil, fmt.Errorf("%w: item count %d above %d", ErrMalformed, nItems, MaxItems)
	}

	// Counts come from the input, so slices grow with what is actually read.
	var orders []map[int]int
	for o := 0; o < nOrders; o++ {
		m, err := t.pairs(fmt.Sprintf("order %d", o))
		if err != nil {
			return nil, err
		}
		orders = append(orders, m)
	}
	var aisles []map[int]int
	for a := 0; a < nAisles; a++ {
		m, err := t.pairs(fmt.Sprintf("aisle %d", a))
		if err != nil {
			return nil, err
		}
		aisles = append(aisles, m)
	}

	lb, err := t.next("wave size lower bound")
	if err != nil {
		return nil, err
	}
	ub, err := t.next("wave size upper bound")
	if err != nil {
		return nil, err
	}

	return New(orders, aisles, nItems, lb, ub), nil
}

// WriteInstance writes inst in the format ReadInstance accepts.
func WriteInstance(w io.Writer, inst *Instance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", inst.NumOrders(), inst.NumItems(), inst.NumAisles())
	for o := 0; o < inst.NumOrders(); o++ {
		writePairs(bw, inst.Order(o))
	}
	for a := 0; a < inst.NumAisles(); a++ {
		writePairs(bw, inst.Aisle(a))
	}
	fmt.Fprintf(bw, "%d %d\n", inst.WaveSizeLB(), inst.WaveSizeUB())
	return bw.Flush()
}

func writePairs(w io.Writer, m map[int]int) {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(m)))
	for _, item := range SortedItems(m) {
		fmt.Fprintf(&sb, " %d %d", item, m[item])
	}
	sb.WriteByte('\n')
	io.WriteString(w, sb.String())
}

// ReadSolution parses a solution file: the order count followed by the order
// indices, then the aisle count followed by the aisle indices.
func ReadSolution(r io.Reader) (Solution, error) {
	t := newTokenReader(r)
	var sol Solution
	var err error
	if sol.Orders, err = readIndices(t, "order"); err != nil {
		return Solution{}, err
	}
	if sol.Aisles, err = readIndices(t, "aisle"); err != nil {
		return Solution{}, err
	}
	return sol, nil
}

func readIndices(t *tokenReader, what string) ([]int, error) {
	n, err := t.next(what + " count")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative %s count %d", ErrMalformed, what, n)
	}
	idx := []int{}
	for i := 0; i < n; i++ {
		v, err := t.next(what + " index")
		if err != nil {
			return nil, err
		}
		idx = append(idx, v)
	}
	return idx, nil
}

// WriteSolution writes sol in the format ReadSolution accepts.
func WriteSolution(w io.Writer, sol Solution) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(sol.Orders))
	for _, o := range sol.Orders {
		fmt.Fprintln(bw, o)
	}
	fmt.Fprintln(bw, len(sol.Aisles))
	for _, a := range sol.Aisles {
		fmt.Fprintln(bw, a)
	}
	return bw.Flush()
}
