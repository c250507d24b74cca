// Package input parses the simulation request: lattice dimensions, sweep
// count and the list of initial demon energies.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMalformed wraps every parse failure. Malformed input aborts the program
// before any simulation starts.
var ErrMalformed = errors.New("malformed input")

// maxEnergyHint caps the preallocation taken from the unchecked energy count.
const maxEnergyHint = 1 << 16

// Request is the parsed program input.
type Request struct {
	X, Y     int
	Sweeps   int
	Energies []int
}

// Parse reads whitespace-separated integers: X Y sweeps N followed by N
// initial demon energies. Tokens after the last energy are ignored.
func Parse(r io.Reader) (Request, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("%w: reading %s: %v", ErrMalformed, what, err)
			}
			return 0, fmt.Errorf("%w: missing %s", ErrMalformed, what)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q is not an integer", ErrMalformed, what, sc.Text())
		}
		return v, nil
	}

	var req Request
	var n int
	var err error
	if req.X, err = next("lattice width X"); err != nil {
		return Request{}, err
	}
	if req.Y, err = next("lattice height Y"); err != nil {
		return Request{}, err
	}
	if req.Sweeps, err = next("sweep count"); err != nil {
		return Request{}, err
	}
	if n, err = next("energy count"); err != nil {
		return Request{}, err
	}
	switch {
	case req.X <= 0 || req.Y <= 0:
		return Request{}, fmt.Errorf("%w: lattice %dx%d must be positive", ErrMalformed, req.X, req.Y)
	case req.Sweeps <= 0:
		return Request{}, fmt.Errorf("%w: sweep count %d must be positive", ErrMalformed, req.Sweeps)
	case n < 0:
		return Request{}, fmt.Errorf("%w: energy count %d is negative", ErrMalformed, n)
	}

	req.Energies = make([]int, 0, min(n, maxEnergyHint))
	for i := 0; i < n; i++ {
		e, err := next(fmt.Sprintf("demon energy %d of %d", i+1, n))
		if err != nil {
			return Request{}, err
		}
		req.Energies = append(req.Energies, e)
	}
	return req, nil
}
