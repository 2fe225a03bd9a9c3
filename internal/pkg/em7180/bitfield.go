package em7180

import "strings"

type bit[T any] struct {
	mask byte
	name string
	flag func(*T) *bool
}

// bitfield maps single register bits onto independent boolean fields of T.
type bitfield[T any] []bit[T]

func (b bitfield[T]) decode(v byte) T {
	var t T
	for _, f := range b {
		*f.flag(&t) = v&f.mask != 0
	}
	return t
}

func (b bitfield[T]) encode(t T) byte {
	var v byte
	for _, f := range b {
		if *f.flag(&t) {
			v |= f.mask
		}
	}
	return v
}

func (b bitfield[T]) describe(t T) string {
	var names []string
	for _, f := range b {
		if *f.flag(&t) {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
