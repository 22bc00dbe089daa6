package prgrs

import "iter"

// Range yields lo, lo+1, ..., hi-1.
func Range(lo, hi int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := lo; i < hi; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Chan yields values received from ch until it is closed. It lets work done
// on other goroutines drive a Bar owned by a single consumer.
func Chan[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	}
}
