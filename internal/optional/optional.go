package optional

import "gopkg.in/yaml.v3"

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

func (self Optional[T]) Value() T {
	return self.value
}

// IsZero reports absence so that `omitempty` drops absent values when
// encoding.
func (self Optional[T]) IsZero() bool {
	return !self.present
}

// MarshalYAML encodes a present value as the value itself.
func (self Optional[T]) MarshalYAML() (interface{}, error) {
	if !self.present {
		return nil, nil
	}
	return self.value, nil
}

var _ yaml.Marshaler = Optional[string]{}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
