package model

import (
	"errors"
	"fmt"
)

// ErrIdentifierConflict is returned when two objects of a collection share an id
var ErrIdentifierConflict = errors.New("identifier conflict")

// Object is anything stored in a Collection
type Object interface {
	GetID() string
}

// Collection is an ordered, id-unique container
type Collection[T Object] struct {
	objects []T
	index   map[string]int // id -> position in objects
}

// NewCollection builds a collection, failing on the first duplicate id
func NewCollection[T Object](objects []T) (*Collection[T], error) {
	index, err := buildIndex(objects)
	if err != nil {
		return nil, err
	}
	return &Collection[T]{objects: objects, index: index}, nil
}

// MustNewCollection is NewCollection for fixtures; it panics on conflict
func MustNewCollection[T Object](objects []T) *Collection[T] {
	c, err := NewCollection(objects)
	if err != nil {
		panic(err)
	}
	return c
}

func buildIndex[T Object](objects []T) (map[string]int, error) {
	index := make(map[string]int, len(objects))
	for i, o := range objects {
		id := o.GetID()
		if _, ok := index[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrIdentifierConflict, id)
		}
		index[id] = i
	}
	return index, nil
}

// Len returns the number of objects
func (c *Collection[T]) Len() int { return len(c.objects) }

// Get returns the object with the given id
func (c *Collection[T]) Get(id string) (T, bool) {
	if i, ok := c.index[id]; ok {
		return c.objects[i], true
	}
	var zero T
	return zero, false
}

// Values returns a copy of the objects in insertion order
func (c *Collection[T]) Values() []T {
	out := make([]T, len(c.objects))
	copy(out, c.objects)
	return out
}

// Take detaches the objects and leaves the collection empty
func (c *Collection[T]) Take() []T {
	out := c.objects
	c.objects = nil
	c.index = map[string]int{}
	return out
}

// Replace swaps in new contents. On conflict the collection is left untouched.
func (c *Collection[T]) Replace(objects []T) error {
	index, err := buildIndex(objects)
	if err != nil {
		return err
	}
	c.objects = objects
	c.index = index
	return nil
}

// Push appends one object
func (c *Collection[T]) Push(o T) error {
	if c.index == nil {
		c.index = map[string]int{}
	}
	id := o.GetID()
	if _, ok := c.index[id]; ok {
		return fmt.Errorf("%w: %q", ErrIdentifierConflict, id)
	}
	c.index[id] = len(c.objects)
	c.objects = append(c.objects, o)
	return nil
}
