/*
Package model holds the in-memory representation of a transit dataset.

Objects are grouped in id-indexed collections that keep insertion order so
that written output stays deterministic:

	lines, err := model.NewCollection([]model.Line{{ID: "L1"}, {ID: "L2"}})
	if err != nil {
	    // two lines share an id
	}
	l, ok := lines.Get("L1")

Collections can be detached with Take and refilled with Replace. Replace
validates the new contents before swapping them in, so a collection is never
observed holding duplicate ids.
*/
package model
