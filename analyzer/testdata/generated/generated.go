// Code generated by hand. DO NOT EDIT.

package generated

func generated() int {
	var x int
	return x // want "Use of unassigned variable 'x'"
}
