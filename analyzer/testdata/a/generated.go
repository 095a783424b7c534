// Code generated by hand. DO NOT EDIT.

package a

func generated() int {
	var x int
	return x
}
