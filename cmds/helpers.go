package cmds

// Var defines name to set the returned variable from one argument, and
// "name." to reset it to the zero value.
func Var[T any](name string) *T {
	var value T
	Define(name, Func(func(v T) {
		value = v
	}).Desc("set "+name))
	Define(name+".", Func(func() {
		var zero T
		value = zero
	}).Desc("reset "+name))
	return &value
}

// Switch defines name to turn the returned flag on and "!name" to turn it off.
func Switch(name string) *bool {
	var value bool
	Define(name, Func(func() {
		value = true
	}).Desc("enable "+name))
	Define("!"+name, Func(func() {
		value = false
	}).Desc("disable "+name))
	return &value
}

// Collect defines name to append one argument per occurrence, and "name." to clear the list.
func Collect[T any](name string) *[]T {
	var value []T
	Define(name, Func(func(v T) {
		value = append(value, v)
	}).Desc("append to "+name))
	Define(name+".", Func(func() {
		value = nil
	}).Desc("clear "+name))
	return &value
}
