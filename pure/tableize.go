package pure

// TableizeI1O1 memoizes a pure one-argument function.
func TableizeI1O1[I1 comparable, O1 any](
	pureFn func(I1) O1,
	numShards int,
) func(I1) O1 {
	table := NewTable(func(i1 I1) (O1, error) {
		return pureFn(i1), nil
	}, numShards)
	return func(i1 I1) O1 {
		v, _ := table.Get(i1)
		return v
	}
}

type args2[I1, I2 comparable] struct {
	i1 I1
	i2 I2
}

// TableizeI2O1 memoizes a pure two-argument function.
func TableizeI2O1[I1, I2 comparable, O1 any](
	pureFn func(I1, I2) O1,
	numShards int,
) func(I1, I2) O1 {
	table := NewTable(func(a args2[I1, I2]) (O1, error) {
		return pureFn(a.i1, a.i2), nil
	}, numShards)
	return func(i1 I1, i2 I2) O1 {
		v, _ := table.Get(args2[I1, I2]{i1, i2})
		return v
	}
}

type args3[I1, I2, I3 comparable] struct {
	i1 I1
	i2 I2
	i3 I3
}

// TableizeI3O1 memoizes a pure three-argument function.
func TableizeI3O1[I1, I2, I3 comparable, O1 any](
	pureFn func(I1, I2, I3) O1,
	numShards int,
) func(I1, I2, I3) O1 {
	table := NewTable(func(a args3[I1, I2, I3]) (O1, error) {
		return pureFn(a.i1, a.i2, a.i3), nil
	}, numShards)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		v, _ := table.Get(args3[I1, I2, I3]{i1, i2, i3})
		return v
	}
}

type args4[I1, I2, I3, I4 comparable] struct {
	i1 I1
	i2 I2
	i3 I3
	i4 I4
}

// TableizeI4O1 memoizes a pure four-argument function.
func TableizeI4O1[I1, I2, I3, I4 comparable, O1 any](
	pureFn func(I1, I2, I3, I4) O1,
	numShards int,
) func(I1, I2, I3, I4) O1 {
	table := NewTable(func(a args4[I1, I2, I3, I4]) (O1, error) {
		return pureFn(a.i1, a.i2, a.i3, a.i4), nil
	}, numShards)
	return func(i1 I1, i2 I2, i3 I3, i4 I4) O1 {
		v, _ := table.Get(args4[I1, I2, I3, I4]{i1, i2, i3, i4})
		return v
	}
}

// TryTableizeI1O1 memoizes a one-argument function that may fail.
// Only successful results are kept; a failed call is retried next time.
func TryTableizeI1O1[I1 comparable, O1 any](
	fn func(I1) (O1, error),
	numShards int,
) func(I1) (O1, error) {
	return NewTable(fn, numShards).Get
}
