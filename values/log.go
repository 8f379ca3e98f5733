package values

import "log/slog"

var _ slog.LogValuer = Value{}

// LogValue renders scalars inline and arrays as a summary group.
func (v Value) LogValue() slog.Value {
	if v.heap == nil {
		return slog.StringValue(v.String())
	}
	return slog.GroupValue(
		slog.String("type", v.kind.String()),
		slog.String("atype", v.AType().String()),
		slog.Int("size", v.Size()),
		slog.Any("dims", v.Dims()),
	)
}
