package anycache

// Named carries keyword arguments. When the final argument of a call is a
// Named, its entries become the keyword set for key derivation; everything
// before it stays positional. The wrapped function still receives the full
// argument list exactly as given.
//
// Keyword keys are hashed in canonical (sorted) order, so
// Named{"a": 1, "b": 2} and Named{"b": 2, "a": 1} derive the same key.
// With Options.ParamNames set, positional and keyword spellings of the same
// call collide too: f(1, Named{"b": 2}) == f(Named{"a": 1, "b": 2}).
type Named map[string]any

// splitNamed separates the keyword set from the positional arguments.
func splitNamed(args []any) ([]any, map[string]any) {
	if n := len(args); n > 0 {
		if named, ok := args[n-1].(Named); ok {
			return args[:n-1], named
		}
	}
	return args, nil
}
