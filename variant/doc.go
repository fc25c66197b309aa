// Package variant implements the engine's tagged value tree and its
// conversion to and from host dynamic values.
//
// Engine to host:
//
//	None -> nil, Bool -> bool, Int64/Double -> float64, String -> string,
//	ByteArray -> []byte (copied), Array -> []any, Map -> *host.Object
//
// Host to engine:
//
//	nil/host.Undefined -> None, bool -> Bool, "" or invalid UTF-8 -> None,
//	integral number in int32 range -> Int64, other numbers -> Double,
//	[]byte/host.Buffer -> ByteArray, []any -> Array,
//	*host.Object/map[string]any -> Map
//
// Any other Go type fails with an unsupported value type error.
//
// Map keys are translated between the engine's underscore form and the
// host's hyphenated form. Values produced by this package are owned by the
// bridge and released with Release; values owned by the engine go back
// through the engine's free call.
package variant
