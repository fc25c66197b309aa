// Package wasmgl exposes the GL dispatch table to engines compiled to
// WebAssembly.
//
// Instantiate registers a wazero host module whose functions are named
// after the GL entry points, so a guest importing "env.glClear" resolves
// to the same function a native engine gets from dispatch.Lookup. Guest
// memory becomes the engine address space through NewAddressSpace.
package wasmgl

import (
	"context"
	"fmt"
	"reflect"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/mpvbridge/dispatch"
	"github.com/wippyai/mpvbridge/errors"
)

// DefaultModule is the import namespace engines built with emscripten use.
const DefaultModule = "env"

// Instantiate registers every dispatch entry as a host function of module
// name in r.
func Instantiate(ctx context.Context, r wazero.Runtime, name string) (api.Module, error) {
	b := r.NewHostModuleBuilder(name)
	for _, n := range dispatch.Names() {
		e, _ := dispatch.Get(n)
		fn, params, results, err := buildHostFunc(e.Fn)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseRuntime, errors.KindUnsupported, err, n)
		}
		b.NewFunctionBuilder().
			WithGoModuleFunction(fn, params, results).
			WithName(n).
			Export(n)
	}
	mod, err := b.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "instantiate "+name)
	}
	Logger().Debug("gl host module instantiated", zap.String("module", name), zap.Int("functions", len(dispatch.Names())))
	return mod, nil
}

// ValueTypes returns the wasm signature of a GL entry point.
func ValueTypes(t reflect.Type) (params, results []api.ValueType, err error) {
	for i := 0; i < t.NumIn(); i++ {
		vt, err := valueType(t.In(i))
		if err != nil {
			return nil, nil, fmt.Errorf("param %d: %w", i, err)
		}
		params = append(params, vt)
	}
	for i := 0; i < t.NumOut(); i++ {
		vt, err := valueType(t.Out(i))
		if err != nil {
			return nil, nil, fmt.Errorf("result %d: %w", i, err)
		}
		results = append(results, vt)
	}
	return params, results, nil
}

func valueType(t reflect.Type) (api.ValueType, error) {
	switch t.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Int8, reflect.Int16, reflect.Int32:
		return api.ValueTypeI32, nil
	case reflect.Float32:
		return api.ValueTypeF32, nil
	case reflect.Float64:
		return api.ValueTypeF64, nil
	}
	return 0, fmt.Errorf("no wasm type for %s", t)
}

// buildHostFunc adapts a GL function to a stack-based host function.
func buildHostFunc(handler any) (api.GoModuleFunc, []api.ValueType, []api.ValueType, error) {
	rv := reflect.ValueOf(handler)
	if rv.Kind() != reflect.Func {
		return nil, nil, nil, fmt.Errorf("handler must be function, got %T", handler)
	}
	rt := rv.Type()
	params, results, err := ValueTypes(rt)
	if err != nil {
		return nil, nil, nil, err
	}

	in := make([]reflect.Type, rt.NumIn())
	for i := range in {
		in[i] = rt.In(i)
	}

	fn := api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
		args := make([]reflect.Value, len(in))
		for i, t := range in {
			args[i] = decode(t, stack[i])
		}
		out := rv.Call(args)
		for i, v := range out {
			stack[i] = encode(v)
		}
	})
	return fn, params, results, nil
}

func decode(t reflect.Type, raw uint64) reflect.Value {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		v.SetUint(uint64(uint32(raw)))
	case reflect.Int8, reflect.Int16, reflect.Int32:
		v.SetInt(int64(int32(uint32(raw))))
	case reflect.Float32:
		v.SetFloat(float64(api.DecodeF32(raw)))
	case reflect.Float64:
		v.SetFloat(api.DecodeF64(raw))
	}
	return v
}

func encode(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return uint64(uint32(v.Uint()))
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return api.EncodeI32(int32(v.Int()))
	case reflect.Float32:
		return api.EncodeF32(float32(v.Float()))
	case reflect.Float64:
		return api.EncodeF64(v.Float())
	}
	return 0
}

