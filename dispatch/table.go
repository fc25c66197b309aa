// Package dispatch maps GL entry-point names to callable functions.
//
// The table is built once from the exported GL methods of render.Bridge and
// never changes afterwards. Every entry forwards to the currently active
// bridge; with no active bridge a call does nothing and returns zero values.
package dispatch

import (
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/mpvbridge/render"
)

// Bridge methods that are not GL entry points.
var nonEntry = map[string]bool{
	"Bound":  true,
	"Close":  true,
	"Live":   true,
	"Memory": true,
	"Pixels": true,
	"Pool":   true,
}

// Entry is one resolvable GL function.
type Entry struct {
	Fn   any
	Type reflect.Type
	Name string
}

var (
	once   sync.Once
	table  map[string]*Entry
	names  []string
	warned sync.Map
)

func build() {
	table = make(map[string]*Entry)
	rt := reflect.TypeOf((*render.Bridge)(nil))
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !m.IsExported() || nonEntry[m.Name] {
			continue
		}
		e := forward(m)
		table[e.Name] = e
		names = append(names, e.Name)
	}
	sort.Strings(names)
}

// forward wraps a bridge method in a function of the same signature minus
// the receiver.
func forward(m reflect.Method) *Entry {
	mt := m.Type
	in := make([]reflect.Type, 0, mt.NumIn()-1)
	for i := 1; i < mt.NumIn(); i++ {
		in = append(in, mt.In(i))
	}
	out := make([]reflect.Type, 0, mt.NumOut())
	for i := 0; i < mt.NumOut(); i++ {
		out = append(out, mt.Out(i))
	}
	ft := reflect.FuncOf(in, out, false)
	fn := m.Func
	impl := reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		b := render.Active()
		if b == nil {
			results := make([]reflect.Value, len(out))
			for i, t := range out {
				results[i] = reflect.Zero(t)
			}
			return results
		}
		return fn.Call(append([]reflect.Value{reflect.ValueOf(b)}, args...))
	})
	return &Entry{Name: "gl" + m.Name, Type: ft, Fn: impl.Interface()}
}

// Lookup returns the function for a GL entry-point name such as "glClear",
// or nil. A miss is logged once per name.
func Lookup(name string) any {
	once.Do(build)
	if e, ok := table[name]; ok {
		return e.Fn
	}
	if _, seen := warned.LoadOrStore(name, struct{}{}); !seen {
		Logger().Warn("unresolved GL function", zap.String("name", name))
	}
	return nil
}

// Get returns the entry for name.
func Get(name string) (*Entry, bool) {
	once.Do(build)
	e, ok := table[name]
	return e, ok
}

// Names returns every entry-point name in sorted order.
func Names() []string {
	once.Do(build)
	return append([]string(nil), names...)
}

// Signature returns the Go signature of an entry point.
func Signature(name string) string {
	if e, ok := Get(name); ok {
		return e.Type.String()
	}
	return ""
}
