package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/wippyai/mpvbridge/config"
	"github.com/wippyai/mpvbridge/dispatch"
	"github.com/wippyai/mpvbridge/wasmgl"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List every GL entry point with its signature")
		resolve     = flag.String("resolve", "", "Report which of the comma-separated names resolve")
		configFile  = flag.String("config", "", "Print the effective configuration (use . to search for player.toml)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	var err error
	switch {
	case *interactive:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			err = fmt.Errorf("interactive mode needs a terminal")
			break
		}
		err = runInteractive()
	case *resolve != "":
		var missing int
		missing, err = runResolve(os.Stdout, strings.Split(*resolve, ","))
		if err == nil && missing > 0 {
			os.Exit(2)
		}
	case *configFile != "":
		err = runConfig(os.Stdout, *configFile)
	case *list:
		err = runList(os.Stdout)
	default:
		if term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Usage: glprobe -list")
			fmt.Fprintln(os.Stderr, "       glprobe -resolve glClear,glViewport")
			fmt.Fprintln(os.Stderr, "       glprobe -config player.toml")
			fmt.Fprintln(os.Stderr, "       glprobe -i  (interactive mode)")
			os.Exit(1)
		}
		err = runList(os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runList(w io.Writer) error {
	names := dispatch.Names()
	fmt.Fprintf(w, "GL entry points: %d\n\n", len(names))
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", describe(n))
	}
	return nil
}

func runResolve(w io.Writer, names []string) (int, error) {
	missing := 0
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if fn := dispatch.Lookup(n); fn != nil {
			fmt.Fprintf(w, "  ok       %s\n", describe(n))
		} else {
			fmt.Fprintf(w, "  missing  %s\n", n)
			missing++
		}
	}
	return missing, nil
}

func runConfig(w io.Writer, path string) error {
	var (
		cfg *config.Config
		err error
	)
	if path == "." {
		cfg, err = config.Find(".")
		if err == nil && cfg == nil {
			cfg = config.Default()
		}
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return err
	}
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		fmt.Fprintf(w, "# %s\n", cfg.Path)
	}
	_, err = w.Write(data)
	return err
}

// describe formats an entry as "glName(gl.Enum) gl.Ptr  [wasm (i32) -> i32]".
func describe(name string) string {
	e, ok := dispatch.Get(name)
	if !ok {
		return name
	}
	return name + wasmSignature(e)
}

func wasmSignature(e *dispatch.Entry) string {
	goSig := strings.TrimPrefix(e.Type.String(), "func")
	params, results, err := wasmgl.ValueTypes(e.Type)
	if err != nil {
		return goSig
	}
	var ps, rs []string
	for _, p := range params {
		ps = append(ps, valueTypeName(p))
	}
	for _, r := range results {
		rs = append(rs, valueTypeName(r))
	}
	s := goSig + "  [wasm (" + strings.Join(ps, ", ") + ")"
	if len(rs) > 0 {
		s += " -> " + strings.Join(rs, ", ")
	}
	return s + "]"
}
