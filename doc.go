// Package mpvbridge lets a media engine that expects a desktop GL API render
// into a host-managed WebGL-style surface it cannot reach directly.
//
// The engine resolves GL entry points by name. Every call it makes is forwarded
// to a named method on the host rendering context, with integer handles standing
// in for host object references and pixel rows repacked between the engine's
// padded layout and the host's tightly packed one.
//
// # Architecture Overview
//
//	mpvbridge/           Root package with the engine address space interfaces
//	├── player/          Lifecycle: create, steady state, dispose
//	├── render/          GL entry points forwarded to host methods
//	├── dispatch/        Static name -> entry point table
//	├── events/          Redraw and wakeup coalescing, event draining
//	├── variant/         Engine value tree and host value conversion
//	├── registry/        Handle tables for host graphics objects
//	├── pixel/           Row alignment and pixel transfer
//	├── buffer/          Reusable scratch blocks per role
//	├── engine/          Media engine collaborator contract
//	├── host/            Host dynamic value model and rendering context
//	├── message/         CBOR message channel over a player
//	├── config/          TOML player configuration
//	├── wasmgl/          wazero host module exporting the GL table
//	├── cmd/glprobe/     Entry point table inspector
//	├── gl/              GL scalar types and enumerants
//	└── errors/          Structured error types
//
// # Quick Start
//
//	p, err := player.New(surface, engineFactory, &player.Settings{
//	    Handlers: map[string]events.Handler{"file-loaded": onLoaded},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Create(); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Dispose()
//
//	_, err = p.Command("loadfile", "movie.mkv")
//	err = p.Run(ctx) // services redraw and wakeup signals until ctx is done
//
// # Threading
//
// All bridge state is owned by the host goroutine. The engine's worker threads
// may only raise the redraw and wakeup signals; the host drains them.
package mpvbridge
