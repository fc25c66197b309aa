// Package registry provides the handle tables that stand in for host
// graphics object identities.
//
// The engine only ever sees small integers. Each object category (program,
// shader, buffer, texture, framebuffer, uniform location) has its own table:
//
//	textures := registry.New[any](registry.Texture, func(v any) {
//	    deleteTexture(v)
//	})
//
//	h := textures.Create(hostTexture) // 1, 2, 3, ...
//	tex, err := textures.Lookup(h)     // miss is an error
//	textures.Delete(h)                 // miss is a no-op
//
// Handle 0 means "none" and is never stored. Callers that bind objects
// short-circuit 0 to an unbind before consulting the table.
//
// Reverse lookup from a host reference to its handle is a linear scan:
//
//	h, ok := textures.Find(func(v any) bool { return v == current })
//
// Close fires the release hook for every remaining entry, so host objects
// are deleted exactly once whether the engine deletes them or not.
package registry
