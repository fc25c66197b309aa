// Package engine defines the contract between the bridge and the media engine.
//
// The engine is an external collaborator: the bridge only drives it through
// commands, properties and its event queue, and hands its render context a
// GL entry point resolver. Engine values are variant trees; values the
// engine returns stay engine-owned and go back through FreeNode.
//
// # Threading
//
// The wakeup callback and the render context's update callback fire on
// engine worker threads. Implementations of those callbacks must only post
// a signal to the host goroutine.
package engine
