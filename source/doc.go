// Package source provides binpos.Source and binpos.Sink implementations.
//
//	Memory      in-memory slice, borrowed views
//	File        io.ReaderAt (usually *os.File), owned copies
//	Mapped      read-only memory map of a file, borrowed views
//	WasmMemory  WebAssembly linear memory from wazero, borrowed views
//	Window      sub-range of another source
//	Shared      reference-counted handle to a closable source
//	Buffer      growable in-memory sink that can be read back
//
// All sources are safe for concurrent reads as long as each goroutine uses
// its own position.
package source
