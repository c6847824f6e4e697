// Package graph implements a real-time audio signal-flow graph in the style
// of the Web Audio processing model. A host application builds a network of
// processing nodes, connects their input and output terminals, and the engine
// renders audio in fixed 128-frame quanta on a dedicated real-time thread
// while the graph is concurrently mutated from control threads.
//
// Concurrency model: a single mutex protects the graph topology. Control
// threads take it blocking (Connect, Disconnect, automation edits, node
// construction). The render thread only ever tries it once per quantum; if
// the attempt fails because a structural edit is in progress, the engine
// emits one quantum of silence and returns immediately. The render path
// never blocks and never allocates.
package graph
