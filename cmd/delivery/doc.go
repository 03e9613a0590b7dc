// Package main hosts the delivery CLI entrypoint and command graph.
//
// Each invocation loads configuration, opens the saved album under its lock,
// runs one step of the delivery workflow, and saves the album back. Heavy
// lifting lives in the internal packages; commands here only wire them
// together and render results.
package main
