/*
Package app wires the extension packages together: a router dispatching
messages to their registered handlers, a ticker chain running the begin
block tasks, and genesis initialization chaining.
*/
package app
