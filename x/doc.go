/*
Package x contains interfaces shared by the extensions, so they can be
combined without hard-coding each other. Actual state transitions live in
the subpackages.
*/
package x
