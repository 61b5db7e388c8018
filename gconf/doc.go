/*
Package gconf provides a toolset for managing an extension configuration.

Each extension that defines a configuration object can use gconf to store
it as a singleton in the database, load it from the genesis declaration and
update it through messages.
*/
package gconf
