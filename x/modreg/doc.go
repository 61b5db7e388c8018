/*
Package modreg maintains the registry of modules known to the chain.

A module is an external service registered on chain under a numeric id,
owned by an account. This package provides the read access other extensions
need (existence, ownership, id listing) together with genesis seeding. The
full registration lifecycle is managed elsewhere.
*/
package modreg
