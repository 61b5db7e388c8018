/*
Package funds implements the token ledger.

Every account is identified by an address and holds a single integer
balance. The controller moves funds between accounts while enforcing the
existential deposit: an account can never be drained below the configured
minimum by a keep alive transfer.
*/
package funds
