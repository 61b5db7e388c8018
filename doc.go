/*
Package modpay defines the common interfaces that tie the module payments
engine together: handlers and tickers that process state transitions,
transactions and messages that carry requests, and the key-value store
abstractions every extension persists through.

The root package contains no business logic. Extensions live under x/ and
implement the actual state transitions. The app package wires them into a
single dispatcher.

We pass context through context.Context between the app, middleware and
handlers. To do so, modpay defines some common keys to store info, such as
the block height. There exist two functions for every XYZ of type T that we
want to support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)
*/
package modpay
