/*
Package modpaytest provides mocks and helpers for testing extensions.
*/
package modpaytest
