// Package domain contains the core business entities of the contract
// management service. Domain types carry their own validation and know
// nothing about persistence or transport.
package domain
