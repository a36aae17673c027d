// Package storetest contains a contract test suite that every store.Engine
// implementation must pass, plus fixtures shared by handler tests. Engine packages
// call RunEngineContract from their own tests with a factory that returns a fresh,
// empty engine.
package storetest
