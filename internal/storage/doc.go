// Package storage defines the narrow key-value contract the queue's cold
// tier is built against, plus a single in-memory reference implementation.
//
// The actual embedded-KV backend is treated as an external collaborator:
// any store offering range iteration and an atomic associative merge will
// do. This package stays a plain interface plus a reference backend
// rather than forcing in a concrete embedded-KV dependency.
package storage
