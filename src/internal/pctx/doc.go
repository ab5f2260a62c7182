// Package pctx implements contexts for shale.
//
// Contexts are the root of logging (and eventually tracing and auth).  This
// package manages a context set up to carry all of those things.
//
// If you are creating a new application, use Background to get the root
// context and derive all future contexts from that.  Tests use TestContext.
//
// Sometimes you want to spin off a long-running operation with a name and
// some fields; the Child function takes care of that.  Each Child call
// appends its name to the parent's with a dot, so logs read like
// "blobcopy.worker.outgoingHttp" and you can see where in the stack the data
// came from.  The convention is oneCamelCaseWord for the name, and parents
// name their children:
//
//	go s.worker(pctx.Child(ctx, "worker"))
package pctx
