// Package harness drives one integration check against a video/frame
// schema: connect and ensure the schema, insert synthetic fixtures, run the
// verification queries and optionally purge everything again.
//
// A Harness moves through these states:
//
//	disconnected -> connected -> closed
//	disconnected -> disabled  -> closed
//
// disabled is entered when Connect fails. Every later call that needs the
// database returns an *Error wrapping ErrNotConnected instead of panicking,
// and Close is always safe.
package harness
