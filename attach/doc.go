// Package attach tracks the persistent runtime state of embedded
// widgets across content rebuilds.
//
// # Identity
//
// Attachments are recreated every time content is rebuilt, so runtime
// state (current size, published origin, lifecycle phase) cannot live
// on the attachment itself. The registry keys that state by the
// attachment's stable identity: resolving a recreated attachment with
// a known identity revives its prior record, so widget position and
// visibility do not flicker across rebuilds. Identities absent from a
// rebuild are dropped when the build bracket closes.
//
// # Phases
//
// Each tracked widget moves through Unresolved, Measuring, Placed, and
// Hidden. Measuring re-enters on every real size change; Placed and
// Hidden alternate as reconcile passes find or lose geometry for the
// widget's range.
//
// # Concurrency
//
// UpdateSize may be called from any goroutine: widget hosts report
// size changes as they happen. The size handler runs synchronously in
// the calling goroutine and should only schedule work. Origin
// observers are notified through the registry's scheduler, so loop
// hosts can defer delivery to their next turn.
package attach
