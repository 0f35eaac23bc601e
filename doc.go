// Package trail is a reversible state container for depth-first search.
//
// A Manager holds managed primitive resources addressed by typed handles.
// Save pushes a checkpoint; Restore rewinds every change made since the most
// recent checkpoint in time proportional to the number of changes, not to
// the number of resources.
//
//	m := trail.New()
//	n := m.ManageUint(0)
//	m.Save()
//	m.SetUint(n, 20)
//	m.Save()
//	m.SetUint(n, 42)
//	m.Restore() // n == 20
//	m.Restore() // n == 0
//
// Every store records into one chronological trail. A slot is trailed only
// on its first change after a Save; writes of an unchanged value are free.
// Stores never shrink: resources created after a checkpoint survive the
// restore of that checkpoint with their last written value.
//
// Managers are not safe for concurrent use. Give each search worker its own
// Manager.
package trail
