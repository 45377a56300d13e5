// Package domain contains core concepts of the messenger.
// Entities here are pure values and invariants.
// No runtime, storage, or UI logic should be added here.
package domain

type Username string

type RoomName string

// Invitation is a single-slot, consume-once room invitation.
// At most one invitation is pending per recipient at any time;
// a newer one silently replaces the previous payload.
type Invitation struct {
	Recipient Username
	Room      RoomName
}
