// Package segment models segment registers and descriptor-table registers.
//
// A Descriptor is a plain container. The meaning of Access and whether Limit
// is byte or page granular belong to whoever executes instructions, so this
// package never inspects them.
package segment

import "fmt"

// Descriptor is the cached state of a segment or table register.
type Descriptor struct {
	// Base is the linear base address.
	Base uint64

	// Limit is the segment limit as loaded. Granularity is encoded in Access.
	Limit uint32

	// Access holds the raw access-rights and type bits.
	Access uint16

	// Selector indexes a descriptor table.
	Selector uint16
}

func (d Descriptor) String() string {
	return fmt.Sprintf("sel=%04x base=%016x limit=%08x access=%04x",
		d.Selector, d.Base, d.Limit, d.Access)
}
