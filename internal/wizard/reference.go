package wizard

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// ReferencePrefix starts every human-readable case reference
const ReferencePrefix = "RHT-"

// NewReference returns "RHT-" followed by 8 uppercase hex digits taken from
// 32 random bits. References are not checked for uniqueness.
func NewReference() string {
	id := uuid.New()
	return fmt.Sprintf("%s%08X", ReferencePrefix, binary.BigEndian.Uint32(id[:4]))
}
