package identity

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator allocates identifiers that cannot collide by construction: every
// id embeds a random per-process nonce plus a monotonic counter, so ids are
// unique across repeated generation runs in one process and across restarts
// with overlapping inputs.
type Generator struct {
	nonce   string
	counter atomic.Uint64
}

func NewGenerator() *Generator {
	return &Generator{
		nonce: strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
	}
}

func (g *Generator) next() uint64 {
	return g.counter.Add(1)
}

// SlotID builds a time slot identifier. The semantic fields stay in the id
// for debuggability; uniqueness comes from the nonce+counter suffix alone.
func (g *Generator) SlotID(doctorID, date, startTime, specialization string) string {
	spec := specialization
	if spec == "" {
		spec = "none"
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s-%d", doctorID, date, startTime, spec, g.nonce, g.next())
}

// AppointmentID builds an appointment identifier.
func (g *Generator) AppointmentID() string {
	return fmt.Sprintf("apt-%s-%d", g.nonce, g.next())
}

// EntityID builds an identifier for roster entities (doctors, owners, pets).
func (g *Generator) EntityID(prefix string) string {
	return fmt.Sprintf("%s-%s-%d", prefix, g.nonce, g.next())
}
