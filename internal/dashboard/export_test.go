package dashboard

import "time"

// SetClock overrides the time source used for relative labels.
func (v *Views) SetClock(now func() time.Time) { v.now = now }
