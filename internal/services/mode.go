package services

import (
	"fmt"
	"strings"
)

// Mode is the deployment posture. RELAXED tolerates passcode dispatch
// failures and surfaces the code to the caller; STRICT never does.
type Mode string

const (
	ModeStrict  Mode = "STRICT"
	ModeRelaxed Mode = "RELAXED"
)

// ParseMode maps a blank value to STRICT. Anything other than strict or
// relaxed is rejected so a typo cannot silently relax the deployment.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", string(ModeStrict):
		return ModeStrict, nil
	case string(ModeRelaxed):
		return ModeRelaxed, nil
	}
	return "", fmt.Errorf("unknown app mode %q (want strict or relaxed)", raw)
}

func (m Mode) Relaxed() bool { return m == ModeRelaxed }
