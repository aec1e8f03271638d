package game

import (
	"fmt"
	"strings"
)

// OutcomeKind tags what a segment does once the wheel lands on it
type OutcomeKind int

const (
	KindPrize OutcomeKind = iota
	KindFreeSpin
	KindNothing
	KindRetry
)

var kindNames = map[OutcomeKind]string{
	KindPrize:    "prize",
	KindFreeSpin: "free_spin",
	KindNothing:  "nothing",
	KindRetry:    "retry",
}

func (k OutcomeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a config name to a kind. Empty means prize.
func ParseKind(s string) (OutcomeKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindPrize, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindPrize, fmt.Errorf("unknown outcome kind %q", s)
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *OutcomeKind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Recorded reports whether outcomes of this kind go to the recent winners log
func (k OutcomeKind) Recorded() bool {
	return k != KindRetry
}

// Claimable reports whether the outcome is a real prize the player can claim
func (k OutcomeKind) Claimable() bool {
	return k == KindPrize
}

// Outcome is the resolved result of a spin: its kind plus display text
type Outcome struct {
	Kind  OutcomeKind `json:"kind"`
	Label string      `json:"label"`
	Index int         `json:"index"`
}
