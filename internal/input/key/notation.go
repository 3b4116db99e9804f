package key

import (
	"fmt"
	"strings"
)

// LeaderToken is the canonical token for the user's leader key.
const LeaderToken = "<leader>"

// DefaultLeader is the leader key when none is configured, as in Vim.
const DefaultLeader = `\`

// Normalizer converts key specifications into canonical tokens.
// Tokens produced by a Normalizer compare equal exactly when they
// denote the same key press, so remap triggers can be matched by
// plain string equality.
type Normalizer struct {
	leader string
}

// NewNormalizer creates a normalizer for the given leader key spec.
// An empty leader selects DefaultLeader.
func NewNormalizer(leader string) (*Normalizer, error) {
	if leader == "" {
		leader = DefaultLeader
	}
	event, err := Parse(leader)
	if err != nil {
		return nil, fmt.Errorf("leader %q: %w", leader, err)
	}
	return &Normalizer{leader: event.Token()}, nil
}

// Leader returns the canonical token of the configured leader key.
func (n *Normalizer) Leader() string {
	return n.leader
}

// Token normalizes a single key spec. Any spelling of "<leader>" and the
// configured leader key itself both yield LeaderToken.
func (n *Normalizer) Token(spec string) (string, error) {
	if strings.EqualFold(spec, LeaderToken) {
		return LeaderToken, nil
	}
	event, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return n.Event(event), nil
}

// Event returns the canonical token for a key event received from a
// terminal or other input backend.
func (n *Normalizer) Event(e Event) string {
	tok := e.Token()
	if tok == n.leader {
		return LeaderToken
	}
	return tok
}

// Keys normalizes a list where each element is exactly one key spec.
func (n *Normalizer) Keys(specs []string) ([]string, error) {
	out := make([]string, 0, len(specs))
	for i, spec := range specs {
		tok, err := n.Token(spec)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		out = append(out, tok)
	}
	return out, nil
}

// Sequence normalizes a continuous Vim-style string such as "<leader>w" or "jk".
func (n *Normalizer) Sequence(s string) ([]string, error) {
	specs := SplitNotation(s)
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		tok, err := n.Token(spec)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", s, err)
		}
		out = append(out, tok)
	}
	return out, nil
}
