package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tagml/internal/markup"
	"tagml/internal/source"
)

type markupState uint8

const (
	stateOpen markupState = iota + 1
	stateSuspended
	stateClosed
)

type layerKey struct {
	id    uint64
	layer string
}

// CheckTokenInvariants runs a minimal set of invariants on a token stream:
// 1) every span belongs to sf and lies within its content
// 2) tokens come in document order
// 3) close, suspend and resume refer to markup opened earlier
//
// With complete set (a document without errors) it also follows every
// markup instance per layer: suspend and close need it open, resume needs
// it suspended, and nothing may be left open at the end.
func CheckTokenInvariants(sf *source.File, tokens []markup.Token, complete bool) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var lastStart uint32
	opened := make(map[uint64]string) // id -> name
	states := make(map[layerKey]markupState)
	for i, tok := range tokens {
		sp := tok.Loc().Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d (%s): span file mismatch: got=%d want=%d", i, tok, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d (%s): span %v outside content of %d bytes", i, tok, sp, lenContent)
		}
		if sp.Start < lastStart {
			return fmt.Errorf("token %d (%s) starts before the previous token", i, tok)
		}
		lastStart = sp.Start

		var (
			id     uint64
			layers []string
			next   markupState
			ok     func(markupState) bool
		)
		switch t := tok.(type) {
		case *markup.MarkupOpen:
			if _, seen := opened[t.MarkupID]; seen {
				return fmt.Errorf("token %d: markup id %d opened twice", i, t.MarkupID)
			}
			opened[t.MarkupID] = t.QName
			for _, layer := range t.Layers {
				states[layerKey{t.MarkupID, layer}] = stateOpen
			}
			continue
		case *markup.MarkupSuspend:
			id, layers, next = t.MarkupID, t.Layers, stateSuspended
			ok = func(s markupState) bool { return s == stateOpen }
		case *markup.MarkupResume:
			// в других слоях экземпляр может продолжиться впервые
			id, layers, next = t.MarkupID, t.Layers, stateOpen
			ok = func(s markupState) bool { return s != stateOpen && s != stateClosed }
		case *markup.MarkupClose:
			id, layers, next = t.MarkupID, t.Layers, stateClosed
			ok = func(s markupState) bool { return s == stateOpen }
		default:
			continue
		}
		if _, seen := opened[id]; !seen {
			return fmt.Errorf("token %d (%s): markup id %d was never opened", i, tok, id)
		}
		if !complete {
			continue
		}
		for _, layer := range layers {
			key := layerKey{id, layer}
			if !ok(states[key]) {
				return fmt.Errorf("token %d (%s): markup id %d in layer %q is in state %d", i, tok, id, layer, states[key])
			}
			states[key] = next
		}
	}

	if complete {
		for key, state := range states {
			if state == stateOpen {
				return fmt.Errorf("markup %s (id %d) is not closed in layer %q", opened[key.id], key.id, key.layer)
			}
		}
	}
	return nil
}
