package ir

import "github.com/pacedproton/mdslc/internal/compiler/ast"

func (t *transformer) lowerEvent(e *ast.EventDecl) (*Event, error) {
	ev := &Event{Name: e.Name, EventType: e.EventType, Date: e.Date, Status: e.Status}

	for _, entity := range e.Entities {
		ev.Entities = append(ev.Entities, EventEntity{
			Name:        entity.Name,
			ID:          entity.ID,
			Role:        entity.Role,
			StakeBefore: entity.StakeBefore,
			StakeAfter:  entity.StakeAfter,
		})
	}

	for _, kv := range e.Impact {
		val, err := t.resolveExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		ev.Impact = append(ev.Impact, EventImpact{Name: kv.Name, Value: val})
	}

	for _, kv := range e.Metadata {
		val, err := t.resolveExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		ev.Metadata = append(ev.Metadata, EventMetadata{Name: kv.Name, Value: val})
	}

	return ev, nil
}
