package ir

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/diag"
)

func (t *transformer) lowerFamily(f *ast.FamilyDecl) (*Family, error) {
	fam := &Family{Name: f.Name, Comment: f.Comment}

	for _, item := range f.Items {
		switch it := item.(type) {
		case *ast.OutletDecl:
			outlet, err := t.lowerOutlet(it)
			if err != nil {
				return nil, err
			}
			fam.Outlets = append(fam.Outlets, *outlet)

		case *ast.DiachronicLinkDecl:
			link, err := t.lowerDiachronicLink(it)
			if err != nil {
				return nil, err
			}
			fam.Relationships = append(fam.Relationships, Relationship{Kind: RelationshipDiachronic, Diachronic: link})

		case *ast.SynchronousLinkDecl:
			link, err := t.lowerSynchronousLink(it)
			if err != nil {
				return nil, err
			}
			fam.Relationships = append(fam.Relationships, Relationship{Kind: RelationshipSynchronous, Synchronous: link})

		case *ast.DataBlockDecl:
			data, err := t.lowerDataBlock(it)
			if err != nil {
				return nil, err
			}
			fam.DataBlocks = append(fam.DataBlocks, *data)
		}
	}

	return fam, nil
}

// lowerOutlet normalizes an outlet's id, preferring identity.id over a
// top-level id; both sources must agree when present.
func (t *transformer) lowerOutlet(o *ast.OutletDecl) (*Outlet, error) {
	outlet := &Outlet{Name: o.Name, TemplateRef: o.TemplateRef, BaseRef: o.BaseRef}

	var identityID *int
	for _, block := range o.Blocks {
		irBlock, id, err := t.lowerOutletBlock(block)
		if err != nil {
			return nil, err
		}
		if id != nil {
			identityID = id
		}
		outlet.Blocks = append(outlet.Blocks, *irBlock)
	}

	switch {
	case identityID != nil && o.TopLevelID != nil && *identityID != *o.TopLevelID:
		return nil, &TransformError{
			Message: "outlet '" + o.Name + "' has conflicting ids in identity and top-level position",
			Pos:     o.Location().Start,
		}
	case identityID != nil:
		outlet.ID = *identityID
	case o.TopLevelID != nil:
		outlet.ID = *o.TopLevelID
	default:
		return nil, &TransformError{
			Message: "outlet '" + o.Name + "' has no id (neither identity.id nor a top-level id is present)",
			Pos:     o.Location().Start,
		}
	}

	return outlet, nil
}

// lowerOutletBlock lowers one OutletBlock, returning the identity id it
// carries (if it is an identity block with an "id" field).
func (t *transformer) lowerOutletBlock(block ast.OutletBlock) (*OutletBlock, *int, error) {
	switch b := block.(type) {
	case *ast.IdentityBlock:
		var fields []IdentityField
		var id *int
		for _, kv := range b.Fields {
			val, err := t.resolveExpr(kv.Value)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, IdentityField{Name: kv.Name, Value: val})
			if kv.Name == "id" {
				if n, ok := exprAsNumber(val); ok {
					v := int(n)
					id = &v
				}
			}
		}
		return &OutletBlock{Kind: OutletBlockIdentity, Identity: fields}, id, nil

	case *ast.LifecycleBlock:
		var statuses []LifecycleStatus
		for _, s := range b.Statuses {
			status, err := t.lowerLifecycleStatus(s)
			if err != nil {
				return nil, nil, err
			}
			statuses = append(statuses, *status)
		}
		return &OutletBlock{Kind: OutletBlockLifecycle, Lifecycle: statuses}, nil, nil

	case *ast.CharacteristicsBlock:
		chars, err := t.lowerCharacteristics(b.Fields)
		if err != nil {
			return nil, nil, err
		}
		return &OutletBlock{Kind: OutletBlockCharacteristics, Characteristics: chars}, nil, nil

	case *ast.MetadataBlock:
		meta, err := t.lowerMetadata(b.Fields)
		if err != nil {
			return nil, nil, err
		}
		return &OutletBlock{Kind: OutletBlockMetadata, Metadata: meta}, nil, nil

	default:
		return nil, nil, &TransformError{Message: "unsupported outlet block shape", Pos: block.Location().Start}
	}
}

func (t *transformer) lowerLifecycleStatus(s *ast.LifecycleStatus) (*LifecycleStatus, error) {
	out := &LifecycleStatus{Status: s.Status}
	start, end := s.From, s.To
	out.StartDate = &start
	out.EndDate = &end

	for _, kv := range s.Fields {
		val, err := t.resolveExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		str, isStr := exprAsString(val)
		if !isStr {
			continue
		}
		switch kv.Name {
		case "precision_start":
			out.PrecisionStart = &str
		case "precision_end":
			out.PrecisionEnd = &str
		case "comment":
			out.Comment = &str
		}
	}
	return out, nil
}

// diachronicKnownKeys are the well-known keys extracted from a
// DIACHRONIC_LINK's kv map; anything else is dropped with an
// Info diagnostic.
var diachronicKnownKeys = map[string]bool{
	"predecessor": true, "successor": true, "event_start_date": true,
	"event_end_date": true, "relationship_type": true, "comment": true, "maps_to": true,
}

func (t *transformer) lowerDiachronicLink(d *ast.DiachronicLinkDecl) (*DiachronicLink, error) {
	link := &DiachronicLink{Name: d.Name}

	for _, kv := range d.Fields {
		if !diachronicKnownKeys[kv.Name] {
			t.bag.Infof(diag.RuleUnrecognizedKey, kv.Location().Start, "diachronic link %q: unrecognized key %q dropped", d.Name, kv.Name)
			continue
		}
		val, err := t.resolveExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		switch kv.Name {
		case "predecessor":
			if n, ok := exprAsNumber(val); ok {
				link.Predecessor = int(n)
			}
		case "successor":
			if n, ok := exprAsNumber(val); ok {
				link.Successor = int(n)
			}
		case "event_start_date":
			if s, ok := exprAsString(val); ok {
				link.EventStartDate = &s
			}
		case "event_end_date":
			if s, ok := exprAsString(val); ok {
				link.EventEndDate = &s
			}
		case "relationship_type":
			if s, ok := exprAsString(val); ok {
				link.RelationshipType = s
			}
		case "comment":
			if s, ok := exprAsString(val); ok {
				link.Comment = &s
			}
		case "maps_to":
			if s, ok := exprAsString(val); ok {
				link.MapsTo = &s
			}
		}
	}
	return link, nil
}

var synchronousKnownKeys = map[string]bool{
	"outlet_1": true, "outlet_2": true, "relationship_type": true,
	"period_start": true, "period_end": true, "details": true, "maps_to": true,
}

func (t *transformer) lowerSynchronousLink(s *ast.SynchronousLinkDecl) (*SynchronousLink, error) {
	link := &SynchronousLink{Name: s.Name}

	for _, kv := range s.Fields {
		if !synchronousKnownKeys[kv.Name] {
			t.bag.Infof(diag.RuleUnrecognizedKey, kv.Location().Start, "synchronous link %q: unrecognized key %q dropped", s.Name, kv.Name)
			continue
		}
		val, err := t.resolveExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		switch kv.Name {
		case "outlet_1":
			link.Outlet1 = lowerSyncOutlet(val)
		case "outlet_2":
			link.Outlet2 = lowerSyncOutlet(val)
		case "relationship_type":
			if str, ok := exprAsString(val); ok {
				link.RelationshipType = str
			}
		case "period_start":
			if str, ok := exprAsString(val); ok {
				link.PeriodStart = &str
			}
		case "period_end":
			if str, ok := exprAsString(val); ok {
				link.PeriodEnd = &str
			}
		case "details":
			if str, ok := exprAsString(val); ok {
				link.Details = &str
			}
		case "maps_to":
			if str, ok := exprAsString(val); ok {
				link.MapsTo = &str
			}
		}
	}
	return link, nil
}

func lowerSyncOutlet(val Expression) SyncOutlet {
	out := SyncOutlet{}
	if val.Kind != ExprObject {
		return out
	}
	for _, f := range val.Object {
		switch f.Name {
		case "id":
			if n, ok := exprAsNumber(f.Value); ok {
				out.ID = int(n)
			}
		case "role":
			if s, ok := exprAsString(f.Value); ok {
				out.Role = s
			}
		}
	}
	return out
}

func (t *transformer) lowerDataBlock(d *ast.DataBlockDecl) (*DataBlock, error) {
	block := &DataBlock{OutletID: d.OutletID}

	for _, kv := range d.Fields {
		val, err := t.resolveExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		switch kv.Name {
		case "maps_to":
			if s, ok := exprAsString(val); ok {
				block.MapsTo = &s
			}
		case "aggregation":
			if val.Kind == ExprObject {
				for _, f := range val.Object {
					block.Aggregation = append(block.Aggregation, DataAggregation{Name: f.Name, Value: exprToDisplayString(f.Value)})
				}
			}
		case "years":
			if val.Kind == ExprArray {
				for _, yearExpr := range val.Array {
					year := lowerDataYear(yearExpr)
					block.Years = append(block.Years, year)
				}
			}
		default:
			t.bag.Infof(diag.RuleUnrecognizedKey, kv.Location().Start, "data block for outlet %d: unrecognized key %q dropped", d.OutletID, kv.Name)
		}
	}
	return block, nil
}

func lowerDataYear(e Expression) DataYear {
	year := DataYear{}
	if e.Kind != ExprObject {
		return year
	}
	for _, f := range e.Object {
		switch f.Name {
		case "year":
			if n, ok := exprAsNumber(f.Value); ok {
				year.Year = int(n)
			}
		case "comment":
			if s, ok := exprAsString(f.Value); ok {
				year.Comment = &s
			}
		case "metrics":
			if f.Value.Kind == ExprArray {
				for _, metricExpr := range f.Value.Array {
					year.Metrics = append(year.Metrics, lowerDataMetric(metricExpr))
				}
			}
		}
	}
	return year
}

func lowerDataMetric(e Expression) DataMetric {
	metric := DataMetric{}
	if e.Kind != ExprObject {
		return metric
	}
	for _, f := range e.Object {
		switch f.Name {
		case "name":
			if s, ok := exprAsString(f.Value); ok {
				metric.Name = s
			}
		case "value":
			if n, ok := exprAsNumber(f.Value); ok {
				metric.Value = n
			}
		case "unit":
			if s, ok := exprAsString(f.Value); ok {
				metric.Unit = s
			}
		case "source":
			if s, ok := exprAsString(f.Value); ok {
				metric.Source = s
			}
		case "comment":
			if s, ok := exprAsString(f.Value); ok {
				metric.Comment = &s
			}
		}
	}
	return metric
}
