package commands

import (
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
)

// liftPlan replaces [from, to) with nodes and moves the cursor.
type liftPlan struct {
	from, to int
	nodes    []*model.Node
	cursor   int
}

func (p *liftPlan) apply(tr *transform.Transaction) *transform.Transaction {
	return tr.ReplaceRange(p.from, p.to, p.nodes).SetSelection(p.cursor, p.cursor)
}

// LiftListItem moves the list item around the cursor one level out. A
// nested item joins the outer list after its parent item, taking the
// items that followed it along as its own nested list. A top-level item
// becomes plain blocks and the list is split around it.
func LiftListItem(st engine.State) (*transform.Transaction, bool) {
	rp, err := st.Resolve(st.Selection.Head)
	if err != nil {
		return nil, false
	}
	plan := planLiftListItem(rp)
	if plan == nil {
		return nil, false
	}
	return done(plan.apply(st.Tr()))
}

// LiftBlockquote moves the block around the cursor out of its quote.
// The quote is split around it; empty halves are dropped.
func LiftBlockquote(st engine.State) (*transform.Transaction, bool) {
	rp, err := st.Resolve(st.Selection.Head)
	if err != nil {
		return nil, false
	}
	plan := planLiftBlockquote(rp)
	if plan == nil {
		return nil, false
	}
	return done(plan.apply(st.Tr()))
}

// innermost returns the depth of the innermost ancestor of kind, or 0.
func innermost(rp *model.ResolvedPos, kind schema.Kind) int {
	for d := rp.Depth(); d > 0; d-- {
		if rp.Node(d).Is(kind) {
			return d
		}
	}
	return 0
}

func planLiftListItem(rp *model.ResolvedPos) *liftPlan {
	item := innermost(rp, schema.KindListItem)
	if item < 2 {
		return nil
	}
	list := item - 1
	items := rp.Node(list).Content().Nodes()
	index := rp.Index(list)
	before, after := items[:index], items[index+1:]
	lifted := rp.Node(item)
	offset := rp.Pos - rp.Start(item)

	if outer := list - 1; outer > 0 && rp.Node(outer).Is(schema.KindListItem) {
		parent := rp.Node(outer)
		siblings := parent.Content().Nodes()
		at := rp.Index(outer)

		kept := append([]*model.Node(nil), siblings[:at]...)
		if len(before) > 0 {
			kept = append(kept, rp.Node(list).Copy(model.NewFragment(before...)))
		}
		children := lifted.Content().Nodes()
		if len(after) > 0 {
			children = append(children, rp.Node(list).Copy(model.NewFragment(after...)))
		}
		children = append(children, siblings[at+1:]...)

		head := parent.Copy(model.NewFragment(kept...))
		moved := lifted.Copy(model.NewFragment(children...))
		from := rp.Before(outer)
		return &liftPlan{
			from:   from,
			to:     rp.After(outer),
			nodes:  []*model.Node{head, moved},
			cursor: from + head.Size() + 1 + offset,
		}
	}

	var nodes []*model.Node
	prefix := 0
	if len(before) > 0 {
		head := rp.Node(list).Copy(model.NewFragment(before...))
		nodes = append(nodes, head)
		prefix = head.Size()
	}
	nodes = append(nodes, lifted.Content().Nodes()...)
	if len(after) > 0 {
		nodes = append(nodes, rp.Node(list).Copy(model.NewFragment(after...)))
	}
	from := rp.Before(list)
	return &liftPlan{from: from, to: rp.After(list), nodes: nodes, cursor: from + prefix + offset}
}

func planLiftBlockquote(rp *model.ResolvedPos) *liftPlan {
	quote := innermost(rp, schema.KindBlockquote)
	if quote == 0 || quote >= rp.Depth() {
		return nil
	}
	children := rp.Node(quote).Content().Nodes()
	index := rp.Index(quote)
	before, after := children[:index], children[index+1:]

	var nodes []*model.Node
	prefix := 0
	if len(before) > 0 {
		head := rp.Node(quote).Copy(model.NewFragment(before...))
		nodes = append(nodes, head)
		prefix = head.Size()
	}
	nodes = append(nodes, children[index])
	if len(after) > 0 {
		nodes = append(nodes, rp.Node(quote).Copy(model.NewFragment(after...)))
	}
	from := rp.Before(quote)
	return &liftPlan{
		from:   from,
		to:     rp.After(quote),
		nodes:  nodes,
		cursor: from + prefix + (rp.Pos - rp.Before(quote+1)),
	}
}

// planLift lifts out of whichever of list item or quote is innermost.
func planLift(rp *model.ResolvedPos) *liftPlan {
	if innermost(rp, schema.KindListItem) > innermost(rp, schema.KindBlockquote) {
		return planLiftListItem(rp)
	}
	return planLiftBlockquote(rp)
}
