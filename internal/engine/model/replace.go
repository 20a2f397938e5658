package model

import "fmt"

// Replace returns a new root with the range [from, to) replaced by slice.
// Every node whose content changes is validated against its type.
func (n *Node) Replace(from, to int, slice Slice) (*Node, error) {
	if from > to {
		return nil, fmt.Errorf("%w: from %d after to %d", ErrOutOfRange, from, to)
	}
	rf, err := n.Resolve(from)
	if err != nil {
		return nil, err
	}
	rt, err := n.Resolve(to)
	if err != nil {
		return nil, err
	}
	if slice.OpenStart > rf.Depth() {
		return nil, fmt.Errorf("%w: slice opens %d levels at depth %d", ErrOpenDepth, slice.OpenStart, rf.Depth())
	}
	if rf.Depth()-slice.OpenStart != rt.Depth()-slice.OpenEnd {
		return nil, ErrOpenDepth
	}
	return replaceOuter(rf, rt, slice, 0)
}

func replaceOuter(rf, rt *ResolvedPos, slice Slice, depth int) (*Node, error) {
	index, node := rf.Index(depth), rf.Node(depth)
	switch {
	case index == rt.Index(depth) && depth < rf.Depth()-slice.OpenStart:
		inner, err := replaceOuter(rf, rt, slice, depth+1)
		if err != nil {
			return nil, err
		}
		return node.Copy(node.content.ReplaceChild(index, inner)), nil
	case slice.Content.Size() == 0:
		content, err := replaceTwoWay(rf, rt, depth)
		if err != nil {
			return nil, err
		}
		return closeNode(node, content)
	case slice.OpenStart == 0 && slice.OpenEnd == 0 && rf.Depth() == depth && rt.Depth() == depth:
		parent := rf.Parent()
		content := parent.content
		return closeNode(parent, content.Cut(0, rf.ParentOffset()).
			Append(slice.Content).
			Append(content.Cut(rt.ParentOffset(), content.Size())))
	default:
		start, end, err := prepareSliceForReplace(slice, rf)
		if err != nil {
			return nil, err
		}
		content, err := replaceThreeWay(rf, start, end, rt, depth)
		if err != nil {
			return nil, err
		}
		return closeNode(node, content)
	}
}

// compatible reports whether content of sub can be joined onto main.
func compatible(main, sub *Node) bool {
	if main.typ == sub.typ {
		return true
	}
	if main.IsTextblock() && sub.IsTextblock() {
		return true
	}
	a, b := main.typ.Content, sub.typ.Content
	if a == nil || b == nil || len(a.Groups) != len(b.Groups) || len(a.Kinds) != len(b.Kinds) {
		return false
	}
	for i := range a.Groups {
		if a.Groups[i] != b.Groups[i] {
			return false
		}
	}
	for i := range a.Kinds {
		if a.Kinds[i] != b.Kinds[i] {
			return false
		}
	}
	return true
}

func checkJoin(main, sub *Node) error {
	if !compatible(main, sub) {
		return fmt.Errorf("%w: %s onto %s", ErrIncompatibleJoin, sub.Kind(), main.Kind())
	}
	return nil
}

func joinable(before, after *ResolvedPos, depth int) (*Node, error) {
	node := before.Node(depth)
	if err := checkJoin(node, after.Node(depth)); err != nil {
		return nil, err
	}
	return node, nil
}

// addRange copies the children of the node at depth between start and end
// (either may be nil meaning the node's edge) into target.
func addRange(start, end *ResolvedPos, depth int, target []*Node) []*Node {
	ref := end
	if ref == nil {
		ref = start
	}
	node := ref.Node(depth)
	startIndex, endIndex := 0, node.ChildCount()
	if end != nil {
		endIndex = end.Index(depth)
	}
	if start != nil {
		startIndex = start.Index(depth)
		if start.Depth() > depth {
			startIndex++
		} else if start.TextOffset() > 0 {
			target = addNode(target, start.NodeAfter())
			startIndex++
		}
	}
	for i := startIndex; i < endIndex; i++ {
		target = addNode(target, node.Child(i))
	}
	if end != nil && end.Depth() == depth && end.TextOffset() > 0 {
		target = addNode(target, end.NodeBefore())
	}
	return target
}

func closeNode(node *Node, content Fragment) (*Node, error) {
	if !node.typ.ValidContent(content.Kinds()) {
		return nil, fmt.Errorf("%w: %s cannot hold %v", ErrInvalidContent, node.Kind(), content.Kinds())
	}
	return node.Copy(content), nil
}

func replaceThreeWay(rf, start, end, rt *ResolvedPos, depth int) (Fragment, error) {
	var openStart, openEnd *Node
	var err error
	if rf.Depth() > depth {
		if openStart, err = joinable(rf, start, depth+1); err != nil {
			return EmptyFragment, err
		}
	}
	if rt.Depth() > depth {
		if openEnd, err = joinable(end, rt, depth+1); err != nil {
			return EmptyFragment, err
		}
	}

	content := addRange(nil, rf, depth, nil)
	if openStart != nil && openEnd != nil && start.Index(depth) == end.Index(depth) {
		if err := checkJoin(openStart, openEnd); err != nil {
			return EmptyFragment, err
		}
		inner, err := replaceThreeWay(rf, start, end, rt, depth+1)
		if err != nil {
			return EmptyFragment, err
		}
		closed, err := closeNode(openStart, inner)
		if err != nil {
			return EmptyFragment, err
		}
		content = addNode(content, closed)
	} else {
		if openStart != nil {
			inner, err := replaceTwoWay(rf, start, depth+1)
			if err != nil {
				return EmptyFragment, err
			}
			closed, err := closeNode(openStart, inner)
			if err != nil {
				return EmptyFragment, err
			}
			content = addNode(content, closed)
		}
		content = addRange(start, end, depth, content)
		if openEnd != nil {
			inner, err := replaceTwoWay(end, rt, depth+1)
			if err != nil {
				return EmptyFragment, err
			}
			closed, err := closeNode(openEnd, inner)
			if err != nil {
				return EmptyFragment, err
			}
			content = addNode(content, closed)
		}
	}
	content = addRange(rt, nil, depth, content)
	return NewFragment(content...), nil
}

func replaceTwoWay(rf, rt *ResolvedPos, depth int) (Fragment, error) {
	content := addRange(nil, rf, depth, nil)
	if rf.Depth() > depth {
		typ, err := joinable(rf, rt, depth+1)
		if err != nil {
			return EmptyFragment, err
		}
		inner, err := replaceTwoWay(rf, rt, depth+1)
		if err != nil {
			return EmptyFragment, err
		}
		closed, err := closeNode(typ, inner)
		if err != nil {
			return EmptyFragment, err
		}
		content = addNode(content, closed)
	}
	content = addRange(rt, nil, depth, content)
	return NewFragment(content...), nil
}

// prepareSliceForReplace wraps the slice in copies of the ancestors of
// along so its open edges can be resolved like ordinary positions.
func prepareSliceForReplace(slice Slice, along *ResolvedPos) (start, end *ResolvedPos, err error) {
	extra := along.Depth() - slice.OpenStart
	node := along.Node(extra).Copy(slice.Content)
	for i := extra - 1; i >= 0; i-- {
		node = along.Node(i).Copy(NewFragment(node))
	}
	if start, err = node.Resolve(slice.OpenStart + extra); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOpenDepth, err)
	}
	if end, err = node.Resolve(node.content.Size() - slice.OpenEnd - extra); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOpenDepth, err)
	}
	return start, end, nil
}
