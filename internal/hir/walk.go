package hir

// WalkMode controls whether Walk descends into closure bodies.
type WalkMode uint8

const (
	// WalkSkipClosures treats closures as opaque leaves.
	WalkSkipClosures WalkMode = iota
	// WalkEnterClosures visits the bodies of inline closures.
	WalkEnterClosures
)

// Walk visits every node reachable from e in post-order: all children of a
// node are fully visited before fn receives the node itself. fn may rewrite
// the node in place.
//
// Children are visited in evaluation order:
//   - calls: callee (module and name for inter-module calls), then arguments
//   - let: bound values, then body
//   - try: body, then, catch
//   - case: scrutinees, pattern values, clause bodies
//   - tuple and map: declaration order, map keys before their values
//   - list: head elements, then tail
//   - do: prefix, then tail
//   - receive: pattern values, timeout time, timeout body, clause bodies
//
// Patterns and guards are not visited.
func Walk(e *SingleExpr, mode WalkMode, fn func(*SingleExpr)) {
	if e == nil || fn == nil {
		return
	}
	switch d := e.Data.(type) {
	case AtomicData, VariableData, NamedFunctionData, TestData:
	case ApplyCallData:
		Walk(d.Fun, mode, fn)
		walkAll(d.Args, mode, fn)
	case InterModuleCallData:
		Walk(d.Module, mode, fn)
		Walk(d.Name, mode, fn)
		walkAll(d.Args, mode, fn)
	case LetData:
		WalkExpr(&d.Val, mode, fn)
		Walk(d.Body, mode, fn)
	case TryData:
		WalkExpr(&d.Body, mode, fn)
		Walk(d.Then, mode, fn)
		Walk(d.Catch, mode, fn)
	case CaseData:
		WalkExpr(&d.Val, mode, fn)
		walkAll(d.Values, mode, fn)
		for i := range d.Clauses {
			Walk(d.Clauses[i].Body, mode, fn)
		}
	case TupleData:
		walkAll(d.Elems, mode, fn)
	case ListData:
		walkAll(d.Head, mode, fn)
		Walk(d.Tail, mode, fn)
	case MapData:
		for _, ent := range d.Entries {
			Walk(ent.Key, mode, fn)
			Walk(ent.Value, mode, fn)
		}
	case PrimOpData:
		walkAll(d.Args, mode, fn)
	case DoData:
		WalkExpr(&d.First, mode, fn)
		Walk(d.Then, mode, fn)
	case ReceiveData:
		walkAll(d.PatternValues, mode, fn)
		Walk(d.TimeoutTime, mode, fn)
		Walk(d.TimeoutBody, mode, fn)
		for i := range d.Clauses {
			Walk(d.Clauses[i].Body, mode, fn)
		}
	case BindClosureData:
		if mode == WalkEnterClosures {
			WalkFunction(d.Closure.InlineFun(), mode, fn)
		}
	case BindClosuresData:
		if mode == WalkEnterClosures {
			for i := range d.Closures {
				WalkFunction(d.Closures[i].InlineFun(), mode, fn)
			}
		}
		Walk(d.Body, mode, fn)
	}
	fn(e)
}

// WalkExpr walks every value of the sequence in order.
func WalkExpr(e *Expr, mode WalkMode, fn func(*SingleExpr)) {
	if e == nil {
		return
	}
	walkAll(e.Values, mode, fn)
}

// WalkFunction walks the body of f.
func WalkFunction(f *Function, mode WalkMode, fn func(*SingleExpr)) {
	if f == nil {
		return
	}
	Walk(f.Body, mode, fn)
}

func walkAll(es []*SingleExpr, mode WalkMode, fn func(*SingleExpr)) {
	for _, e := range es {
		Walk(e, mode, fn)
	}
}
