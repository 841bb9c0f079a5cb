package lir

// Reachable marks every block reachable from the entry block.
func Reachable(f *FunctionCfg) []bool {
	if f == nil {
		return nil
	}
	reachable := make([]bool, len(f.Blocks))
	stack := []Label{f.Entry}
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f.Has(l) || reachable[l] {
			continue
		}
		reachable[l] = true
		succs := f.Blocks[l].Succs
		for i := len(succs) - 1; i >= 0; i-- {
			stack = append(stack, succs[i])
		}
	}
	return reachable
}
