package pathbuilder

// combineChildren implements spec §3's mutability-propagation rule: a
// parent is PartiallyMutable if at least one child is NotMutable and at
// least one other child is Mutable, or if any child is itself
// PartiallyMutable; NotMutable if every child is NotMutable; Mutable
// otherwise (including the no-children case).
func combineChildren(children []Mutability) Mutability {
	var sawMutable, sawNotMutable bool
	for _, c := range children {
		switch c {
		case Mutable, PartiallyMutable:
			sawMutable = true
		case NotMutable:
			sawNotMutable = true
		}
		if c == PartiallyMutable {
			sawNotMutable = true
		}
	}
	switch {
	case sawMutable && sawNotMutable:
		return PartiallyMutable
	case sawNotMutable && !sawMutable:
		return NotMutable
	default:
		return Mutable
	}
}
