package ast

// walk calls f on every node of the module tree, children before parents.
// The module itself is visited last.
func walk(module *Module, f func(interface{})) {
	for _, use := range module.Uses {
		f(use)
	}
	for _, variable := range module.Variables {
		f(variable)
	}
	for _, symbol := range module.Symbols {
		f(symbol)
	}
	for _, typeDef := range module.Types {
		walkTypeDef(typeDef, f)
	}
	for _, iface := range module.Interfaces {
		f(iface)
	}
	for _, routine := range module.Routines {
		walkRoutine(routine, f)
	}
	f(module)
}

func walkTypeDef(typeDef *TypeDef, f func(interface{})) {
	for _, variable := range typeDef.Variables {
		f(variable)
	}
	f(typeDef)
}

func walkRoutine(routine *Routine, f func(interface{})) {
	for _, argument := range routine.Arguments {
		f(argument)
	}
	if routine.ReturnValue != nil {
		f(routine.ReturnValue)
	}
	f(routine)
}

// Stats counts the nodes of a module by category.
type Stats struct {
	Uses        int
	Variables   int
	Types       int
	Interfaces  int
	Subroutines int
	Functions   int
}

// Count walks module and tallies its nodes. Type members are counted as
// variables.
func Count(module *Module) Stats {
	var s Stats
	walk(module, func(n interface{}) {
		switch n := n.(type) {
		case *UseStatement:
			s.Uses = s.Uses + 1
		case *Variable:
			s.Variables = s.Variables + 1
		case *TypeDef:
			s.Types = s.Types + 1
		case *Interface:
			s.Interfaces = s.Interfaces + 1
		case *Routine:
			switch n.Kind {
			case RoutineSubroutine:
				s.Subroutines = s.Subroutines + 1
			case RoutineFunction:
				s.Functions = s.Functions + 1
			}
		}
	})
	return s
}
