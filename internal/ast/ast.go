// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package ast holds the tree produced by parsing one module. Every node is
// created during the single parse pass and is read-only afterwards.
// References between nodes are by name, never by pointer.
package ast

import "gopkg.microglot.org/fparse.go/internal/optional"

type Module struct {
	Name       string                 `yaml:"name"`
	Uses       []*UseStatement        `yaml:"uses"`
	Variables  []*Variable            `yaml:"variables"`
	Symbols    []*PublicPrivateSymbol `yaml:"symbols"`
	Types      []*TypeDef             `yaml:"types"`
	Interfaces []*Interface           `yaml:"interfaces"`
	Routines   []*Routine             `yaml:"routines"`
}

// UseStatement imports from another module. A nil Only map imports
// everything; otherwise Only maps each imported name to its local name.
type UseStatement struct {
	Module    string            `yaml:"from"`
	Intrinsic bool              `yaml:"intrinsic,omitempty"`
	Only      map[string]string `yaml:"only,omitempty"`
}

type Variable struct {
	Name        string                    `yaml:"name"`
	Type        TypeSpec                  `yaml:"type"`
	Attributes  []Attribute               `yaml:"attrs,omitempty"`
	Dimension   optional.Optional[string] `yaml:"dim,omitempty"`
	Initializer optional.Optional[string] `yaml:"init,omitempty"`
	PointerInit bool                      `yaml:"pointer_init,omitempty"`
	Visibility  Visibility                `yaml:"visibility,omitempty"`
	Description string                    `yaml:"descr,omitempty"`
}

// Attribute returns the first attribute with the given keyword.
func (v *Variable) Attribute(keyword string) (Attribute, bool) {
	for _, a := range v.Attributes {
		if a.Keyword == keyword {
			return a, true
		}
	}
	return Attribute{}, false
}

// PublicPrivateSymbol is one name listed by a PUBLIC or PRIVATE statement.
// IsAPI is set when the statement is preceded by an "!API" comment.
type PublicPrivateSymbol struct {
	Name       string     `yaml:"name"`
	Visibility Visibility `yaml:"visibility"`
	IsAPI      bool       `yaml:"is_api"`
}

type TypeDef struct {
	Name       string      `yaml:"name"`
	Attributes []Attribute `yaml:"attrs,omitempty"`
	Variables  []*Variable `yaml:"variables"`
}

// Interface is an interface block. An empty Name is an anonymous interface.
type Interface struct {
	Name       string        `yaml:"name"`
	Procedures []string      `yaml:"procedures"`
	Task       InterfaceTask `yaml:"task,omitempty"`
}

type Argument struct {
	Name        string      `yaml:"name"`
	Type        TypeSpec    `yaml:"type,omitempty"`
	Attributes  []Attribute `yaml:"attrs,omitempty"`
	Description string      `yaml:"descr"`
}

type ReturnValue struct {
	Name        string      `yaml:"name"`
	Type        TypeSpec    `yaml:"type,omitempty"`
	Attributes  []Attribute `yaml:"attrs,omitempty"`
	Description string      `yaml:"descr"`
}

// Routine is a subroutine or a function signature. ReturnValue is nil for
// subroutines.
type Routine struct {
	Kind        RoutineKind  `yaml:"tag"`
	Name        string       `yaml:"name"`
	Summary     []string     `yaml:"descr"`
	Authors     []string     `yaml:"authors,omitempty"`
	Arguments   []*Argument  `yaml:"args"`
	Attributes  []string     `yaml:"attrs"`
	ReturnValue *ReturnValue `yaml:"retval,omitempty"`
}

// ArgumentIndex maps each argument name to its position.
func (r *Routine) ArgumentIndex() map[string]int {
	index := make(map[string]int, len(r.Arguments))
	for offset, a := range r.Arguments {
		index[a.Name] = offset
	}
	return index
}
