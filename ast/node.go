// This file is part of turbopascal - https://github.com/lkesteloot/turbopascal
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ast defines the tree the parser builds and the compiler walks:
// a single tagged Node type covering every expression, statement,
// declaration and type form in the source language, plus the symbol
// table that lives alongside it (Symbol, SymbolTable, SymbolLookup).
// They are kept in one package because the node tree and its symbol
// bindings are two faces of the same data structure and are never used
// independently.
package ast

// Kind discriminates the role a Node plays. Every Node has exactly one
// Kind and only the fields relevant to that Kind are populated; the rest
// are left at their zero value.
type Kind int

// Node kinds, grouped as in the language's grammar.
const (
	// Literals
	KindIdentifier Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindNilPointer

	// Declarations & structure
	KindProgram
	KindProcedure
	KindFunction
	KindUses
	KindVar
	KindConst
	KindTypedConst
	KindType
	KindParameter
	KindField
	KindBlock
	KindRange

	// Statements
	KindAssignment
	KindProcedureCall
	KindIf
	KindWhile
	KindRepeat
	KindFor
	KindExit

	// Expressions
	KindUnary
	KindBinary
	KindFunctionCall
	KindIndex
	KindFieldDesignator
	KindAddressOf
	KindDereference
	KindCast

	// Type expressions
	KindSimpleType
	KindEnumType
	KindRecordType
	KindArrayType
	KindSetType
	KindSubprogramType
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindNilPointer:
		return "nil"
	case KindProgram:
		return "program"
	case KindProcedure:
		return "procedure"
	case KindFunction:
		return "function"
	case KindUses:
		return "uses"
	case KindVar:
		return "var"
	case KindConst:
		return "const"
	case KindTypedConst:
		return "typed_const"
	case KindType:
		return "type"
	case KindParameter:
		return "parameter"
	case KindField:
		return "field"
	case KindBlock:
		return "block"
	case KindRange:
		return "range"
	case KindAssignment:
		return "assignment"
	case KindProcedureCall:
		return "procedure_call"
	case KindIf:
		return "if"
	case KindWhile:
		return "while"
	case KindRepeat:
		return "repeat"
	case KindFor:
		return "for"
	case KindExit:
		return "exit"
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	case KindFunctionCall:
		return "function_call"
	case KindIndex:
		return "index"
	case KindFieldDesignator:
		return "field_designator"
	case KindAddressOf:
		return "address_of"
	case KindDereference:
		return "dereference"
	case KindCast:
		return "cast"
	case KindSimpleType:
		return "simple_type"
	case KindEnumType:
		return "enum_type"
	case KindRecordType:
		return "record_type"
	case KindArrayType:
		return "array_type"
	case KindSetType:
		return "set_type"
	case KindSubprogramType:
		return "subprogram_type"
	default:
		return "unknown"
	}
}

// TypeCode enumerates the primitive type codes a simple_type node may
// carry.
type TypeCode int

// Primitive type codes.
const (
	Address TypeCode = iota
	Boolean
	Char
	Integer
	Real
	String
	Set
	Void
	Any
)

func (c TypeCode) String() string {
	switch c {
	case Address:
		return "address"
	case Boolean:
		return "boolean"
	case Char:
		return "char"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case String:
		return "string"
	case Set:
		return "set"
	case Void:
		return "void"
	case Any:
		return "any"
	default:
		return "unknown"
	}
}

// Size returns the word size of a value of the given primitive type.
// Strings, being word-addressed heap-backed buffers in this system, and
// every other scalar, occupy exactly one word; only record and array
// types (computed elsewhere) can be larger.
func (c TypeCode) Size() int {
	return 1
}

// Node is the single tagged structure used for every AST node: every
// expression, every statement, every declaration and every type
// expression. Only the fields relevant to Kind are meaningful; the
// comments on the field groups below name the kinds that use them.
type Node struct {
	Kind Kind
	Line int

	// Literals
	Name      string // identifier text, also used as declaration name
	IntValue  int64
	RealValue float64
	IsReal    bool // number literal classified as real rather than integer
	StrValue  string
	BoolValue bool

	// Name resolution (attached after the parser resolves identifiers)
	Lookup *SymbolLookup

	// Every expression node carries an ExprType pointing at a type node.
	ExprType *Node

	// program / procedure / function
	Uses       []*Node
	Vars       []*Node
	Consts     []*Node
	Types      []*Node
	Procedures []*Node
	Functions  []*Node
	Params     []*Node
	ReturnType *Node
	Body       *Node
	Table      *SymbolTable
	Sym        *Symbol // the subprogram's own symbol, bound in the parent table

	// uses
	ModuleName string

	// var: Names holds one entry per declared name sharing VarType
	Names   []string
	VarType *Node
	Symbols []*Symbol // one per Name, parallel slice

	// const / typed_const
	ConstExpr *Node
	ConstType *Node
	Data      *RawData

	// type
	TypeExpr *Node

	// parameter
	ParamType   *Node
	ByReference bool

	// field
	FieldType *Node
	Offset    int

	// block / repeat body
	Statements []*Node

	// range
	Low     *Node
	High    *Node
	LowVal  int64
	HighVal int64

	// statements
	LHS   *Node
	RHS   *Node
	Cond  *Node
	Then  *Node
	Else  *Node
	Var   *Node
	Start *Node
	End   *Node
	Down  bool

	// procedure_call / function_call
	Callee *Node
	Args   []*Node

	// unary / binary
	Op             string
	Operand        *Node
	Left           *Node
	Right          *Node
	WasCastOperand *Node // original pre-cast operand; Abs special-cases on it

	// index / field_designator / address_of / dereference
	IndexBase   *Node
	Indices     []*Node
	FieldBase   *Node
	FieldName   string
	FieldSymbol *Symbol

	// enum_type
	EnumNames []string

	// record_type
	Fields []*Node

	// array_type
	Dims     []*Node
	ElemType *Node

	// set_type
	BaseType *Node

	// simple_type
	Code    TypeCode
	Pointee *Node // non-nil iff this simple_type (Code == Address) denotes "^Pointee"

	// subprogram_type (native procedure signatures)
	IsNative    bool
	NativeIndex int
}
