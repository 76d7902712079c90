package parser

type NodeKind int

const (
	KindInvalid NodeKind = iota

	// Declarations
	KindProgram
	KindMainClass
	KindBaseClass
	KindDerivedClass
	KindFieldDecl
	KindVarDecl
	KindMethodDecl
	KindParam

	// Types
	KindIntType
	KindBooleanType
	KindIntArrayType
	KindClassType

	// Statements
	KindBlockStmt
	KindPrintStmt
	KindAssignStmt
	KindArrayAssignStmt
	KindWhileStmt
	KindIfStmt

	// Expressions
	KindIntLit
	KindBoolLit
	KindIdent
	KindThis
	KindNewObject
	KindNewIntArray
	KindBinaryExpr
	KindNotExpr
	KindArrayAccess
	KindArrayLength
	KindMethodCall
	KindParenExpr
)

var nodeKindNames = map[NodeKind]string{
	KindInvalid:         "Invalid",
	KindProgram:         "Program",
	KindMainClass:       "MainClass",
	KindBaseClass:       "BaseClass",
	KindDerivedClass:    "DerivedClass",
	KindFieldDecl:       "FieldDecl",
	KindVarDecl:         "VarDecl",
	KindMethodDecl:      "MethodDecl",
	KindParam:           "Param",
	KindIntType:         "Int",
	KindBooleanType:     "Boolean",
	KindIntArrayType:    "IntArray",
	KindClassType:       "ClassRef",
	KindBlockStmt:       "Block",
	KindPrintStmt:       "Print",
	KindAssignStmt:      "Assign",
	KindArrayAssignStmt: "ArrayAssign",
	KindWhileStmt:       "While",
	KindIfStmt:          "If",
	KindIntLit:          "IntLit",
	KindBoolLit:         "BoolLit",
	KindIdent:           "Id",
	KindThis:            "This",
	KindNewObject:       "New",
	KindNewIntArray:     "NewIntArray",
	KindBinaryExpr:      "Binary",
	KindNotExpr:         "Not",
	KindArrayAccess:     "ArrayAccess",
	KindArrayLength:     "ArrayLength",
	KindMethodCall:      "MethodCall",
	KindParenExpr:       "Paren",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is implemented by every syntax tree node. Nodes are built once by
// the parser and must be treated as read-only afterwards.
type Node interface {
	Kind() NodeKind
	Span() Span
}

type node struct {
	Loc Span
}

func (n *node) Span() Span { return n.Loc }

// Expr, Stmt, Type and ClassDecl close the variant sets; only types in
// this package implement them.
type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Type interface {
	Node
	typeNode()
}

type ClassDecl interface {
	Node
	ClassName() *Ident
	FieldDecls() []*FieldDecl
	MethodDecls() []*MethodDecl
	classNode()
}

type Mutability int

const (
	Immutable Mutability = iota
	Mutable
)

func (m Mutability) String() string {
	if m == Mutable {
		return "Mutable"
	}
	return "Immutable"
}

type BinaryOp int

const (
	OpPlus BinaryOp = iota
	OpMinus
	OpMult
	OpLess
	OpGreater
	OpAnd
)

var binaryOpNames = [...]string{
	OpPlus:    "Plus",
	OpMinus:   "Minus",
	OpMult:    "Mult",
	OpLess:    "Less",
	OpGreater: "Greater",
	OpAnd:     "And",
}

var binaryOpSymbols = [...]string{
	OpPlus:    "+",
	OpMinus:   "-",
	OpMult:    "*",
	OpLess:    "<",
	OpGreater: ">",
	OpAnd:     "&&",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "Unknown"
}

// Symbol returns the operator as written in source.
func (op BinaryOp) Symbol() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return "?"
}

type Program struct {
	node
	Main    *MainClass
	Classes []ClassDecl
}

type MainClass struct {
	node
	Name     *Ident
	ArgsName *Ident
	Vars     []*VarDecl
	Body     []Stmt
}

type BaseClass struct {
	node
	Name    *Ident
	Fields  []*FieldDecl
	Methods []*MethodDecl
}

type DerivedClass struct {
	node
	Name    *Ident
	Super   *Ident
	Fields  []*FieldDecl
	Methods []*MethodDecl
}

type FieldDecl struct {
	node
	Mutability Mutability
	Type       Type
	Name       *Ident
}

type VarDecl struct {
	node
	Mutability Mutability
	Type       Type
	Name       *Ident
}

type MethodDecl struct {
	node
	Public     bool
	ReturnType Type
	Name       *Ident
	Params     []*Param
	Vars       []*VarDecl
	Body       []Stmt
	Return     Expr
}

type Param struct {
	node
	Type Type
	Name *Ident
}

type IntType struct{ node }
type BooleanType struct{ node }
type IntArrayType struct{ node }

type ClassType struct {
	node
	Name *Ident
}

type BlockStmt struct {
	node
	Stmts []Stmt
}

type PrintStmt struct {
	node
	Value Expr
}

type AssignStmt struct {
	node
	Name  *Ident
	Value Expr
}

type ArrayAssignStmt struct {
	node
	Name  *Ident
	Index Expr
	Value Expr
}

type WhileStmt struct {
	node
	Cond Expr
	Body Stmt
}

type IfStmt struct {
	node
	Cond Expr
	Then Stmt
	Else Stmt
}

// IntLit is an integer literal. Literals have no upper bound; Value is only
// meaningful when Overflow is false.
type IntLit struct {
	node
	Value    int64
	Literal  string
	Overflow bool
}

type BoolLit struct {
	node
	Value bool
}

// Ident is both a name in a declaration and the identifier expression.
type Ident struct {
	node
	Name string
}

type ThisExpr struct{ node }

type NewObjectExpr struct {
	node
	Class *Ident
}

type NewIntArrayExpr struct {
	node
	Size Expr
}

type BinaryExpr struct {
	node
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type NotExpr struct {
	node
	Operand Expr
}

type ArrayAccessExpr struct {
	node
	Array Expr
	Index Expr
}

type ArrayLengthExpr struct {
	node
	Array Expr
}

type MethodCallExpr struct {
	node
	Receiver Expr
	Method   *Ident
	Args     []Expr
}

type ParenExpr struct {
	node
	Inner Expr
}

func (*Program) Kind() NodeKind         { return KindProgram }
func (*MainClass) Kind() NodeKind       { return KindMainClass }
func (*BaseClass) Kind() NodeKind       { return KindBaseClass }
func (*DerivedClass) Kind() NodeKind    { return KindDerivedClass }
func (*FieldDecl) Kind() NodeKind       { return KindFieldDecl }
func (*VarDecl) Kind() NodeKind         { return KindVarDecl }
func (*MethodDecl) Kind() NodeKind      { return KindMethodDecl }
func (*Param) Kind() NodeKind           { return KindParam }
func (*IntType) Kind() NodeKind         { return KindIntType }
func (*BooleanType) Kind() NodeKind     { return KindBooleanType }
func (*IntArrayType) Kind() NodeKind    { return KindIntArrayType }
func (*ClassType) Kind() NodeKind       { return KindClassType }
func (*BlockStmt) Kind() NodeKind       { return KindBlockStmt }
func (*PrintStmt) Kind() NodeKind       { return KindPrintStmt }
func (*AssignStmt) Kind() NodeKind      { return KindAssignStmt }
func (*ArrayAssignStmt) Kind() NodeKind { return KindArrayAssignStmt }
func (*WhileStmt) Kind() NodeKind       { return KindWhileStmt }
func (*IfStmt) Kind() NodeKind          { return KindIfStmt }
func (*IntLit) Kind() NodeKind          { return KindIntLit }
func (*BoolLit) Kind() NodeKind         { return KindBoolLit }
func (*Ident) Kind() NodeKind           { return KindIdent }
func (*ThisExpr) Kind() NodeKind        { return KindThis }
func (*NewObjectExpr) Kind() NodeKind   { return KindNewObject }
func (*NewIntArrayExpr) Kind() NodeKind { return KindNewIntArray }
func (*BinaryExpr) Kind() NodeKind      { return KindBinaryExpr }
func (*NotExpr) Kind() NodeKind         { return KindNotExpr }
func (*ArrayAccessExpr) Kind() NodeKind { return KindArrayAccess }
func (*ArrayLengthExpr) Kind() NodeKind { return KindArrayLength }
func (*MethodCallExpr) Kind() NodeKind  { return KindMethodCall }
func (*ParenExpr) Kind() NodeKind       { return KindParenExpr }

func (c *BaseClass) ClassName() *Ident             { return c.Name }
func (c *BaseClass) FieldDecls() []*FieldDecl      { return c.Fields }
func (c *BaseClass) MethodDecls() []*MethodDecl    { return c.Methods }
func (c *DerivedClass) ClassName() *Ident          { return c.Name }
func (c *DerivedClass) FieldDecls() []*FieldDecl   { return c.Fields }
func (c *DerivedClass) MethodDecls() []*MethodDecl { return c.Methods }

func (*BaseClass) classNode()    {}
func (*DerivedClass) classNode() {}

func (*IntType) typeNode()      {}
func (*BooleanType) typeNode()  {}
func (*IntArrayType) typeNode() {}
func (*ClassType) typeNode()    {}

func (*BlockStmt) stmtNode()       {}
func (*PrintStmt) stmtNode()       {}
func (*AssignStmt) stmtNode()      {}
func (*ArrayAssignStmt) stmtNode() {}
func (*WhileStmt) stmtNode()       {}
func (*IfStmt) stmtNode()          {}

func (*IntLit) exprNode()          {}
func (*BoolLit) exprNode()         {}
func (*Ident) exprNode()           {}
func (*ThisExpr) exprNode()        {}
func (*NewObjectExpr) exprNode()   {}
func (*NewIntArrayExpr) exprNode() {}
func (*BinaryExpr) exprNode()      {}
func (*NotExpr) exprNode()         {}
func (*ArrayAccessExpr) exprNode() {}
func (*ArrayLengthExpr) exprNode() {}
func (*MethodCallExpr) exprNode()  {}
func (*ParenExpr) exprNode()       {}
