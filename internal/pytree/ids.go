// Package pytree is the read-only syntax tree the resolver consumes. It is
// deliberately the "external collaborator" described in the design: a
// lexer/parser (internal/pylex, internal/pyparse) populates it, the resolver
// (internal/symtab) annotates it in place by writing into each name's Symbol
// slot, and nothing downstream ever mutates node shape.
package pytree

type (
	FileID  uint32
	StmtID  uint32
	ExprID  uint32
	ParamID uint32
	NameID  uint32
)

const (
	NoFileID  FileID  = 0
	NoStmtID  StmtID  = 0
	NoExprID  ExprID  = 0
	NoParamID ParamID = 0
	NoNameID  NameID  = 0
)

func (id FileID) IsValid() bool  { return id != NoFileID }
func (id StmtID) IsValid() bool  { return id != NoStmtID }
func (id ExprID) IsValid() bool  { return id != NoExprID }
func (id ParamID) IsValid() bool { return id != NoParamID }
func (id NameID) IsValid() bool  { return id != NoNameID }
