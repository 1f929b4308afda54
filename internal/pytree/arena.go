package pytree

import (
	"fmt"

	"fortio.org/safecast"
)

// Names stores every identifier occurrence (bindings and reads alike) in a
// compact slice-based arena; index 0 is reserved for NoNameID.
type Names struct{ data []NameNode }

func NewNames(capacity uint32) *Names {
	if capacity == 0 {
		capacity = 64
	}
	return &Names{data: make([]NameNode, 1, capacity+1)}
}

func (n *Names) New(node NameNode) NameID {
	value, err := safecast.Conv[uint32](len(n.data))
	if err != nil {
		panic(fmt.Errorf("pytree: names arena overflow: %w", err))
	}
	n.data = append(n.data, node)
	return NameID(value)
}

func (n *Names) Get(id NameID) *NameNode {
	if !id.IsValid() || int(id) >= len(n.data) {
		return nil
	}
	return &n.data[id]
}

func (n *Names) Len() int { return len(n.data) - 1 }

func (n *Names) Data() []NameNode {
	if len(n.data) <= 1 {
		return nil
	}
	return n.data[1:]
}

// Params stores parameter nodes; index 0 is reserved for NoParamID.
type Params struct{ data []Param }

func NewParams(capacity uint32) *Params {
	if capacity == 0 {
		capacity = 32
	}
	return &Params{data: make([]Param, 1, capacity+1)}
}

func (p *Params) New(node Param) ParamID {
	value, err := safecast.Conv[uint32](len(p.data))
	if err != nil {
		panic(fmt.Errorf("pytree: params arena overflow: %w", err))
	}
	p.data = append(p.data, node)
	return ParamID(value)
}

func (p *Params) Get(id ParamID) *Param {
	if !id.IsValid() || int(id) >= len(p.data) {
		return nil
	}
	return &p.data[id]
}

func (p *Params) Len() int { return len(p.data) - 1 }

func (p *Params) Data() []Param {
	if len(p.data) <= 1 {
		return nil
	}
	return p.data[1:]
}

// Exprs stores expression nodes; index 0 is reserved for NoExprID.
type Exprs struct{ data []Expr }

func NewExprs(capacity uint32) *Exprs {
	if capacity == 0 {
		capacity = 256
	}
	return &Exprs{data: make([]Expr, 1, capacity+1)}
}

func (e *Exprs) New(node Expr) ExprID {
	value, err := safecast.Conv[uint32](len(e.data))
	if err != nil {
		panic(fmt.Errorf("pytree: exprs arena overflow: %w", err))
	}
	e.data = append(e.data, node)
	return ExprID(value)
}

func (e *Exprs) Get(id ExprID) *Expr {
	if !id.IsValid() || int(id) >= len(e.data) {
		return nil
	}
	return &e.data[id]
}

func (e *Exprs) Len() int { return len(e.data) - 1 }

func (e *Exprs) Data() []Expr {
	if len(e.data) <= 1 {
		return nil
	}
	return e.data[1:]
}

// Stmts stores statement nodes; index 0 is reserved for NoStmtID.
type Stmts struct{ data []Stmt }

func NewStmts(capacity uint32) *Stmts {
	if capacity == 0 {
		capacity = 256
	}
	return &Stmts{data: make([]Stmt, 1, capacity+1)}
}

func (s *Stmts) New(node Stmt) StmtID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("pytree: stmts arena overflow: %w", err))
	}
	s.data = append(s.data, node)
	return StmtID(value)
}

func (s *Stmts) Get(id StmtID) *Stmt {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

func (s *Stmts) Len() int { return len(s.data) - 1 }

func (s *Stmts) Data() []Stmt {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// Files stores file roots; index 0 is reserved for NoFileID.
type Files struct{ data []File }

func NewFiles(capacity uint32) *Files {
	if capacity == 0 {
		capacity = 8
	}
	return &Files{data: make([]File, 1, capacity+1)}
}

func (f *Files) New(node File) FileID {
	value, err := safecast.Conv[uint32](len(f.data))
	if err != nil {
		panic(fmt.Errorf("pytree: files arena overflow: %w", err))
	}
	f.data = append(f.data, node)
	return FileID(value)
}

func (f *Files) Get(id FileID) *File {
	if !id.IsValid() || int(id) >= len(f.data) {
		return nil
	}
	return &f.data[id]
}

func (f *Files) Len() int { return len(f.data) - 1 }

func (f *Files) Data() []File {
	if len(f.data) <= 1 {
		return nil
	}
	return f.data[1:]
}
