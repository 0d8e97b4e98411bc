package ast

type (
	// главные сущности
	FileID   uint32
	ItemID   uint32
	StmtID   uint32
	ExprID   uint32
	TypeID   uint32
	LengthID uint32
	// подсущности
	PayloadID uint32
	FnParamID uint32
	GenericID uint32
	AttrID    uint32
)

const (
	NoFileID    FileID    = 0
	NoItemID    ItemID    = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoLengthID  LengthID  = 0
	NoPayloadID PayloadID = 0
	NoFnParamID FnParamID = 0
	NoGenericID GenericID = 0
	NoAttrID    AttrID    = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id LengthID) IsValid() bool  { return id != NoLengthID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id FnParamID) IsValid() bool { return id != NoFnParamID }
func (id GenericID) IsValid() bool { return id != NoGenericID }
func (id AttrID) IsValid() bool    { return id != NoAttrID }
