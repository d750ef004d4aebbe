package model

// Reference is a single-name lookup row. Categories, units, manufacturers and
// origins all share this shape; they differ only in table and name limit.
type Reference struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ReferenceKind identifies one of the four reference-entity tables.
type ReferenceKind struct {
	Table    string
	Singular string
	MaxName  int
}

var (
	KindCategory     = ReferenceKind{Table: "categories", Singular: "category", MaxName: 50}
	KindUnit         = ReferenceKind{Table: "units", Singular: "unit", MaxName: 10}
	KindManufacturer = ReferenceKind{Table: "manufacturers", Singular: "manufacturer", MaxName: 100}
	KindOrigin       = ReferenceKind{Table: "origins", Singular: "origin", MaxName: 100}
)

// ReferenceRequest is the write payload for a reference entity. The name
// length limit depends on the kind, so it is enforced in the service layer.
type ReferenceRequest struct {
	Name string `json:"name"`
}
