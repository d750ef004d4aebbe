package model

// Product represents a catalogued product. The read view always expands the
// referenced rows; manufacturer and origin are optional.
type Product struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Category     Reference  `json:"category"`
	Unit         Reference  `json:"unit"`
	Manufacturer *Reference `json:"manufacturer"`
	Origin       *Reference `json:"origin"`
}

// ProductRequest is the write view for direct product CRUD: references are
// supplied as identifier fields rather than nested objects. The nullable
// references use Optional so a partial update can distinguish an absent
// field (unchanged) from an explicit null (clear).
type ProductRequest struct {
	Name           *string         `json:"name" validate:"omitempty,max=100"`
	CategoryID     *int64          `json:"category_id"`
	UnitID         *int64          `json:"unit_id"`
	ManufacturerID Optional[int64] `json:"manufacturer_id"`
	OriginID       Optional[int64] `json:"origin_id"`
}

// ProductPayload is the nested product object inside a shopping-record
// payload. References arrive as named sub-objects and are resolved or created
// by the ingestion cascade.
type ProductPayload struct {
	Name         string               `json:"name" validate:"required,max=100"`
	Category     CategoryPayload      `json:"category"`
	Unit         UnitPayload          `json:"unit"`
	Manufacturer *ManufacturerPayload `json:"manufacturer"`
	Origin       *OriginPayload       `json:"origin"`
}

// CategoryPayload is a nested category sub-object.
type CategoryPayload struct {
	Name string `json:"name" validate:"required,max=50"`
}

// UnitPayload is a nested unit sub-object.
type UnitPayload struct {
	Name string `json:"name" validate:"required,max=10"`
}

// ManufacturerPayload is a nested manufacturer sub-object.
type ManufacturerPayload struct {
	Name string `json:"name" validate:"required,max=100"`
}

// OriginPayload is a nested origin sub-object.
type OriginPayload struct {
	Name string `json:"name" validate:"required,max=100"`
}
