package catalog

import "github.com/teerapatzza/travel-claim/internal/domain/entity"

// builtinPlaces is used when no catalog file is configured
var builtinPlaces = []entity.Place{
	{ID: "office", Name: "สำนักงาน (กระทรวง)", Location: entity.Coordinate{Lat: 13.7367, Lng: 100.5232}},
	{ID: "siam", Name: "สยามพารากอน", Location: entity.Coordinate{Lat: 13.7462, Lng: 100.5347}},
	{ID: "hua-lamphong", Name: "สถานีรถไฟหัวลำโพง", Location: entity.Coordinate{Lat: 13.7377, Lng: 100.5170}},
	{ID: "bang-sue", Name: "สถานีกลางกรุงเทพอภิวัฒน์", Location: entity.Coordinate{Lat: 13.8046, Lng: 100.5397}},
	{ID: "don-mueang", Name: "ท่าอากาศยานดอนเมือง", Location: entity.Coordinate{Lat: 13.9126, Lng: 100.6068}},
	{ID: "suvarnabhumi", Name: "ท่าอากาศยานสุวรรณภูมิ", Location: entity.Coordinate{Lat: 13.6900, Lng: 100.7501}},
	{ID: "ministry-finance", Name: "กระทรวงการคลัง", Location: entity.Coordinate{Lat: 13.7762, Lng: 100.5265}},
}

// Builtin returns the default Bangkok catalog
func Builtin() *Catalog {
	c, err := New(builtinPlaces)
	if err != nil {
		panic(err)
	}
	return c
}
