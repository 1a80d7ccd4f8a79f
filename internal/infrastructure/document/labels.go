package document

// labels is one language's set of document strings
type labels struct {
	Thai bool

	Title        string
	Date         string
	Claimant     string
	Department   string
	Purpose      string
	Vehicle      string
	Route        string
	Distance     string
	Kilometres   string
	RoutedNote   string
	FallbackNote string
	Rate         string
	DistanceCost string
	TicketCost   string
	TaxiCost     string
	Total        string
	Currency     string
	RouteSketch  string
	ReceiptTitle string
	Footer       string
	Unnamed      string
	SheetClaim   string
	SheetReceipt string
	PerKilometre string
}

var thaiLabels = labels{
	Thai:         true,
	Title:        "ใบบันทึกการเบิกจ่ายค่าเดินทาง",
	Date:         "วันที่",
	Claimant:     "ชื่อผู้เบิก",
	Department:   "แผนก",
	Purpose:      "วัตถุประสงค์",
	Vehicle:      "ยานพาหนะ",
	Route:        "เส้นทาง",
	Distance:     "ระยะทางรวม",
	Kilometres:   "กม.",
	RoutedNote:   "(ตามเส้นทางจริง)",
	FallbackNote: "(คำนวณเส้นตรง)",
	Rate:         "อัตรา",
	DistanceCost: "ค่าระยะทาง",
	TicketCost:   "ค่าตั๋วเครื่องบิน",
	TaxiCost:     "ค่าแท็กซี่",
	Total:        "ยอดเงินสุทธิ",
	Currency:     "บาท",
	RouteSketch:  "แผนที่เส้นทาง",
	ReceiptTitle: "หลักฐานการจ่ายเงิน",
	Footer:       "เอกสารนี้สร้างโดยระบบอัตโนมัติ (Travel Claim System)",
	Unnamed:      "-",
	SheetClaim:   "ใบเบิก",
	SheetReceipt: "ใบเสร็จ",
	PerKilometre: "บาท/กม.",
}

var englishLabels = labels{
	Title:        "Travel Expense Claim",
	Date:         "Date",
	Claimant:     "Claimant",
	Department:   "Department",
	Purpose:      "Purpose",
	Vehicle:      "Vehicle",
	Route:        "Route",
	Distance:     "Total distance",
	Kilometres:   "km",
	RoutedNote:   "(road route)",
	FallbackNote: "(straight line)",
	Rate:         "Rate",
	DistanceCost: "Distance amount",
	TicketCost:   "Air ticket",
	TaxiCost:     "Taxi fare",
	Total:        "Net amount",
	Currency:     "THB",
	RouteSketch:  "Route sketch",
	ReceiptTitle: "Receipt",
	Footer:       "Generated automatically by Travel Claim System",
	Unnamed:      "-",
	SheetClaim:   "Claim",
	SheetReceipt: "Receipt",
	PerKilometre: "THB/km",
}

func labelsFor(thai bool) labels {
	if thai {
		return thaiLabels
	}
	return englishLabels
}
