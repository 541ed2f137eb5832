package warehouse

// minProductNameLength filters out short tokens that collide with common
// words before the vocabulary match.
const minProductNameLength = 4

// minProductMentions is the mention floor below which a product is not
// reported.
const minProductMentions = 2

// productVocabulary is the closed set of drug and substance names recognized
// as products. Tokens outside this list never surface in the report.
var productVocabulary = []string{
	"paracetamol", "ibuprofen", "aspirin", "amoxicillin", "metformin",
	"insulin", "morphine", "codeine", "tramadol", "diclofenac",
	"prednisolone", "dexamethasone", "omeprazole", "ranitidine",
	"simvastatin", "atorvastatin", "lisinopril", "amlodipine",
	"metronidazole", "ciprofloxacin", "azithromycin", "doxycycline",
	"hydrochlorothiazide", "furosemide", "warfarin", "heparin",
	"salbutamol", "hydrocortisone", "betamethasone",
}
