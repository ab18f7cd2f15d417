package lobby

// tableWords is the pool of friendly table ids. Names draw from coffee-house
// vocabulary so ids read well in an invite link.
var tableWords = []string{
	"amber", "anason", "badem", "bakir", "bergamot", "beyoglu",
	"cezve", "cinar", "cintemani", "defne", "demlik", "ebru",
	"fincan", "findik", "galata", "gelincik", "gulsuyu", "hamsi",
	"hanimeli", "hurma", "ihlamur", "incir", "kahve", "karanfil",
	"kavun", "kayisi", "kehribar", "kekik", "kestane", "kiraz",
	"lale", "leblebi", "limonata", "lokum", "mangal", "menekse",
	"mercan", "mirra", "misket", "nane", "nazar", "nergis",
	"okaliptus", "portakal", "rayiha", "reyhan", "safran", "sahlep",
	"salkim", "sardunya", "semaver", "simit", "sumbul", "susam",
	"tarcin", "tavla", "tellak", "tombak", "turkuaz", "vapur",
	"vishne", "yasemin", "yelken", "zeytin", "zumrut",
}
