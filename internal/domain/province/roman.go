package province

// romanProvinces is the master list, roughly the Hadrianic arrangement plus
// the later eastern additions that show up on coin reverses.
var romanProvinces = []string{
	"Italia",
	"Sicilia",
	"Sardinia et Corsica",
	"Alpes Maritimae",
	"Alpes Cottiae",
	"Alpes Poeninae",
	"Raetia",
	"Noricum",
	"Hispania Tarraconensis",
	"Baetica",
	"Lusitania",
	"Gallia Narbonensis",
	"Aquitania",
	"Gallia Lugdunensis",
	"Gallia Belgica",
	"Germania Inferior",
	"Germania Superior",
	"Britannia",
	"Pannonia Superior",
	"Pannonia Inferior",
	"Dalmatia",
	"Moesia Superior",
	"Moesia Inferior",
	"Dacia",
	"Thracia",
	"Macedonia",
	"Epirus",
	"Achaea",
	"Asia",
	"Bithynia et Pontus",
	"Galatia",
	"Cappadocia",
	"Lycia et Pamphylia",
	"Cilicia",
	"Cyprus",
	"Syria",
	"Judaea",
	"Arabia Petraea",
	"Armenia",
	"Mesopotamia",
	"Assyria",
	"Aegyptus",
	"Creta et Cyrenaica",
	"Africa Proconsularis",
	"Numidia",
	"Mauretania Caesariensis",
	"Mauretania Tingitana",
}

var roman = NewRegistry(romanProvinces...)

// Roman returns the master registry of Roman provinces.
func Roman() *Registry { return roman }
