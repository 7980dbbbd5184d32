package timeline

import "fmt"

// Biography is the static timeline of one subject.
type Biography struct {
	Slug    string  `json:"slug"`
	Subject string  `json:"subject"`
	Reign   string  `json:"reign"`
	Events  []Event `json:"events"`
}

// Event returns the i-th event.
func (b Biography) Event(i int) (Event, error) {
	if i < 0 || i >= len(b.Events) {
		return Event{}, fmt.Errorf("%w: %s has %d events, got %d", ErrEventIndex, b.Slug, len(b.Events), i)
	}
	return b.Events[i], nil
}

var library = []Biography{
	{
		Slug:    "augustus",
		Subject: "Augustus",
		Reign:   "27 BC – 14 AD",
		Events: []Event{
			located(Event{Kind: KindBirth, Name: "Born Gaius Octavius", Year: -63, Place: "Rome"}, 41.9, 12.5),
			{Kind: KindFamily, Name: "Adopted in Caesar's will", Year: -44, Description: "Named heir after the Ides of March."},
			located(Event{Kind: KindMilitary, Name: "Battle of Philippi", Year: -42, Place: "Philippi"}, 41.01, 24.29),
			located(Event{Kind: KindMilitary, Name: "Battle of Actium", Year: -31, Place: "Actium", Description: "Defeat of Antony and Cleopatra."}, 38.95, 20.77),
			located(Event{Kind: KindMadeEmperor, Name: "Title Augustus conferred", Year: -27, Place: "Rome"}, 41.9, 12.5),
			located(Event{Kind: KindMilitary, Name: "Teutoburg Forest", Year: 9, Place: "Kalkriese", Description: "Loss of three legions under Varus."}, 52.41, 8.13),
			located(Event{Kind: KindDeath, Name: "Death at Nola", Year: 14, Place: "Nola"}, 40.93, 14.53),
		},
	},
	{
		Slug:    "trajan",
		Subject: "Trajan",
		Reign:   "98 – 117",
		Events: []Event{
			located(Event{Kind: KindBirth, Name: "Born at Italica", Year: 53, Place: "Italica"}, 37.44, -6.05),
			{Kind: KindFamily, Name: "Adopted by Nerva", Year: 97},
			located(Event{Kind: KindMadeEmperor, Name: "Accession", Year: 98, Place: "Colonia Agrippina"}, 50.94, 6.96),
			located(Event{Kind: KindMilitary, Name: "Dacian Wars", Year: 101, YearEnd: until(106), Place: "Sarmizegetusa", Description: "Dacia annexed as a province."}, 45.62, 23.31),
			located(Event{Kind: KindPolitical, Name: "Forum of Trajan dedicated", Year: 112, Place: "Rome"}, 41.895, 12.485),
			located(Event{Kind: KindMilitary, Name: "Parthian campaign", Year: 114, YearEnd: until(117), Place: "Ctesiphon"}, 33.09, 44.58),
			located(Event{Kind: KindDeath, Name: "Death at Selinus", Year: 117, Place: "Selinus"}, 36.27, 32.28),
		},
	},
	{
		Slug:    "hadrian",
		Subject: "Hadrian",
		Reign:   "117 – 138",
		Events: []Event{
			located(Event{Kind: KindBirth, Name: "Born", Year: 76, Place: "Italica"}, 37.44, -6.05),
			located(Event{Kind: KindMadeEmperor, Name: "Proclaimed in Syria", Year: 117, Place: "Antioch"}, 36.2, 36.16),
			located(Event{Kind: KindMilitary, Name: "Wall begun in Britannia", Year: 122, Place: "Vindolanda"}, 54.99, -2.36),
			{Kind: KindOther, Name: "Travels through the provinces", Year: 121, YearEnd: until(132)},
			located(Event{Kind: KindMilitary, Name: "Bar Kokhba revolt", Year: 132, YearEnd: until(136), Place: "Judaea"}, 31.77, 35.21),
			located(Event{Kind: KindDeath, Name: "Death at Baiae", Year: 138, Place: "Baiae"}, 40.82, 14.07),
		},
	},
	{
		Slug:    "marcus-aurelius",
		Subject: "Marcus Aurelius",
		Reign:   "161 – 180",
		Events: []Event{
			located(Event{Kind: KindBirth, Name: "Born", Year: 121, Place: "Rome"}, 41.9, 12.5),
			{Kind: KindFamily, Name: "Adopted by Antoninus Pius", Year: 138},
			located(Event{Kind: KindMadeEmperor, Name: "Joint accession with Lucius Verus", Year: 161, Place: "Rome"}, 41.9, 12.5),
			{Kind: KindOther, Name: "Antonine Plague", Year: 165, YearEnd: until(180)},
			located(Event{Kind: KindMilitary, Name: "Marcomannic Wars", Year: 166, YearEnd: until(180), Place: "Carnuntum"}, 48.11, 16.86),
			located(Event{Kind: KindDeath, Name: "Death at Vindobona", Year: 180, Place: "Vindobona"}, 48.21, 16.37),
		},
	},
	{
		Slug:    "septimius-severus",
		Subject: "Septimius Severus",
		Reign:   "193 – 211",
		Events: []Event{
			located(Event{Kind: KindBirth, Name: "Born at Leptis Magna", Year: 145, Place: "Leptis Magna"}, 32.64, 14.29),
			located(Event{Kind: KindMadeEmperor, Name: "Proclaimed at Carnuntum", Year: 193, Place: "Carnuntum"}, 48.11, 16.86),
			located(Event{Kind: KindMilitary, Name: "Battle of Lugdunum", Year: 197, Place: "Lugdunum"}, 45.76, 4.83),
			located(Event{Kind: KindMilitary, Name: "Sack of Ctesiphon", Year: 198, Place: "Ctesiphon"}, 33.09, 44.58),
			{Kind: KindPolitical, Name: "Caracalla made co-Augustus", Year: 198},
			located(Event{Kind: KindDeath, Name: "Death at Eboracum", Year: 211, Place: "Eboracum"}, 53.96, -1.08),
		},
	},
	{
		Slug:    "constantine",
		Subject: "Constantine I",
		Reign:   "306 – 337",
		Events: []Event{
			located(Event{Kind: KindBirth, Name: "Born at Naissus", Year: 272, Place: "Naissus"}, 43.32, 21.9),
			located(Event{Kind: KindMadeEmperor, Name: "Acclaimed at Eboracum", Year: 306, Place: "Eboracum"}, 53.96, -1.08),
			located(Event{Kind: KindMilitary, Name: "Milvian Bridge", Year: 312, Place: "Rome"}, 41.94, 12.47),
			{Kind: KindPolitical, Name: "Edict of Milan", Year: 313},
			located(Event{Kind: KindPolitical, Name: "Council of Nicaea", Year: 325, Place: "Nicaea"}, 40.43, 29.72),
			located(Event{Kind: KindPolitical, Name: "Constantinople dedicated", Year: 330, Place: "Constantinople"}, 41.01, 28.98),
			located(Event{Kind: KindDeath, Name: "Death near Nicomedia", Year: 337, Place: "Nicomedia"}, 40.77, 29.92),
		},
	},
}

// Biographies returns every built-in biography.
func Biographies() []Biography {
	out := make([]Biography, len(library))
	copy(out, library)
	return out
}

// Lookup returns the biography for slug.
func Lookup(slug string) (Biography, error) {
	for _, b := range library {
		if b.Slug == slug {
			return b, nil
		}
	}
	return Biography{}, fmt.Errorf("%w: %s", ErrUnknownBiography, slug)
}
