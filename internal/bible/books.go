package bible

import "github.com/hyperjump/vulgata/internal/models"

// defaultBooks holds the 73 books of the Vulgate in liturgical order.
var defaultBooks = []BookInfo{
	// Old Testament
	{"Gn", "Genesis", "Genesis", "Génesis", OldTestament},
	{"Ex", "Exodus", "Exodus", "Éxodo", OldTestament},
	{"Lv", "Leviticus", "Leviticus", "Levítico", OldTestament},
	{"Nm", "Numeri", "Numbers", "Números", OldTestament},
	{"Dt", "Deuteronomium", "Deuteronomy", "Deuteronomio", OldTestament},
	{"Jos", "Josue", "Joshua", "Josué", OldTestament},
	{"Jdc", "Judicum", "Judges", "Jueces", OldTestament},
	{"Rt", "Ruth", "Ruth", "Rut", OldTestament},
	{"1Rg", "Regum I", "1 Samuel", "1 Samuel", OldTestament},
	{"2Rg", "Regum II", "2 Samuel", "2 Samuel", OldTestament},
	{"3Rg", "Regum III", "1 Kings", "1 Reyes", OldTestament},
	{"4Rg", "Regum IV", "2 Kings", "2 Reyes", OldTestament},
	{"1Par", "Paralipomenon I", "1 Chronicles", "1 Crónicas", OldTestament},
	{"2Par", "Paralipomenon II", "2 Chronicles", "2 Crónicas", OldTestament},
	{"Esr", "Esdrae", "Ezra", "Esdras", OldTestament},
	{"Neh", "Nehemiae", "Nehemiah", "Nehemías", OldTestament},
	{"Tob", "Tobiae", "Tobit", "Tobías", OldTestament},
	{"Jdt", "Judith", "Judith", "Judit", OldTestament},
	{"Est", "Esther", "Esther", "Ester", OldTestament},
	{"Job", "Job", "Job", "Job", OldTestament},
	{"Ps", "Psalmi", "Psalms", "Salmos", OldTestament},
	{"Pr", "Proverbia", "Proverbs", "Proverbios", OldTestament},
	{"Ecl", "Ecclesiastes", "Ecclesiastes", "Eclesiastés", OldTestament},
	{"Ct", "Canticum Canticorum", "Song of Songs", "Cantares", OldTestament},
	{"Sap", "Sapientia", "Wisdom", "Sabiduría", OldTestament},
	{"Sir", "Ecclesiasticus", "Sirach", "Eclesiástico", OldTestament},
	{"Is", "Isaias", "Isaiah", "Isaías", OldTestament},
	{"Jr", "Jeremias", "Jeremiah", "Jeremías", OldTestament},
	{"Lam", "Lamentationes", "Lamentations", "Lamentaciones", OldTestament},
	{"Bar", "Baruch", "Baruch", "Baruc", OldTestament},
	{"Ez", "Ezechiel", "Ezekiel", "Ezequiel", OldTestament},
	{"Dn", "Daniel", "Daniel", "Daniel", OldTestament},
	{"Os", "Osee", "Hosea", "Oseas", OldTestament},
	{"Joel", "Joel", "Joel", "Joel", OldTestament},
	{"Am", "Amos", "Amos", "Amós", OldTestament},
	{"Abd", "Abdias", "Obadiah", "Abdías", OldTestament},
	{"Jon", "Jonas", "Jonah", "Jonás", OldTestament},
	{"Mch", "Michaea", "Micah", "Miqueas", OldTestament},
	{"Nah", "Nahum", "Nahum", "Nahúm", OldTestament},
	{"Hab", "Habacuc", "Habakkuk", "Habacuc", OldTestament},
	{"Soph", "Sophonias", "Zephaniah", "Sofonías", OldTestament},
	{"Agg", "Aggaeus", "Haggai", "Hageo", OldTestament},
	{"Zach", "Zacharias", "Zechariah", "Zacarías", OldTestament},
	{"Mal", "Malachias", "Malachi", "Malaquías", OldTestament},
	{"1Mcc", "Machabaeorum I", "1 Maccabees", "1 Macabeos", OldTestament},
	{"2Mcc", "Machabaeorum II", "2 Maccabees", "2 Macabeos", OldTestament},
	// New Testament
	{"Mt", "Matthaeus", "Matthew", "Mateo", NewTestament},
	{"Mc", "Marcus", "Mark", "Marcos", NewTestament},
	{"Lc", "Lucas", "Luke", "Lucas", NewTestament},
	{"Jo", "Joannes", "John", "Juan", NewTestament},
	{"Act", "Actus Apostolorum", "Acts", "Hechos", NewTestament},
	{"Rom", "ad Romanos", "Romans", "Romanos", NewTestament},
	{"1Cor", "ad Corinthios I", "1 Corinthians", "1 Corintios", NewTestament},
	{"2Cor", "ad Corinthios II", "2 Corinthians", "2 Corintios", NewTestament},
	{"Gal", "ad Galatas", "Galatians", "Gálatas", NewTestament},
	{"Eph", "ad Ephesios", "Ephesians", "Efesios", NewTestament},
	{"Phlp", "ad Philippenses", "Philippians", "Filipenses", NewTestament},
	{"Col", "ad Colossenses", "Colossians", "Colosenses", NewTestament},
	{"1Thes", "ad Thessalonicenses I", "1 Thessalonians", "1 Tesalonicenses", NewTestament},
	{"2Thes", "ad Thessalonicenses II", "2 Thessalonians", "2 Tesalonicenses", NewTestament},
	{"1Tim", "ad Timotheum I", "1 Timothy", "1 Timoteo", NewTestament},
	{"2Tim", "ad Timotheum II", "2 Timothy", "2 Timoteo", NewTestament},
	{"Tit", "ad Titum", "Titus", "Tito", NewTestament},
	{"Phlm", "ad Philemonem", "Philemon", "Filemón", NewTestament},
	{"Hbr", "ad Hebraeos", "Hebrews", "Hebreos", NewTestament},
	{"Jac", "Jacobi", "James", "Santiago", NewTestament},
	{"1Ptr", "Petri I", "1 Peter", "1 Pedro", NewTestament},
	{"2Ptr", "Petri II", "2 Peter", "2 Pedro", NewTestament},
	{"1Jo", "Joannis I", "1 John", "1 Juan", NewTestament},
	{"2Jo", "Joannis II", "2 John", "2 Juan", NewTestament},
	{"3Jo", "Joannis III", "3 John", "3 Juan", NewTestament},
	{"Jud", "Judae", "Jude", "Judas", NewTestament},
	{"Apc", "Apocalypsis", "Revelation", "Apocalipsis", NewTestament},
}

// defaultMissing lists deuterocanonical books most Spanish editions omit.
var defaultMissing = map[models.Language][]string{
	models.Spanish: {"Tobiae", "Judith", "Sapientia", "Ecclesiasticus", "Baruch", "Machabaeorum I", "Machabaeorum II"},
}

// DefaultCatalog returns the built-in 73-book catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultBooks, defaultMissing)
	if err != nil {
		panic("bible: invalid built-in catalog: " + err.Error())
	}
	return c
}
