package sentiment

// Valence lexicon for Spanish news text. Entries are keyed on normalized
// (lowercased, diacritics-stripped) tokens; values follow the usual
// rule-based convention of roughly -4..+4 raw valence.
var lexicon = map[string]float64{
	// negative: conflict and disruption
	"bloqueo":        -2.1,
	"bloqueos":       -2.1,
	"paro":           -1.8,
	"paros":          -1.8,
	"huelga":         -2.2,
	"huelgas":        -2.2,
	"protesta":       -1.6,
	"protestas":      -1.6,
	"enfrentamiento": -2.5,
	"violencia":      -2.9,
	"violento":       -2.6,
	"disturbios":     -2.4,
	"conflicto":      -1.9,
	"crisis":         -2.3,
	"paraliza":       -1.7,
	"paralizan":      -1.7,
	"paralizado":     -1.7,

	// negative: harm and incidents
	"accidente":  -2.2,
	"incendio":   -2.4,
	"explosion":  -2.7,
	"heridos":    -2.5,
	"muertos":    -3.4,
	"fallecidos": -3.2,
	"victimas":   -2.6,
	"derrame":    -2.2,
	"evacuacion": -1.9,
	"emergencia": -2.0,
	"desastre":   -2.8,
	"amenaza":    -2.1,
	"amenazas":   -2.1,
	"peligro":    -2.0,
	"riesgo":     -1.3,
	"dano":       -1.8,
	"danos":      -1.8,

	// negative: legal and regulatory trouble
	"sancion":     -1.7,
	"sanciones":   -1.7,
	"multa":       -1.6,
	"multas":      -1.6,
	"querella":    -1.8,
	"denuncia":    -1.5,
	"denuncias":   -1.5,
	"acusacion":   -1.7,
	"corrupcion":  -2.8,
	"fraude":      -2.7,
	"irregular":   -1.4,
	"ilegal":      -2.0,
	"clausura":    -1.6,
	"infraccion":  -1.5,
	"rechazo":     -1.4,
	"rechaza":     -1.4,
	"critica":     -1.2,
	"criticas":    -1.2,
	"boicot":      -1.9,
	"contaminacion": -2.1,

	// negative: economic
	"despidos":  -2.1,
	"despido":   -2.1,
	"quiebra":   -2.5,
	"perdidas":  -1.8,
	"deuda":     -1.3,
	"caida":     -1.4,
	"escasez":   -1.8,
	"desempleo": -1.9,

	// positive
	"acuerdo":      1.7,
	"acuerdos":     1.7,
	"aprobacion":   1.5,
	"aprueba":      1.5,
	"avance":       1.4,
	"avances":      1.4,
	"beneficio":    1.6,
	"beneficios":   1.6,
	"celebra":      1.8,
	"crecimiento":  1.6,
	"exito":        2.4,
	"exitoso":      2.3,
	"ganancia":     1.7,
	"ganancias":    1.7,
	"inauguracion": 1.4,
	"inversion":    1.3,
	"logro":        1.9,
	"logros":       1.9,
	"mejora":       1.6,
	"mejoras":      1.6,
	"paz":          2.2,
	"progreso":     1.7,
	"recuperacion": 1.5,
	"seguro":       1.1,
	"solucion":     1.5,
	"apoyo":        1.4,
	"bienestar":    1.7,
	"confianza":    1.5,
	"dialogo":      1.3,
	"estable":      1.2,
	"positivo":     1.8,
	"fortalece":    1.4,
}

// boosters intensify or dampen the valence of the following lexicon word.
var boosters = map[string]float64{
	"muy":            0.293,
	"extremadamente": 0.293,
	"totalmente":     0.276,
	"completamente":  0.276,
	"altamente":      0.272,
	"gravemente":     0.293,
	"fuertemente":    0.272,
	"bastante":       0.180,
	"poco":           -0.293,
	"apenas":         -0.293,
	"ligeramente":    -0.272,
	"levemente":      -0.272,
}

// negators flip the valence of a nearby lexicon word.
var negators = map[string]bool{
	"no":      true,
	"nunca":   true,
	"jamas":   true,
	"sin":     true,
	"ni":      true,
	"tampoco": true,
}
