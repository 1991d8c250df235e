// Package dtmf implements in-band DTMF tone detection, digit debouncing
// and tone clip generation for 8-bit unsigned PCM audio at 8 kHz.
package dtmf

// Entry maps one keypad symbol to its dual-tone frequency pair.
type Entry struct {
	Digit byte
	F1    int // column frequency, Hz
	F2    int // row frequency, Hz
}

// Table lists the 16-symbol DTMF alphabet. Detection iterates in this
// order and the first matching entry wins.
var Table = []Entry{
	{'1', 1209, 697},
	{'2', 1336, 697},
	{'3', 1477, 697},
	{'A', 1633, 697},
	{'4', 1209, 770},
	{'5', 1336, 770},
	{'6', 1477, 770},
	{'B', 1633, 770},
	{'7', 1209, 852},
	{'8', 1336, 852},
	{'9', 1477, 852},
	{'C', 1633, 852},
	{'*', 1209, 941},
	{'0', 1336, 941},
	{'#', 1477, 941},
	{'D', 1633, 941},
}
