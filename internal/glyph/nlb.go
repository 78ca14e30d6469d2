package glyph

// NLB returns the decoder for the embedded statement fonts of NLB Banka.
func NLB() *Decoder {
	return &Decoder{Regular: nlbRegular, Bold: nlbBold}
}

var nlbBold = Table{
	4: "I", 5: "Z", 6: "V", 7: "O", 8: "D", 9: "B", 10: "R", 11: ".",
	12: "1", 13: "A", 14: "P", 15: "M", 16: "J", 17: "E", 18: "N", 19: "U",
	20: "S", 21: "T", 22: "C", 23: "6", 24: "0", 25: "2", 26: "5", 27: "3",
	28: "-", 29: "9", 30: "7", 31: "o", 32: "k", 33: "r", 34: "i", 35: "ć",
	36: "e", 37: "u", 38: "p", 39: "n",
}

var nlbRegular = Table{
	4: "(", 5: "N", 6: "a", 7: "z", 8: "i", 9: "v", 10: "l", 11: "s",
	12: "n", 13: "k", 14: "r", 15: "č", 16: "u", 17: ")", 18: "B", 19: "o",
	20: "j", 21: "P", 22: "e", 23: "t", 24: "h", 25: "d", 26: "D", 27: "m",
	28: "g", 29: "p", 30: "b", 31: "0", 32: "3", 33: "4", 34: "9", 35: "5",
	36: "7", 37: "ž", 38: "I", 39: "š", 40: "ć", 41: ".", 42: "R", 43: "T",
	44: "1", 45: "6", 46: "c", 47: "-", 48: "Š", 49: "f", 50: "S", 51: "L",
	52: "A", 53: ",", 54: "C", 55: "E", 56: "K", 57: "2", 58: ":", 59: "U",
}
