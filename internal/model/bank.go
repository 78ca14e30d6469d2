package model

// DocumentKind is the byte format a bank delivers statements in.
type DocumentKind string

const (
	KindPDF  DocumentKind = "pdf"
	KindHTML DocumentKind = "html"
)

// Bank identifies one statement issuer by its three-digit account prefix.
type Bank struct {
	Code string
	Name string
	Kind DocumentKind
}

// Extensions returns the file extensions accepted for the bank's statements.
func (b Bank) Extensions() []string {
	if b.Kind == KindHTML {
		return []string{".htm", ".html", ".pdf"}
	}
	return []string{".pdf"}
}

// Bank catalogue.
var (
	Hipotekarna = Bank{Code: "520", Name: "Hipotekarna Banka", Kind: KindPDF}
	NLB         = Bank{Code: "530", Name: "NLB Banka", Kind: KindPDF}
	Prva        = Bank{Code: "535", Name: "Prva Banka CG", Kind: KindPDF}
	Erste       = Bank{Code: "540", Name: "Erste Bank", Kind: KindHTML}
	UCB         = Bank{Code: "560", Name: "Universal Capital Bank", Kind: KindPDF}
	Lovcen      = Bank{Code: "565", Name: "Lovćen Banka", Kind: KindPDF}
	Zapad       = Bank{Code: "570", Name: "Zapad Banka", Kind: KindPDF}
	Ziraat      = Bank{Code: "575", Name: "Ziraat Bank Montenegro", Kind: KindPDF}
	Adriatic    = Bank{Code: "580", Name: "Adriatic Bank", Kind: KindPDF}
)

// Banks lists the catalogue ordered by code.
func Banks() []Bank {
	return []Bank{Hipotekarna, NLB, Prva, Erste, UCB, Lovcen, Zapad, Ziraat, Adriatic}
}
