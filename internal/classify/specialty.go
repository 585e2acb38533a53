package classify

import "sort"

// specialtyNames maps the spellings used by the admission system to the labels
// printed on the report template.
var specialtyNames = map[string]string{
	"OFTALMOLOGIA":                   "OFTALMOLOGÍA",
	"TRAUMATOLOGIA GENERAL":          "TRAUMATOLOGÍA Y ORTOPEDIA",
	"CIRUGÍA DIGESTIVA Y COLOPROCTO": "CIRUGÍA GENERAL",
	"CIRUGIA PLASTICA":               "CIRUGÍA DE CABEZA, CUELLO Y MAXILOFACIAL",
	"CIRUGIA GENERAL":                "CIRUGÍA GENERAL",
	"BRONCOPULMONAR ADULTO":          "MEDICINA INTERNA",
	"NEUROLOGIA":                     "NEUROLOGÍA ADULTOS",
	"NEUROCIRUGIA":                   "NEUROCIRUGÍA",
	"MAXILOFACIAL":                   "CIRUGÍA DE CABEZA, CUELLO Y MAXILOFACIAL",
	"TRAUMATOLOGIA RODILLA":          "TRAUMATOLOGÍA Y ORTOPEDIA",
	"OTORRINOLARINGOLOGIA":           "OTORRINOLARINGOLOGÍA",
	"UROLOGIA":                       "UROLOGÍA",
	"GINECOLOGIA":                    "OBSTETRICIA Y GINECOLOGÍA",
	"MEDICINA INTERNA":               "MEDICINA INTERNA",
	"CIRUGIA VASCULAR":               "CIRUGÍA VASCULAR PERIFÉRICA",
	"CIRUGIA DENTAL":                 "CIRUGÍA DE CABEZA, CUELLO Y MAXILOFACIAL",
	"ANESTESIOLOGO":                  "ANESTESIOLOGÍA",
	"TRAUMATOLOGIA PIE Y TOBILLO":    "TRAUMATOLOGÍA Y ORTOPEDIA",
	"TRAUMATOLOGIA INFANTIL":         "CIRUGÍA PEDIÁTRICA",
	"URGENCIOLOGO":                   "URGENCIÓLOGO",
}

var canonicalSpecialties = func() map[string]bool {
	set := make(map[string]bool, len(specialtyNames))
	for _, c := range specialtyNames {
		set[c] = true
	}
	return set
}()

// Specialty returns the canonical label for a raw referral specialty.
// Names that are already canonical are reported as mapped; anything else is
// returned unchanged with mapped=false.
func Specialty(name string) (canonical string, mapped bool) {
	if c, ok := specialtyNames[name]; ok {
		return c, true
	}
	return name, canonicalSpecialties[name]
}

// CanonicalSpecialties returns the report labels in sorted order.
func CanonicalSpecialties() []string {
	out := make([]string, 0, len(canonicalSpecialties))
	for c := range canonicalSpecialties {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
