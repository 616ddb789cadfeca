package types

// Kind names a collection-kind namespace. DataFrame and Array backends are
// registered in separate namespaces, so the same label may appear in both.
// Implements prd001-dispatch-core R1.
type Kind string

// Supported collection kinds.
const (
	KindDataFrame Kind = "dataframe"
	KindArray     Kind = "array"
)

// Kinds returns the supported collection kinds in a fixed order.
func Kinds() []Kind {
	return []Kind{KindDataFrame, KindArray}
}

// Valid reports whether k names a supported collection kind.
func (k Kind) Valid() bool {
	return k == KindDataFrame || k == KindArray
}
