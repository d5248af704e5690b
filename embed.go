package publicsuffix

import _ "embed"

//go:generate go run gen.go

// embeddedList is the bootstrap snapshot compiled into the package. It is an
// excerpt of the official list (see gen.go) and exists so lookups work before
// the first Update.
//
//go:embed public_suffix_list.dat
var embeddedList string
